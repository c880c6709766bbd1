// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// TrueTypeFace parses a TrueType font and returns a face of size points at
// 72 DPI, so one point is one pixel.
func TrueTypeFace(ttf []byte, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("console: invalid font size %g", size)
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
