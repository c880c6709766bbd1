// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements an image of 16 bits pixels stored in the wire
// order of ILI934x family controllers: big endian 5-6-5 RGB, row major.
//
// Rows of the buffer are contiguous, so a horizontal span of pixels can be
// sent to the controller as one burst.
package rgb565

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a 16 bits color: 5 bits red, 6 bits green, 5 bits blue.
type Color uint16

// Common colors.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// RGB returns the Color closest to 8 bits per channel r, g, b.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color.
//
// The channels are expanded by bit replication so White maps to 0xFFFF.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F
	r8 := r5<<3 | r5>>2
	g8 := g6<<2 | g6>>4
	b8 := b5<<3 | b5>>2
	return r8 | r8<<8, g8 | g8<<8, b8 | b8<<8, 0xFFFF
}

// Model is the color model of Image.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Black
	}
	if a != 0xFFFF {
		// Un-premultiply.
		r = r * 0xFFFF / a
		g = g * 0xFFFF / a
		b = b * 0xFFFF / a
	}
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Image is an in-memory image of Color values.
type Image struct {
	// Pix holds the pixels, two bytes each, high byte first.
	Pix []byte
	// Stride is the Pix stride in bytes between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewImage returns a new Image with the given bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	return &Image{Pix: make([]byte, 2*w*h), Stride: 2 * w, Rect: r}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y), or Black outside the bounds.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return Black
	}
	o := i.PixOffset(x, y)
	return Color(uint16(i.Pix[o])<<8 | uint16(i.Pix[o+1]))
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, convert(c).(Color))
}

// SetRGB565 sets the pixel at (x, y). Points outside the bounds are ignored.
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	i.Pix[o] = byte(c >> 8)
	i.Pix[o+1] = byte(c)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

// Span returns the bytes of row y from x0 included to x1 excluded, clipped to
// the bounds. The slice aliases Pix.
func (i *Image) Span(y, x0, x1 int) []byte {
	if y < i.Rect.Min.Y || y >= i.Rect.Max.Y {
		return nil
	}
	if x0 < i.Rect.Min.X {
		x0 = i.Rect.Min.X
	}
	if x1 > i.Rect.Max.X {
		x1 = i.Rect.Max.X
	}
	if x0 >= x1 {
		return nil
	}
	return i.Pix[i.PixOffset(x0, y):i.PixOffset(x1, y)]
}

// Fill sets every pixel of r to c.
func (i *Image) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(i.Rect)
	if r.Empty() {
		return
	}
	hi, lo := byte(c>>8), byte(c)
	row := i.Span(r.Min.Y, r.Min.X, r.Max.X)
	for j := 0; j < len(row); j += 2 {
		row[j] = hi
		row[j+1] = lo
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		copy(i.Span(y, r.Min.X, r.Max.X), row)
	}
}

// Reshape changes the bounds to w×h with the origin at (0, 0), reusing Pix.
//
// It is used when the panel rotates: the amount of pixels is unchanged but
// rows get a new length. Pix is reallocated only if too small.
func (i *Image) Reshape(w, h int) {
	if n := 2 * w * h; cap(i.Pix) < n {
		i.Pix = make([]byte, n)
	} else {
		i.Pix = i.Pix[:n]
	}
	i.Stride = 2 * w
	i.Rect = image.Rect(0, 0, w, h)
}

var _ draw.Image = &Image{}
var _ color.Color = Black
