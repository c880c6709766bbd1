// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import "fmt"

// Region is the inclusive bounding rectangle of the pixels modified since the
// last flush.
//
// The empty region is (W, H, 0, 0): reversed on both axes so that the first
// marked rectangle always wins the min/max comparisons.
type Region struct {
	// X1, Y1, X2, Y2 are only meant to be read; use Mark to grow the region.
	// Values set directly are tolerated by the flush: out of the screen
	// means the whole screen, an inverted axis means that whole axis.
	X1, Y1, X2, Y2 int

	w, h int
}

// NewRegion returns an empty Region for a w×h screen.
func NewRegion(w, h int) Region {
	r := Region{w: w, h: h}
	r.Reset()
	return r
}

func (r *Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Reset empties the region.
func (r *Region) Reset() {
	r.X1, r.Y1, r.X2, r.Y2 = r.w, r.h, 0, 0
}

// Resize changes the screen size and empties the region.
func (r *Region) Resize(w, h int) {
	r.w, r.h = w, h
	r.Reset()
}

// Empty reports whether nothing was marked since the last Reset.
func (r *Region) Empty() bool {
	return r.X1 > r.X2 || r.Y1 > r.Y2
}

// Mark grows the region to include the inclusive rectangle (x1, y1)-(x2, y2),
// clipped to the screen.
//
// Corners may be given in any order. A rectangle entirely off screen is
// ignored.
func (r *Region) Mark(x1, y1, x2, y2 int) {
	x1, x2 = order(x1, x2)
	y1, y2 = order(y1, y2)
	if x2 < 0 || y2 < 0 || x1 >= r.w || y1 >= r.h {
		return
	}
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, r.w-1), min(y2, r.h-1)
	r.X1, r.Y1 = min(r.X1, x1), min(r.Y1, y1)
	r.X2, r.Y2 = max(r.X2, x2), max(r.Y2, y2)
}

// flushRect returns the inclusive rectangle to send to the panel.
//
// Any coordinate out of the screen means the whole screen. An inverted axis
// means the whole axis. The empty region is out of the screen so it is sent
// in full; a screen that didn't change can't be told apart from one that
// changed everywhere.
func (r *Region) flushRect() (x1, y1, x2, y2 int) {
	x1, y1, x2, y2 = r.X1, r.Y1, r.X2, r.Y2
	if x1 < 0 || x2 < 0 || y1 < 0 || y2 < 0 ||
		x1 >= r.w || x2 >= r.w || y1 >= r.h || y2 >= r.h {
		return 0, 0, r.w - 1, r.h - 1
	}
	if x1 > x2 {
		x1, x2 = 0, r.w-1
	}
	if y1 > y2 {
		y1, y2 = 0, r.h-1
	}
	return x1, y1, x2, y2
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
