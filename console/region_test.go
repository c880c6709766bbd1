// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"testing"
)

type rect struct {
	x1, y1, x2, y2 int
}

func (r *Region) rect() rect {
	return rect{r.X1, r.Y1, r.X2, r.Y2}
}

func TestRegionEmpty(t *testing.T) {
	r := NewRegion(240, 320)
	if got := r.rect(); got != (rect{240, 320, 0, 0}) {
		t.Errorf("NewRegion() = %v", got)
	}
	if !r.Empty() {
		t.Error("new region should be empty")
	}
	r.Mark(0, 0, 0, 0)
	if r.Empty() {
		t.Error("marked region should not be empty")
	}
	r.Reset()
	if got := r.rect(); got != (rect{240, 320, 0, 0}) {
		t.Errorf("Reset() = %v", got)
	}
}

func TestRegionMark(t *testing.T) {
	for _, tc := range []struct {
		name  string
		marks []rect
		want  rect
	}{
		{
			name:  "single",
			marks: []rect{{10, 20, 30, 40}},
			want:  rect{10, 20, 30, 40},
		},
		{
			name:  "union",
			marks: []rect{{10, 20, 30, 40}, {5, 100, 6, 101}, {200, 0, 201, 1}},
			want:  rect{5, 0, 201, 101},
		},
		{
			name:  "contained",
			marks: []rect{{0, 0, 239, 319}, {10, 10, 20, 20}},
			want:  rect{0, 0, 239, 319},
		},
		{
			name:  "clipped",
			marks: []rect{{-5, -5, 240 + 10, 320 + 10}},
			want:  rect{0, 0, 239, 319},
		},
		{
			name:  "inverted",
			marks: []rect{{30, 40, 10, 20}},
			want:  rect{10, 20, 30, 40},
		},
		{
			name:  "off screen",
			marks: []rect{{300, 0, 400, 10}, {0, -10, 10, -1}},
			want:  rect{240, 320, 0, 0},
		},
		{
			name:  "partly off screen",
			marks: []rect{{230, 310, 400, 400}, {100, 100, 100, 100}},
			want:  rect{100, 100, 239, 319},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegion(240, 320)
			for _, m := range tc.marks {
				r.Mark(m.x1, m.y1, m.x2, m.y2)
			}
			if got := r.rect(); got != tc.want {
				t.Errorf("Mark() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRegionFlushRect(t *testing.T) {
	full := rect{0, 0, 239, 319}
	for _, tc := range []struct {
		name string
		in   rect
		want rect
	}{
		{"empty", rect{240, 320, 0, 0}, full},
		{"partial", rect{1, 2, 3, 4}, rect{1, 2, 3, 4}},
		{"negative", rect{-1, 2, 3, 4}, full},
		{"too large", rect{1, 2, 3, 320}, full},
		{"inverted x", rect{5, 2, 3, 4}, rect{0, 2, 239, 4}},
		{"inverted y", rect{1, 9, 3, 4}, rect{1, 0, 3, 319}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegion(240, 320)
			r.X1, r.Y1, r.X2, r.Y2 = tc.in.x1, tc.in.y1, tc.in.x2, tc.in.y2
			x1, y1, x2, y2 := r.flushRect()
			if got := (rect{x1, y1, x2, y2}); got != tc.want {
				t.Errorf("flushRect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRegionResize(t *testing.T) {
	r := NewRegion(240, 320)
	r.Mark(1, 1, 2, 2)
	r.Resize(320, 240)
	if got := r.rect(); got != (rect{320, 240, 0, 0}) {
		t.Errorf("Resize() = %v", got)
	}
	r.Mark(300, 0, 319, 239)
	if got := r.rect(); got != (rect{300, 0, 319, 239}) {
		t.Errorf("Mark() after Resize() = %v", got)
	}
}
