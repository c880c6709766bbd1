// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"image"
	"testing"

	"github.com/GermanBionicSystems/tftconsole/ili9340/rgb565"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

// lit returns the points of img that are not black.
func lit(img *rgb565.Image) []image.Point {
	var out []image.Point
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGB565At(x, y) != rgb565.Black {
				out = append(out, image.Point{x, y})
			}
		}
	}
	return out
}

func TestCanvasDrawLine(t *testing.T) {
	for _, tc := range []struct {
		name           string
		x1, y1, x2, y2 int
		want           []image.Point
	}{
		{"point", 1, 1, 1, 1, []image.Point{{1, 1}}},
		{"diagonal", 0, 0, 2, 2, []image.Point{{0, 0}, {1, 1}, {2, 2}}},
		{"reversed", 2, 0, 0, 0, []image.Point{{0, 0}, {1, 0}, {2, 0}}},
		{"steep", 0, 0, 1, 3, []image.Point{{0, 0}, {0, 1}, {1, 2}, {1, 3}}},
		{"clipped", -1, 2, 1, 2, []image.Point{{0, 2}, {1, 2}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := rgb565.NewImage(image.Rect(0, 0, 4, 4))
			NewCanvas(img, nil, nil).DrawLine(tc.x1, tc.y1, tc.x2, tc.y2, rgb565.White)
			if diff := cmp.Diff(lit(img), tc.want); diff != "" {
				t.Errorf("DrawLine() (-got +want):\n%s", diff)
			}
		})
	}
}

func TestCanvasDrawRectangle(t *testing.T) {
	img := rgb565.NewImage(image.Rect(0, 0, 4, 4))
	c := NewCanvas(img, nil, nil)
	c.DrawRectangle(3, 2, 2, 1, rgb565.White)
	want := []image.Point{{2, 1}, {3, 1}, {2, 2}, {3, 2}}
	if diff := cmp.Diff(lit(img), want); diff != "" {
		t.Errorf("DrawRectangle() (-got +want):\n%s", diff)
	}
	c.Clear(rgb565.Black)
	c.FillRect(-1, 3, 2, 5, rgb565.White)
	if diff := cmp.Diff(lit(img), []image.Point{{0, 3}}); diff != "" {
		t.Errorf("FillRect() (-got +want):\n%s", diff)
	}
	c.FillRect(0, 0, 0, 3, rgb565.White)
	c.DrawLineV(3, 0, 0, rgb565.White)
	c.DrawLineH(1, 2, 0, rgb565.White)
	want = []image.Point{{1, 0}, {2, 0}, {3, 0}, {0, 3}}
	if diff := cmp.Diff(lit(img), want); diff != "" {
		t.Errorf("lines (-got +want):\n%s", diff)
	}
}

func TestCanvasText(t *testing.T) {
	img := rgb565.NewImage(image.Rect(0, 0, 40, 40))
	c := NewCanvas(img, nil, nil)
	if c.Advance('A') != 7 || c.LineHeight() != 13 {
		t.Fatalf("Face7x13 cell %dx%d", c.Advance('A'), c.LineHeight())
	}
	if got := c.MeasureText("ab\ncde"); got != (image.Point{21, 26}) {
		t.Errorf("MeasureText() = %v", got)
	}
	if got := c.MeasureText(""); got != (image.Point{0, 13}) {
		t.Errorf("MeasureText(\"\") = %v", got)
	}
	if got := c.MeasureText("abc\rd"); got != (image.Point{21, 13}) {
		t.Errorf("MeasureText() with carriage return = %v", got)
	}
	if len(lit(img)) != 0 {
		t.Fatal("MeasureText() drew")
	}

	size := c.PrintText(2, 3, "H", rgb565.White, rgb565.Blue)
	if size != (image.Point{7, 13}) {
		t.Errorf("PrintText() = %v", size)
	}
	cell := image.Rect(2, 3, 9, 16)
	var white int
	for _, p := range lit(img) {
		if !p.In(cell) {
			t.Fatalf("PrintText() touched %v outside %v", p, cell)
		}
		if img.RGB565At(p.X, p.Y) == rgb565.White {
			white++
		}
	}
	if white == 0 || len(lit(img)) != cell.Dx()*cell.Dy() {
		t.Errorf("PrintText() drew %d glyph pixels, %d cell pixels", white, len(lit(img)))
	}
}

func TestCanvasGlyphBox(t *testing.T) {
	img := rgb565.NewImage(image.Rect(0, 0, 40, 40))
	c := NewCanvas(img, nil, nil)
	if got := c.GlyphBox(2, 3, 'A'); got != image.Rect(2, 3, 8, 16) {
		t.Errorf("GlyphBox('A') = %v", got)
	}

	f, err := TrueTypeFace(goregular.TTF, 14)
	if err != nil {
		t.Fatal(err)
	}
	c = NewCanvas(img, f, nil)
	box := c.GlyphBox(10, 5, 'g')
	if box.Max.Y <= 5+c.LineHeight() {
		t.Errorf("GlyphBox('g') = %v, expected a descender under %d", box, 5+c.LineHeight())
	}
	c.WriteChar(10, 5, 'g', rgb565.White)
	for _, p := range lit(img) {
		if !p.In(box) {
			t.Fatalf("WriteChar('g') drew %v outside %v", p, box)
		}
	}
	if c.MeasureText("g") != (image.Point{c.Advance('g'), c.LineHeight()}) {
		t.Errorf("MeasureText(\"g\") = %v", c.MeasureText("g"))
	}
}

func TestCanvasPlotImage(t *testing.T) {
	img := rgb565.NewImage(image.Rect(0, 0, 4, 4))
	src := rgb565.NewImage(image.Rect(10, 10, 12, 11))
	src.Fill(src.Rect, rgb565.Green)
	NewCanvas(img, nil, nil).PlotImage(src, 3, 1)
	if diff := cmp.Diff(lit(img), []image.Point{{3, 1}}); diff != "" {
		t.Errorf("PlotImage() (-got +want):\n%s", diff)
	}
}

func TestCanvasScrollArea(t *testing.T) {
	img := rgb565.NewImage(image.Rect(0, 0, 10, 30))
	c := NewCanvas(img, nil, rgb565.Black)
	img.SetRGB565(2, 20, rgb565.Red)
	img.SetRGB565(3, 25, rgb565.Red)
	// Outside the scrolled area.
	img.SetRGB565(9, 29, rgb565.Red)
	c.ScrollArea(0, 0, 8, 29)
	want := []image.Point{{2, 7}, {3, 12}, {9, 29}}
	if diff := cmp.Diff(lit(img), want); diff != "" {
		t.Errorf("ScrollArea() (-got +want):\n%s", diff)
	}

	// An area shorter than a line is blanked.
	c.ScrollArea(0, 5, 9, 10)
	if diff := cmp.Diff(lit(img), []image.Point{{3, 12}, {9, 29}}); diff != "" {
		t.Errorf("short ScrollArea() (-got +want):\n%s", diff)
	}
}

func TestTrueTypeFace(t *testing.T) {
	f, err := TrueTypeFace(goregular.TTF, 16)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(rgb565.NewImage(image.Rect(0, 0, 100, 40)), f, nil)
	if c.LineHeight() < 16 {
		t.Errorf("LineHeight() = %d", c.LineHeight())
	}
	if c.Advance('i') >= c.Advance('M') {
		t.Errorf("Advance('i') = %d, Advance('M') = %d", c.Advance('i'), c.Advance('M'))
	}
	if _, err := TrueTypeFace([]byte("not a font"), 16); err == nil {
		t.Error("expected parse error")
	}
	if _, err := TrueTypeFace(goregular.TTF, 0); err == nil {
		t.Error("expected size error")
	}
}
