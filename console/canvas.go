// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is a drawing surface with the primitives of a text console.
//
// Rectangles are given by their inclusive corners. Everything is clipped to
// Bounds.
type Surface interface {
	Bounds() image.Rectangle
	PlotPixel(x, y int, c color.Color)
	DrawRectangle(x1, y1, x2, y2 int, c color.Color)
	DrawLine(x1, y1, x2, y2 int, c color.Color)
	DrawLineH(x1, x2, y int, c color.Color)
	DrawLineV(x, y1, y2 int, c color.Color)
	// WriteChar draws the glyph of r with its cell top left corner at (x, y).
	WriteChar(x, y int, r rune, c color.Color)
	// GlyphBox returns the pixels WriteChar(x, y, r) draws on. It may extend
	// past the cell for descenders and negative side bearings.
	GlyphBox(x, y int, r rune) image.Rectangle
	// PrintText draws s with its top left corner at (x, y) over a bg filled
	// background and returns the size of the text.
	PrintText(x, y int, s string, fg, bg color.Color) image.Point
	// MeasureText returns the size PrintText would cover, without drawing.
	MeasureText(s string) image.Point
	// PlotImage copies img with its top left corner at (x, y).
	PlotImage(img image.Image, x, y int)
	// ScrollArea moves the area up by one text line and blanks the last line.
	ScrollArea(x1, y1, x2, y2 int)
	Clear(c color.Color)
	// Advance returns the width of the glyph of r.
	Advance(r rune) int
	// LineHeight returns the height of a text line.
	LineHeight() int
}

// Canvas is a Surface drawing into any draw.Image.
type Canvas struct {
	dst  draw.Image
	face font.Face
	bg   color.Color
}

// NewCanvas returns a Canvas drawing into dst.
//
// face defaults to basicfont.Face7x13 and bg, the color uncovered by
// ScrollArea, to black.
func NewCanvas(dst draw.Image, face font.Face, bg color.Color) *Canvas {
	if face == nil {
		face = basicfont.Face7x13
	}
	if bg == nil {
		bg = color.Black
	}
	return &Canvas{dst: dst, face: face, bg: bg}
}

// Bounds implements Surface.
func (c *Canvas) Bounds() image.Rectangle {
	return c.dst.Bounds()
}

// PlotPixel implements Surface.
func (c *Canvas) PlotPixel(x, y int, col color.Color) {
	if (image.Point{x, y}).In(c.dst.Bounds()) {
		c.dst.Set(x, y, col)
	}
}

// DrawRectangle implements Surface. The rectangle is filled.
func (c *Canvas) DrawRectangle(x1, y1, x2, y2 int, col color.Color) {
	r := image.Rect(x1, y1, x2, y2)
	r.Max = r.Max.Add(image.Point{1, 1})
	draw.Draw(c.dst, r.Intersect(c.dst.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect fills the w×h rectangle at (x, y).
func (c *Canvas) FillRect(x, y, w, h int, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.DrawRectangle(x, y, x+w-1, y+h-1, col)
}

// DrawLine implements Surface.
func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color) {
	dx, sx := abs(x2-x1), sign(x2-x1)
	dy, sy := -abs(y2-y1), sign(y2-y1)
	e := dx + dy
	for {
		c.PlotPixel(x1, y1, col)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// DrawLineH implements Surface.
func (c *Canvas) DrawLineH(x1, x2, y int, col color.Color) {
	c.DrawRectangle(x1, y, x2, y, col)
}

// DrawLineV implements Surface.
func (c *Canvas) DrawLineV(x, y1, y2 int, col color.Color) {
	c.DrawRectangle(x, y1, x, y2, col)
}

// WriteChar implements Surface.
func (c *Canvas) WriteChar(x, y int, r rune, col color.Color) {
	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  c.dot(x, y),
	}
	d.DrawString(string(r))
}

// GlyphBox implements Surface.
func (c *Canvas) GlyphBox(x, y int, r rune) image.Rectangle {
	dr, _, _, _, _ := c.face.Glyph(c.dot(x, y), r)
	return dr
}

// dot returns the baseline origin of a cell with its top left corner at
// (x, y).
func (c *Canvas) dot(x, y int) fixed.Point26_6 {
	return fixed.P(x, y+c.face.Metrics().Ascent.Ceil())
}

// PrintText implements Surface.
//
// '\n' starts a new line, '\r' returns to x on the same line.
func (c *Canvas) PrintText(x, y int, s string, fg, bg color.Color) image.Point {
	lh := c.LineHeight()
	cx, cy := x, y
	for _, r := range s {
		switch r {
		case '\n':
			cx, cy = x, cy+lh
		case '\r':
			cx = x
		default:
			a := c.Advance(r)
			if bg != nil {
				c.FillRect(cx, cy, a, lh, bg)
			}
			c.WriteChar(cx, cy, r, fg)
			cx += a
		}
	}
	return c.MeasureText(s)
}

// MeasureText implements Surface.
func (c *Canvas) MeasureText(s string) image.Point {
	return textBox(0, 0, s, c.Advance, c.LineHeight(), nil).Size()
}

// PlotImage implements Surface.
func (c *Canvas) PlotImage(img image.Image, x, y int) {
	b := img.Bounds()
	r := image.Rectangle{image.Point{x, y}, image.Point{x + b.Dx(), y + b.Dy()}}
	draw.Draw(c.dst, r, img, b.Min, draw.Over)
}

// ScrollArea implements Surface.
func (c *Canvas) ScrollArea(x1, y1, x2, y2 int) {
	r := image.Rect(x1, y1, x2, y2)
	r.Max = r.Max.Add(image.Point{1, 1})
	r = r.Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}
	lh := c.LineHeight()
	if lh < r.Dy() {
		up := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y-lh)
		draw.Draw(c.dst, up, c.dst, image.Point{r.Min.X, r.Min.Y + lh}, draw.Src)
		r.Min.Y = r.Max.Y - lh
	}
	draw.Draw(c.dst, r, image.NewUniform(c.bg), image.Point{}, draw.Src)
}

// Clear implements Surface.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Advance implements Surface.
func (c *Canvas) Advance(r rune) int {
	a, ok := c.face.GlyphAdvance(r)
	if !ok {
		a, _ = c.face.GlyphAdvance('?')
	}
	return a.Ceil()
}

// LineHeight implements Surface.
func (c *Canvas) LineHeight() int {
	return c.face.Metrics().Height.Ceil()
}

// textBox returns the rectangle covered by s printed at (x, y).
//
// It is computed one rune at a time, growing with every glyph cell and, when
// glyph is not nil, with the pixels the glyph draws on.
func textBox(x, y int, s string, advance func(rune) int, lh int, glyph func(x, y int, r rune) image.Rectangle) image.Rectangle {
	b := image.Rect(x, y, x, y+lh)
	cx, cy := x, y
	for _, r := range s {
		switch r {
		case '\n':
			cx, cy = x, cy+lh
		case '\r':
			cx = x
		default:
			a := advance(r)
			b = grow(b, image.Rect(cx, cy, cx+a, cy+lh))
			if glyph != nil {
				b = grow(b, glyph(cx, cy, r))
			}
			cx += a
		}
	}
	return b
}

// grow returns b extended to include r. Unlike Rectangle.Union, an empty b
// keeps its corners.
func grow(b, r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return b
	}
	b.Min.X, b.Min.Y = min(b.Min.X, r.Min.X), min(b.Min.Y, r.Min.Y)
	b.Max.X, b.Max.Y = max(b.Max.X, r.Max.X), max(b.Max.Y, r.Max.Y)
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

var _ Surface = &Canvas{}
