// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/tftconsole/ili9340/rgb565"
	"golang.org/x/image/font"
)

// Panel is a display accepting pixels through an addressing window, like
// ili9340.Dev.
type Panel interface {
	// Bounds returns the panel size. Min must be {0, 0}.
	Bounds() image.Rectangle
	// SetAddressWindow latches the inclusive rectangle (x0, y0)-(x1, y1).
	SetAddressWindow(x0, y0, x1, y1 int) error
	// WritePixels streams big endian RGB565 pixels into the latched window.
	WritePixels(p []byte) error
}

// Rotator is implemented by a Panel that can rotate.
type Rotator interface {
	SetRotation(m int) error
}

// Opts defines the options for a Screen created with New.
type Opts struct {
	// Rotation is applied to the panel before the framebuffer is allocated.
	// It requires a Panel implementing Rotator unless it is 0.
	Rotation int
	// Face is the font used for text, basicfont.Face7x13 when nil.
	Face font.Face
	// Background is the color the screen is cleared to and the color
	// uncovered by ScrollArea.
	Background color.Color
}

// DefaultOpts is landscape on a black background.
var DefaultOpts = Opts{
	Rotation:   3,
	Background: rgb565.Black,
}

// Screen is a Surface that records the bounding box of every change and
// sends only that box to the Panel on Flush.
//
// Screen is not safe for concurrent use.
type Screen struct {
	s     Surface
	fb    *rgb565.Image
	p     Panel
	dirty Region
}

// New allocates a framebuffer the size of p, draws on it with a Canvas and
// clears it to opts.Background.
//
// p must already be initialized. Nothing is sent until Flush.
func New(p Panel, opts *Opts) (*Screen, error) {
	if opts.Rotation != 0 {
		r, ok := p.(Rotator)
		if !ok {
			return nil, errors.New("console: panel can't rotate")
		}
		if err := r.SetRotation(opts.Rotation); err != nil {
			return nil, fmt.Errorf("console: %w", err)
		}
	}
	b := p.Bounds()
	if b.Empty() || b.Min != (image.Point{}) {
		return nil, fmt.Errorf("console: invalid panel bounds %s", b)
	}
	fb := rgb565.NewImage(b)
	s, err := Wrap(NewCanvas(fb, opts.Face, opts.Background), fb, p)
	if err != nil {
		return nil, err
	}
	bg := opts.Background
	if bg == nil {
		bg = rgb565.Black
	}
	s.Clear(bg)
	return s, nil
}

// Wrap returns a Screen tracking the changes s does to fb, flushed to p.
//
// s must draw into fb and fb must be the size of p.
func Wrap(s Surface, fb *rgb565.Image, p Panel) (*Screen, error) {
	if fb.Rect != p.Bounds() {
		return nil, fmt.Errorf("console: framebuffer %s doesn't match panel %s", fb.Rect, p.Bounds())
	}
	return &Screen{
		s:     s,
		fb:    fb,
		p:     p,
		dirty: NewRegion(fb.Rect.Dx(), fb.Rect.Dy()),
	}, nil
}

func (s *Screen) String() string {
	return fmt.Sprintf("console.Screen{%s, %s}", s.fb.Rect.Max, &s.dirty)
}

// Framebuffer returns the pixels Flush reads from.
//
// Changes done directly to it must be reported with MarkDirty.
func (s *Screen) Framebuffer() *rgb565.Image {
	return s.fb
}

// Dirty returns the region modified since the last flush.
func (s *Screen) Dirty() Region {
	return s.dirty
}

// MarkDirty grows the region to send on the next Flush to include the
// inclusive rectangle (x1, y1)-(x2, y2), clipped to the screen.
func (s *Screen) MarkDirty(x1, y1, x2, y2 int) {
	s.dirty.Mark(x1, y1, x2, y2)
}

// Flush sends the dirty region to the panel, one burst per row, and empties
// the region.
//
// An empty or corrupted region sends the whole screen. On error the region is
// kept so the next Flush retries.
func (s *Screen) Flush() error {
	x1, y1, x2, y2 := s.dirty.flushRect()
	if err := s.p.SetAddressWindow(x1, y1, x2, y2); err != nil {
		return err
	}
	for y := y1; y <= y2; y++ {
		if err := s.p.WritePixels(s.fb.Span(y, x1, x2+1)); err != nil {
			return err
		}
	}
	s.dirty.Reset()
	return nil
}

// SetRotation rotates the panel and reshapes the framebuffer to the new
// geometry.
//
// The framebuffer content is not redrawn. The dirty region is emptied so the
// next Flush sends the whole screen.
func (s *Screen) SetRotation(m int) error {
	r, ok := s.p.(Rotator)
	if !ok {
		return errors.New("console: panel can't rotate")
	}
	if err := r.SetRotation(m); err != nil {
		return err
	}
	b := s.p.Bounds()
	s.fb.Reshape(b.Dx(), b.Dy())
	s.dirty.Resize(b.Dx(), b.Dy())
	return nil
}

// Bounds implements Surface.
func (s *Screen) Bounds() image.Rectangle {
	return s.s.Bounds()
}

// PlotPixel implements Surface.
func (s *Screen) PlotPixel(x, y int, c color.Color) {
	s.MarkDirty(x, y, x, y)
	s.s.PlotPixel(x, y, c)
}

// DrawRectangle implements Surface.
func (s *Screen) DrawRectangle(x1, y1, x2, y2 int, c color.Color) {
	s.MarkDirty(x1, y1, x2, y2)
	s.s.DrawRectangle(x1, y1, x2, y2, c)
}

// FillRect fills the w×h rectangle at (x, y).
func (s *Screen) FillRect(x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	s.DrawRectangle(x, y, x+w-1, y+h-1, c)
}

// DrawLine implements Surface.
func (s *Screen) DrawLine(x1, y1, x2, y2 int, c color.Color) {
	s.MarkDirty(x1, y1, x2, y2)
	s.s.DrawLine(x1, y1, x2, y2, c)
}

// DrawLineH implements Surface.
func (s *Screen) DrawLineH(x1, x2, y int, c color.Color) {
	s.MarkDirty(x1, y, x2, y)
	s.s.DrawLineH(x1, x2, y, c)
}

// DrawLineV implements Surface.
func (s *Screen) DrawLineV(x, y1, y2 int, c color.Color) {
	s.MarkDirty(x, y1, x, y2)
	s.s.DrawLineV(x, y1, y2, c)
}

// WriteChar implements Surface.
func (s *Screen) WriteChar(x, y int, r rune, c color.Color) {
	b := image.Rect(x, y, x+s.s.Advance(r), y+s.s.LineHeight())
	if b = b.Union(s.s.GlyphBox(x, y, r)); !b.Empty() {
		s.MarkDirty(b.Min.X, b.Min.Y, b.Max.X-1, b.Max.Y-1)
	}
	s.s.WriteChar(x, y, r, c)
}

// PrintText implements Surface.
func (s *Screen) PrintText(x, y int, str string, fg, bg color.Color) image.Point {
	if b := textBox(x, y, str, s.s.Advance, s.s.LineHeight(), s.s.GlyphBox); b.Dx() > 0 && b.Dy() > 0 {
		s.MarkDirty(b.Min.X, b.Min.Y, b.Max.X-1, b.Max.Y-1)
	}
	return s.s.PrintText(x, y, str, fg, bg)
}

// MeasureText implements Surface. Nothing is marked.
func (s *Screen) MeasureText(str string) image.Point {
	return s.s.MeasureText(str)
}

// PlotImage implements Surface.
func (s *Screen) PlotImage(img image.Image, x, y int) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	s.MarkDirty(x, y, x+b.Dx()-1, y+b.Dy()-1)
	s.s.PlotImage(img, x, y)
}

// ScrollArea implements Surface.
func (s *Screen) ScrollArea(x1, y1, x2, y2 int) {
	s.MarkDirty(x1, y1, x2, y2)
	s.s.ScrollArea(x1, y1, x2, y2)
}

// Clear implements Surface.
func (s *Screen) Clear(c color.Color) {
	b := s.s.Bounds()
	s.MarkDirty(b.Min.X, b.Min.Y, b.Max.X-1, b.Max.Y-1)
	s.s.Clear(c)
}

// Advance implements Surface.
func (s *Screen) Advance(r rune) int {
	return s.s.Advance(r)
}

// GlyphBox implements Surface.
func (s *Screen) GlyphBox(x, y int, r rune) image.Rectangle {
	return s.s.GlyphBox(x, y, r)
}

// LineHeight implements Surface.
func (s *Screen) LineHeight() int {
	return s.s.LineHeight()
}

var _ Surface = &Screen{}
