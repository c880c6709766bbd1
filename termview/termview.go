// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a color panel emulator that outputs to the
// terminal using ANSI color codes.
//
// It accepts pixels the way an ILI9340 does: an addressing window is latched
// first, then big endian RGB565 pixels fill it row by row. The frame is
// redrawn every time a window is completely filled.
//
// Useful to develop a console without the hardware at hand.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/GermanBionicSystems/tftconsole/ili9340/rgb565"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the panel size in portrait orientation.
	W int
	H int
	// Scale is the number of pixels per side of a terminal cell.
	Scale   int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts emulates a 240×320 panel in 30×40 terminal cells.
var DefaultOpts = Opts{
	W:     240,
	H:     320,
	Scale: 8,
}

// Dev is a TFT panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	opts    Opts
	palette ansi256.Palette

	rotation int
	img      *rgb565.Image
	window   image.Rectangle
	cursor   image.Point
	// left is the number of pixels missing to fill the window.
	left int

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes frames to w.
func NewWriter(w io.Writer, opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("termview: invalid size %dx%d", opts.W, opts.H)
	}
	o := *opts
	if o.Scale <= 0 {
		o.Scale = 1
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       w,
		opts:    o,
		palette: *p,
		img:     rgb565.NewImage(image.Rect(0, 0, o.W, o.H)),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("termview.Dev{%s}", d.img.Rect.Max)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the terminal is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// SetRotation selects one of the four orientations, m modulo 4. Rotations 1
// and 3 swap the width and height.
//
// The emulated memory is reshaped, not rotated.
func (d *Dev) SetRotation(m int) error {
	m = ((m % 4) + 4) % 4
	w, h := d.opts.W, d.opts.H
	if m&1 != 0 {
		w, h = h, w
	}
	d.rotation = m
	d.img.Reshape(w, h)
	d.window = image.Rectangle{}
	d.left = 0
	return nil
}

// Rotation returns the current rotation, 0 to 3.
func (d *Dev) Rotation() int {
	return d.rotation
}

// SetAddressWindow latches the inclusive rectangle (x0, y0)-(x1, y1).
//
// Coordinates are clamped and an inverted window is ignored, like the
// hardware driver.
func (d *Dev) SetAddressWindow(x0, y0, x1, y1 int) error {
	w, h := d.img.Rect.Dx(), d.img.Rect.Dy()
	x0, x1 = clamp(x0, w-1), clamp(x1, w-1)
	y0, y1 = clamp(y0, h-1), clamp(y1, h-1)
	if x0 > x1 || y0 > y1 {
		return nil
	}
	d.window = image.Rect(x0, y0, x1+1, y1+1)
	d.cursor = d.window.Min
	d.left = d.window.Dx() * d.window.Dy()
	return nil
}

// Window returns the last latched addressing window, Max excluded.
func (d *Dev) Window() image.Rectangle {
	return d.window
}

// WritePixels deposits big endian RGB565 pixels at the window cursor.
//
// Past the end of the window, the cursor wraps to its top left corner. The
// frame is redrawn each time the window is filled.
func (d *Dev) WritePixels(p []byte) error {
	if len(p)%2 != 0 {
		return errors.New("termview: invalid RGB565 stream length")
	}
	if d.window.Empty() {
		return errors.New("termview: no addressing window")
	}
	for i := 0; i < len(p); i += 2 {
		d.img.SetRGB565(d.cursor.X, d.cursor.Y, rgb565.Color(uint16(p[i])<<8|uint16(p[i+1])))
		if d.cursor.X++; d.cursor.X == d.window.Max.X {
			d.cursor.X = d.window.Min.X
			if d.cursor.Y++; d.cursor.Y == d.window.Max.Y {
				d.cursor.Y = d.window.Min.Y
			}
		}
		if d.left--; d.left == 0 {
			d.left = d.window.Dx() * d.window.Dy()
			if err := d.Refresh(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.img.Rect)
	if r.Empty() {
		return nil
	}
	draw.Src.Draw(d.img, r, src, sp)
	return d.Refresh()
}

// At returns the emulated pixel at (x, y).
func (d *Dev) At(x, y int) rgb565.Color {
	return d.img.RGB565At(x, y)
}

// Refresh redraws the whole frame, one terminal cell per Scale×Scale pixels.
func (d *Dev) Refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	s := d.opts.Scale
	for y := 0; y < d.img.Rect.Dy(); y += s {
		for x := 0; x < d.img.Rect.Dx(); x += s {
			_, _ = io.WriteString(&d.buf, d.palette.Block(nrgba(d.img.RGB565At(x, y))))
		}
		_, _ = d.buf.WriteString("\033[0m\r\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
