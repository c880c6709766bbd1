// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili9340

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"time"

	"github.com/GermanBionicSystems/tftconsole/ili9340/rgb565"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	slpOut    byte = 0x11
	gamSet    byte = 0x26
	dispOff   byte = 0x28
	dispOn    byte = 0x29
	caSet     byte = 0x2A
	paSet     byte = 0x2B
	ramWr     byte = 0x2C
	madCtl    byte = 0x36
	pixSet    byte = 0x3A
	frmCtr1   byte = 0xB1
	dfunCtr   byte = 0xB6
	pwCtr1    byte = 0xC0
	pwCtr2    byte = 0xC1
	vmCtr1    byte = 0xC5
	vmCtr2    byte = 0xC7
	pwCtrB    byte = 0xCF
	pwCtrA    byte = 0xCB
	gmCtrP1   byte = 0xE0
	gmCtrN1   byte = 0xE1
	drvTimA   byte = 0xE8
	drvTimB   byte = 0xEA
	pwrOnSeq  byte = 0xED
	en3Gamma  byte = 0xF2
	pumpRatio byte = 0xF7
)

// Memory access control bits.
const (
	madMY  byte = 0x80 // Row address order
	madMX  byte = 0x40 // Column address order
	madMV  byte = 0x20 // Row / column exchange
	madML  byte = 0x10 // Vertical refresh order
	madBGR byte = 0x08
	madMH  byte = 0x04 // Horizontal refresh order
)

// maxParams is the longest parameter list of a command, the gamma tables.
const maxParams = 15

// Native panel size, in portrait orientation.
const (
	TFTWidth  = 240
	TFTHeight = 320
)

var errNotInit = errors.New("ili9340: not initialized")

// sleep is replaced in tests.
var sleep = time.Sleep

type command struct {
	op     byte
	params []byte
}

// initSequence is the vendor power up sequence, sent before sleep out.
var initSequence = []command{
	{0xEF, []byte{0x03, 0x80, 0x02}}, // Undocumented, from vendor code.
	{pwCtrB, []byte{0x00, 0xC1, 0x30}},
	{pwrOnSeq, []byte{0x64, 0x03, 0x12, 0x81}},
	{drvTimA, []byte{0x85, 0x00, 0x78}},
	{pwCtrA, []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	{pumpRatio, []byte{0x20}},
	{drvTimB, []byte{0x00, 0x00}},
	{pwCtr1, []byte{0x23}},
	{pwCtr2, []byte{0x10}},
	{vmCtr1, []byte{0x3E, 0x28}},
	{vmCtr2, []byte{0x86}},
	{pixSet, []byte{0x55}},       // 16 bits per pixel
	{frmCtr1, []byte{0x00, 0x18}}, // fosc, 79Hz
	{dfunCtr, []byte{0x08, 0x82, 0x27}},
	{en3Gamma, []byte{0x00}},
	{gamSet, []byte{0x01}},
	{gmCtrP1, []byte{
		0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1,
		0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00,
	}},
	{gmCtrN1, []byte{
		0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1,
		0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F,
	}},
}

// madCtlFor returns the memory access control byte for each rotation.
var madCtlFor = [4]byte{
	madMX | madBGR,
	madMV | madBGR,
	madMY | madBGR,
	madMV | madMY | madMX | madBGR,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the panel size in portrait orientation.
	W int
	H int
	// Frequency is the SPI clock.
	Frequency physic.Frequency
}

// DefaultOpts is a 240×320 panel clocked at 250MHz/64.
var DefaultOpts = Opts{
	W:         TFTWidth,
	H:         TFTHeight,
	Frequency: 3906250 * physic.Hertz,
}

type state int

const (
	uninitialized state = iota
	initializing
	ready
	closed
)

// Dev is an open handle to the display controller.
type Dev struct {
	// Communication
	p  spi.Port
	c  spi.Conn
	dc gpio.PinOut

	opts  Opts
	state state

	// Mutable
	rotation int
	// rect is the panel size after rotation.
	rect image.Rectangle
	// window is the last latched addressing window.
	window image.Rectangle
	halted bool
	// next is lazy initialized on first Draw().
	next *rgb565.Image
}

// New returns a Dev that will talk to an ILI9340 on p, using dc as the
// command/data selector.
//
// Nothing is sent until Init is called.
func New(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("ili9340: a dc pin is required")
	}
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("ili9340: invalid size %dx%d", opts.W, opts.H)
	}
	return &Dev{
		p:    p,
		dc:   dc,
		opts: *opts,
		rect: image.Rect(0, 0, opts.W, opts.H),
	}, nil
}

// NewPiTFT returns a Dev wired like the Adafruit PiTFT 2.8": dc on GPIO25.
func NewPiTFT(p spi.Port, opts *Opts) (*Dev, error) {
	return New(p, rpi.P1_22, opts)
}

func (d *Dev) String() string {
	if d.c != nil {
		return fmt.Sprintf("ili9340.Dev{%s, %s, %s}", d.c, d.dc, d.rect.Max)
	}
	return fmt.Sprintf("ili9340.Dev{%s, %s, %s}", d.p, d.dc, d.rect.Max)
}

// Init connects the SPI port, sends the vendor power up sequence, waits for
// the panel to leave sleep mode, turns it on and selects rotation 0.
//
// It must be called exactly once.
func (d *Dev) Init() error {
	switch d.state {
	case uninitialized:
	case closed:
		return errors.New("ili9340: closed")
	default:
		return errors.New("ili9340: already initialized")
	}
	c, err := d.p.Connect(d.opts.Frequency, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("ili9340: %w", err)
	}
	d.c = c
	d.state = initializing

	eh := errorHandler{d: d}
	eh.dcOut(gpio.High)
	for _, cmd := range initSequence {
		eh.command(cmd.op, cmd.params)
	}
	eh.command(slpOut, nil)
	if eh.err != nil {
		return eh.err
	}
	// The only place where a delay, not a flag, governs the sequence.
	sleep(120 * time.Millisecond)
	eh.command(dispOn, nil)
	if eh.err != nil {
		return eh.err
	}
	d.state = ready
	return d.SetRotation(0)
}

// Close releases the SPI port. The rotation state is kept.
//
// Commands sent after Close fail and the Dev can't be initialized again.
func (d *Dev) Close() error {
	d.c = nil
	d.state = closed
	if c, ok := d.p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteCommand sends op with the selector low, then params with the selector
// high.
//
// At most 15 parameters can be sent.
func (d *Dev) WriteCommand(op byte, params []byte) error {
	if len(params) > maxParams {
		return fmt.Errorf("ili9340: command 0x%02X has %d parameters, at most %d are supported", op, len(params), maxParams)
	}
	if d.c == nil {
		return errNotInit
	}
	eh := errorHandler{d: d}
	eh.command(op, params)
	return eh.err
}

// SetRotation selects one of the four orientations, m modulo 4.
//
// Rotations 1 and 3 are landscape and swap the width and height. Any partial
// update tracked by the caller is stale afterward.
func (d *Dev) SetRotation(m int) error {
	m = ((m % 4) + 4) % 4
	if err := d.WriteCommand(madCtl, []byte{madCtlFor[m]}); err != nil {
		return err
	}
	w, h := d.opts.W, d.opts.H
	if m&1 != 0 {
		w, h = h, w
	}
	d.rotation = m
	d.rect = image.Rect(0, 0, w, h)
	d.window = image.Rectangle{}
	return nil
}

// Rotation returns the current rotation, 0 to 3.
func (d *Dev) Rotation() int {
	return d.rotation
}

// SetAddressWindow latches the inclusive rectangle (x0, y0)-(x1, y1) and
// starts a RAM write.
//
// Coordinates are clamped to the panel. A window inverted after clamping is
// silently ignored. Once latched, the controller expects exactly
// (x1-x0+1)*(y1-y0+1) pixels, sent with WritePixels.
func (d *Dev) SetAddressWindow(x0, y0, x1, y1 int) error {
	w, h := d.rect.Dx(), d.rect.Dy()
	x0, x1 = clamp(x0, w-1), clamp(x1, w-1)
	y0, y1 = clamp(y0, h-1), clamp(y1, h-1)
	if x0 > x1 || y0 > y1 {
		return nil
	}
	if d.c == nil {
		return errNotInit
	}
	eh := errorHandler{d: d}
	if d.halted {
		eh.command(dispOn, nil)
		if eh.err == nil {
			d.halted = false
		}
	}
	eh.command(caSet, []byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)})
	eh.command(paSet, []byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)})
	eh.command(ramWr, nil)
	if eh.err != nil {
		return eh.err
	}
	d.window = image.Rect(x0, y0, x1+1, y1+1)
	return nil
}

// Window returns the last latched addressing window, Max excluded.
func (d *Dev) Window() image.Rectangle {
	return d.window
}

// WritePixels streams big endian RGB565 pixels into the latched window.
func (d *Dev) WritePixels(p []byte) error {
	if d.c == nil {
		return errNotInit
	}
	if len(p) == 0 {
		return nil
	}
	return d.c.Tx(p, nil)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// Only r is sent, one burst per row.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	if d.next == nil || d.next.Rect != d.rect {
		d.next = rgb565.NewImage(d.rect)
	}
	draw.Src.Draw(d.next, r, src, sp)
	if err := d.SetAddressWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if err := d.WritePixels(d.next.Span(y, r.Min.X, r.Max.X)); err != nil {
			return err
		}
	}
	return nil
}

// Halt implements conn.Resource.
//
// It turns the display off. The next addressing window turns it back on.
func (d *Dev) Halt() error {
	if err := d.WriteCommand(dispOff, nil); err != nil {
		return err
	}
	d.halted = true
	return nil
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

var _ display.Drawer = &Dev{}
