// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tftconsole prints the lines read from stdin on an ILI9340 TFT panel
// attached to the Raspberry Pi SPI0 header, scrolling as needed.
//
// With -term, the panel is emulated in the terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/GermanBionicSystems/tftconsole/bcm283xspi"
	"github.com/GermanBionicSystems/tftconsole/console"
	"github.com/GermanBionicSystems/tftconsole/ili9340"
	"github.com/GermanBionicSystems/tftconsole/ili9340/rgb565"
	"github.com/GermanBionicSystems/tftconsole/termview"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var bases = map[string]uint64{
	"bcm2835": bcm283xspi.BaseBCM2835,
	"bcm2837": bcm283xspi.BaseBCM2837,
	"bcm2711": bcm283xspi.BaseBCM2711,
}

func parseBase(s string) (uint64, error) {
	if b, ok := bases[s]; ok {
		return b, nil
	}
	b, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown SoC %q", s)
	}
	return b, nil
}

// badge renders the logo drawn in the top right corner.
func badge(size int, face font.Face) image.Image {
	dc := gg.NewContext(size, size)
	r := float64(size) / 2
	dc.DrawCircle(r, r, r-2)
	dc.SetRGB(0.0, 0.68, 0.85)
	dc.FillPreserve()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(3)
	dc.Stroke()
	dc.SetFontFace(face)
	dc.DrawStringAnchored("TFT", r, r, 0.5, 0.35)
	return dc.Image()
}

func loadFace(path string, size float64) (font.Face, error) {
	ttf := goregular.TTF
	if path != "" {
		var err error
		if ttf, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	return console.TrueTypeFace(ttf, size)
}

// openPanel returns the panel and a function to release it.
func openPanel(term bool, soc string, f physic.Frequency) (console.Panel, func() error, error) {
	if term {
		d, err := termview.New(&termview.DefaultOpts)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Halt, nil
	}
	base, err := parseBase(soc)
	if err != nil {
		return nil, nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	opts := bcm283xspi.DefaultOpts
	opts.Base = base
	p, err := bcm283xspi.Open(&opts)
	if err != nil {
		return nil, nil, err
	}
	o := ili9340.DefaultOpts
	o.Frequency = f
	d, err := ili9340.NewPiTFT(p, &o)
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	if err := d.Init(); err != nil {
		_ = d.Close()
		return nil, nil, err
	}
	return d, d.Close, nil
}

func mainImpl() error {
	term := flag.Bool("term", false, "emulate the panel in the terminal")
	rotation := flag.Int("rotation", console.DefaultOpts.Rotation, "screen rotation, 0 to 3")
	soc := flag.String("soc", "bcm2837", "SoC (bcm2835, bcm2837, bcm2711) or peripheral base address")
	ttf := flag.String("ttf", "", "TrueType font file; Go Regular when empty")
	size := flag.Float64("size", 14, "font size in pixels")
	freq := ili9340.DefaultOpts.Frequency
	flag.Var(&freq, "hz", "SPI clock")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	face, err := loadFace(*ttf, *size)
	if err != nil {
		return err
	}
	p, closer, err := openPanel(*term, *soc, freq)
	if err != nil {
		return err
	}
	defer closer()

	fg := color.White
	bg := rgb565.RGB(0, 0, 64)
	s, err := console.New(p, &console.Opts{Rotation: *rotation, Face: face, Background: bg})
	if err != nil {
		return err
	}
	log.Printf("%s on %s", s, p)
	w, h := s.Bounds().Dx(), s.Bounds().Dy()
	lh := s.LineHeight()

	logo := badge(h/4, face)
	s.PlotImage(logo, w-logo.Bounds().Dx()-4, 4)
	top := s.PrintText(4, 4, "tftconsole\nready", fg, bg).Y + 8
	s.DrawLineH(0, w-1, top-4, fg)
	if err := s.Flush(); err != nil {
		return err
	}

	y := top
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if y+lh > h {
			s.ScrollArea(0, top, w-1, h-1)
			y -= lh
		}
		s.PrintText(4, y, sc.Text(), fg, bg)
		y += lh
		d := s.Dirty()
		log.Printf("flush %s", &d)
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return sc.Err()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tftconsole: %s.\n", err)
		os.Exit(1)
	}
}
