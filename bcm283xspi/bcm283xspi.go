// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283xspi

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/tftconsole/mmio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Peripheral base addresses, as seen by the ARM core.
const (
	BaseBCM2835 uint64 = 0x20000000
	BaseBCM2837 uint64 = 0x3F000000
	BaseBCM2711 uint64 = 0xFE000000
)

// SPI0 register map, offsets from the SPI0 block. Section 10.5.
const (
	spi0Offset = 0x204000

	regCS   = 0x00 // Master Control and Status
	regFIFO = 0x04 // Master TX and RX FIFOs
	regCLK  = 0x08 // Master Clock Divider
	regDLEN = 0x0C // Master Data Length
	regLTOH = 0x10 // LoSSI mode TOH
	regDC   = 0x14 // DMA DREQ Controls

	windowSize = 0x18
)

// regCS bits.
const (
	csLenLong = 0x02000000 // Long data word in LoSSI mode if DMA_LEN is set
	csDMALen  = 0x01000000 // DMA mode in LoSSI mode
	csPol2    = 0x00800000 // Chip Select 2 Polarity
	csPol1    = 0x00400000 // Chip Select 1 Polarity
	csPol0    = 0x00200000 // Chip Select 0 Polarity
	csRXF     = 0x00100000 // RX FIFO Full
	csRXR     = 0x00080000 // RX FIFO needs Reading
	csTXD     = 0x00040000 // TX FIFO can accept Data
	csRXD     = 0x00020000 // RX FIFO contains Data
	csDone    = 0x00010000 // Transfer Done
	csLEN     = 0x00002000 // LoSSI enable
	csREN     = 0x00001000 // Read Enable
	csADCS    = 0x00000800 // Automatically Deassert Chip Select
	csINTR    = 0x00000400 // Interrupt on RXR
	csINTD    = 0x00000200 // Interrupt on Done
	csDMAEN   = 0x00000100 // DMA Enable
	csTA      = 0x00000080 // Transfer Active
	csPol     = 0x00000040 // Chip Select Polarity
	csClear   = 0x00000030 // Clear RX and TX FIFOs
	csClearRX = 0x00000020
	csClearTX = 0x00000010
	csCPOL    = 0x00000008 // Clock Polarity
	csCPHA    = 0x00000004 // Clock Phase
	csCS      = 0x00000003 // Chip Select
)

// coreClock is the nominal APB clock the divider applies to.
const coreClock = 250 * physic.MegaHertz

// ChipSelect selects the hardware chip select line(s) asserted during a
// transfer.
type ChipSelect uint8

// Chip select lines.
const (
	CS0  ChipSelect = 0
	CS1  ChipSelect = 1
	CS2  ChipSelect = 2 // CS0 and CS1 are both asserted.
	NoCS ChipSelect = 3 // No line is driven; control it yourself.
)

// Pins lists the header pins switched to SPI0 by Begin.
type Pins struct {
	CE1  pin.PinFunc
	CE0  pin.PinFunc
	MISO pin.PinFunc
	MOSI pin.PinFunc
	CLK  pin.PinFunc
}

// Opts is the configuration of the SPI0 block.
type Opts struct {
	// Base is the peripheral base address of the SoC.
	Base uint64
	// Pins defaults to the Raspberry Pi P1 header SPI0 pins when nil.
	Pins *Pins
	// ChipSelect is the line asserted during transfers.
	ChipSelect ChipSelect
	// ActiveHigh inverts the chip select polarity. Default is active low.
	ActiveHigh bool
}

// DefaultOpts targets the BCM2837 (Raspberry Pi 2 v1.2 and 3) with the panel
// on CE0.
var DefaultOpts = Opts{
	Base:       BaseBCM2837,
	ChipSelect: CS0,
}

type pinSetting struct {
	p pin.PinFunc
	f pin.Func
}

// Port is the polled driver of the BCM283x SPI0 block.
//
// It is meant to be used by a single caller; there is no locking. No transfer
// state is kept in software, FIFO occupancy lives in the hardware flags.
//
// Transfers never time out: if the peripheral never reports TX ready or
// done, for example because another bus master drives the same lines, the
// call spins forever.
type Port struct {
	r          *mmio.Registers
	w          *mmio.Window
	pins       []pinSetting
	cs         ChipSelect
	activeHigh bool
	maxHz      physic.Frequency
	began      bool
}

// Open maps the SPI0 register window through /dev/mem and returns a Port.
func Open(opts *Opts) (*Port, error) {
	w, err := mmio.Map(opts.Base+spi0Offset, windowSize)
	if err != nil {
		return nil, fmt.Errorf("bcm283xspi: %w", err)
	}
	p, err := New(w, opts)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	p.w = w
	return p, nil
}

// New returns a Port over an already mapped SPI0 register window.
func New(raw mmio.Raw, opts *Opts) (*Port, error) {
	pins := opts.Pins
	if pins == nil {
		var err error
		if pins, err = headerPins(); err != nil {
			return nil, err
		}
	}
	if opts.ChipSelect > NoCS {
		return nil, fmt.Errorf("bcm283xspi: invalid chip select %d", opts.ChipSelect)
	}
	return &Port{
		r: mmio.New(raw),
		pins: []pinSetting{
			{pins.CE1, spi.CS.Specialize(0, 1)},
			{pins.CE0, spi.CS.Specialize(0, 0)},
			{pins.MISO, spi.MISO.Specialize(0, -1)},
			{pins.MOSI, spi.MOSI.Specialize(0, -1)},
			{pins.CLK, spi.CLK.Specialize(0, -1)},
		},
		cs:         opts.ChipSelect,
		activeHigh: opts.ActiveHigh,
	}, nil
}

func headerPins() (*Pins, error) {
	var out [5]pin.PinFunc
	for i, p := range []gpio.PinIO{rpi.P1_26, rpi.P1_24, rpi.P1_21, rpi.P1_19, rpi.P1_23} {
		f, ok := p.(pin.PinFunc)
		if !ok {
			return nil, fmt.Errorf("bcm283xspi: pin %s cannot change function", p)
		}
		out[i] = f
	}
	return &Pins{CE1: out[0], CE0: out[1], MISO: out[2], MOSI: out[3], CLK: out[4]}, nil
}

func (p *Port) String() string {
	return "SPI0"
}

// Begin switches the five SPI0 pins to their SPI function, zeroes the control
// register and clears both FIFOs. It must precede any transfer.
func (p *Port) Begin() error {
	for _, s := range p.pins {
		if s.p == nil {
			continue
		}
		if err := s.p.SetFunc(s.f); err != nil {
			return fmt.Errorf("bcm283xspi: %s: %w", s.f, err)
		}
	}
	p.r.Write(regCS, 0)
	p.r.WriteNoBarrier(regCS, csClear)
	p.began = true
	return nil
}

// End returns the five pins to plain inputs.
func (p *Port) End() error {
	p.began = false
	for _, s := range p.pins {
		if s.p == nil {
			continue
		}
		if err := s.p.SetFunc(gpio.IN); err != nil {
			return fmt.Errorf("bcm283xspi: %s: %w", s.f, err)
		}
	}
	return nil
}

// SetClockDivider programs the clock divider register.
//
// d should be even; 0 means 65536. The hardware rounds odd values down.
func (p *Port) SetClockDivider(d uint16) {
	p.r.Write(regCLK, uint32(d))
}

// SetDataMode sets the clock polarity and phase for mode 0 to 3.
func (p *Port) SetDataMode(mode uint8) {
	p.r.SetBits(regCS, uint32(mode&3)<<2, csCPOL|csCPHA)
}

// SetChipSelect selects the line(s) asserted during transfers.
func (p *Port) SetChipSelect(cs ChipSelect) {
	p.r.SetBits(regCS, uint32(cs), csCS)
}

// SetChipSelectPolarity sets whether cs is asserted high or low.
func (p *Port) SetChipSelectPolarity(cs ChipSelect, activeHigh bool) {
	if cs > CS2 {
		return
	}
	shift := 21 + uint32(cs)
	v := uint32(0)
	if activeHigh {
		v = 1
	}
	p.r.SetBits(regCS, v<<shift, 1<<shift)
}

// TransferByte sends value and returns the byte shifted back by the slave.
//
// This is the polled transfer of section 10.6.1.
func (p *Port) TransferByte(value byte) byte {
	p.start()
	for p.r.Read(regCS)&csTXD == 0 {
	}
	p.r.WriteNoBarrier(regFIFO, uint32(value))
	for p.r.ReadNoBarrier(regCS)&csDone == 0 {
	}
	ret := byte(p.r.ReadNoBarrier(regFIFO))
	p.stop()
	return ret
}

// WritePacket sends buf and discards what the slave sends back.
//
// The RX FIFO is drained on every iteration: the block is full duplex and
// stops shifting once the RX FIFO is full.
func (p *Port) WritePacket(buf []byte) {
	p.start()
	for _, b := range buf {
		for p.r.Read(regCS)&csTXD == 0 {
		}
		p.r.WriteNoBarrier(regFIFO, uint32(b))
		p.drainRX()
	}
	for p.r.ReadNoBarrier(regCS)&csDone == 0 {
		p.drainRX()
	}
	p.stop()
}

// TransferPacket sends tx and stores the received bytes into rx.
//
// Both FIFOs are serviced in the same loop so neither saturates. rx may alias
// tx. Bytes received past len(rx) are dropped.
func (p *Port) TransferPacket(tx, rx []byte) {
	n := len(tx)
	p.start()
	txCnt, rxCnt := 0, 0
	for txCnt < n || rxCnt < n {
		for txCnt < n && p.r.Read(regCS)&csTXD != 0 {
			p.r.WriteNoBarrier(regFIFO, uint32(tx[txCnt]))
			txCnt++
		}
		for rxCnt < n && p.r.Read(regCS)&csRXD != 0 {
			b := byte(p.r.ReadNoBarrier(regFIFO))
			if rxCnt < len(rx) {
				rx[rxCnt] = b
			}
			rxCnt++
		}
	}
	for p.r.ReadNoBarrier(regCS)&csDone == 0 {
	}
	p.stop()
}

// LimitSpeed implements spi.Port.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("bcm283xspi: invalid speed")
	}
	p.maxHz = f
	return nil
}

// Connect implements spi.Port.
//
// It runs Begin if needed, then programs the mode, clock divider and chip
// select. Only 8 bits words, MSB first and full duplex are supported.
func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("bcm283xspi: invalid bits %d; only 8 is supported", bits)
	}
	if mode&spi.HalfDuplex != 0 {
		return nil, errors.New("bcm283xspi: half duplex is not supported")
	}
	if mode&spi.LSBFirst != 0 {
		return nil, errors.New("bcm283xspi: SPI0 only supports MSB first")
	}
	if p.maxHz != 0 && (f <= 0 || f > p.maxHz) {
		f = p.maxHz
	}
	if !p.began {
		if err := p.Begin(); err != nil {
			return nil, err
		}
	}
	p.SetDataMode(uint8(mode & 3))
	p.SetClockDivider(Divider(f))
	if mode&spi.NoCS != 0 {
		p.SetChipSelect(NoCS)
	} else {
		p.SetChipSelect(p.cs)
		p.SetChipSelectPolarity(p.cs, p.activeHigh)
	}
	return &spiConn{p: p, f: f, mode: mode}, nil
}

// Close implements spi.PortCloser. It runs End and unmaps the register window
// if Open mapped it.
func (p *Port) Close() error {
	err := p.End()
	if p.w != nil {
		if err2 := p.w.Close(); err == nil {
			err = err2
		}
		p.w = nil
	}
	return err
}

// Divider returns the even clock divider yielding the highest frequency not
// above f. It returns 0 (65536) when f is 0 or too slow.
func Divider(f physic.Frequency) uint16 {
	if f <= 0 {
		return 0
	}
	d := int64((coreClock + f - 1) / f)
	if d < 2 {
		d = 2
	}
	d += d & 1
	if d >= 65536 {
		return 0
	}
	return uint16(d)
}

// start clears both FIFOs and raises TA.
func (p *Port) start() {
	p.r.SetBits(regCS, csClear, csClear)
	p.r.SetBits(regCS, csTA, csTA)
}

// stop lowers TA through a barriered access.
func (p *Port) stop() {
	p.r.SetBits(regCS, 0, csTA)
}

func (p *Port) drainRX() {
	for p.r.Read(regCS)&csRXD != 0 {
		_ = p.r.ReadNoBarrier(regFIFO)
	}
}

var _ spi.PortCloser = &Port{}
