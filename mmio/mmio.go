// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mmio

import (
	"fmt"
	"sync/atomic"

	"periph.io/x/host/v3/pmem"
)

// Raw is a single 32 bits access into a peripheral register window.
//
// Offsets are in bytes and must be 4 bytes aligned. Implementations must
// perform exactly one bus access per call; Registers relies on it to issue
// the barrier accesses.
type Raw interface {
	Load(off uint32) uint32
	Store(off uint32, v uint32)
}

// Registers is the barrier-safe access capability over a peripheral register
// window.
//
// The peripheral bus may return stale data on the first read after switching
// to another peripheral, and may drop the first write. Read therefore reads
// twice and keeps the first value, Write writes twice. It is unknown whether
// the hardware truly needs both; the idiom is kept as is.
type Registers struct {
	raw Raw
}

// New returns the access capability over raw.
func New(raw Raw) *Registers {
	return &Registers{raw: raw}
}

func (r *Registers) String() string {
	return fmt.Sprintf("mmio.Registers{%v}", r.raw)
}

// Read returns the register value at off.
//
// A second read is issued and discarded.
func (r *Registers) Read(off uint32) uint32 {
	v := r.raw.Load(off)
	_ = r.raw.Load(off)
	return v
}

// ReadNoBarrier issues a single read. Only use it once a preceding Read or
// Write on the same peripheral established the barrier.
func (r *Registers) ReadNoBarrier(off uint32) uint32 {
	return r.raw.Load(off)
}

// Write stores v at off, twice.
func (r *Registers) Write(off uint32, v uint32) {
	r.raw.Store(off, v)
	r.raw.Store(off, v)
}

// WriteNoBarrier issues a single write. Same restriction as ReadNoBarrier.
func (r *Registers) WriteNoBarrier(off uint32, v uint32) {
	r.raw.Store(off, v)
}

// SetBits updates only the bits of the register covered by mask.
func (r *Registers) SetBits(off uint32, value, mask uint32) {
	v := r.Read(off)
	v = (v &^ mask) | (value & mask)
	r.Write(off, v)
}

// Window is a Raw backed by memory, usually a mapping of the physical
// peripheral address space.
type Window struct {
	mem  []uint32
	view *pmem.View
	base uint64
}

// Map maps size bytes of physical memory starting at base.
//
// This requires access to /dev/mem, so the process usually runs as root.
func Map(base uint64, size int) (*Window, error) {
	v, err := pmem.Map(base, size)
	if err != nil {
		return nil, fmt.Errorf("mmio: mapping 0x%08X: %w", base, err)
	}
	return &Window{mem: v.Uint32(), view: v, base: base}, nil
}

// NewWindow returns a Window over an already accessible memory block.
func NewWindow(mem []uint32) *Window {
	return &Window{mem: mem}
}

func (w *Window) String() string {
	return fmt.Sprintf("mmio.Window{0x%08X, %d}", w.base, 4*len(w.mem))
}

// Load implements Raw.
//
// The access goes through sync/atomic so the compiler can neither elide nor
// merge it.
func (w *Window) Load(off uint32) uint32 {
	return atomic.LoadUint32(&w.mem[off/4])
}

// Store implements Raw.
func (w *Window) Store(off uint32, v uint32) {
	atomic.StoreUint32(&w.mem[off/4], v)
}

// Close unmaps the window if it was created by Map.
func (w *Window) Close() error {
	if w.view == nil {
		return nil
	}
	err := w.view.Close()
	w.view = nil
	w.mem = nil
	return err
}

var _ Raw = &Window{}
