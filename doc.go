// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tftconsole is a container for the packages driving a text console
// on an ILI9340 TFT panel attached to the SPI0 block of a BCM283x SoC.
//
// The stack, from the hardware up:
//
//	mmio        barrier safe access to memory mapped peripheral registers
//	bcm283xspi  polled SPI0 transport, also usable as a periph spi.Port
//	ili9340     controller command protocol and addressing window
//	console     drawing surface, dirty region tracking and flush
//	termview    terminal emulation of the panel, for development
package tftconsole
