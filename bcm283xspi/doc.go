// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283xspi drives the SPI0 master of the BCM283x SoC by polling its
// registers directly, without the spidev kernel driver.
//
// All transfers follow the same bracket: clear both FIFOs, raise TA, service
// the FIFOs until every byte is shifted, wait for DONE, drop TA. Register
// accesses go through mmio.Registers so the peripheral switch barrier is
// honored.
//
// Port implements spi.PortCloser so devices written against periph's
// spi.Port can use it unchanged.
//
// # Datasheet
//
// BCM2835 ARM Peripherals, chapter 10 "SPI".
//
// https://datasheets.raspberrypi.com/bcm2835/bcm2835-peripherals.pdf
package bcm283xspi
