// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mmio provides access to memory mapped peripheral registers.
//
// All accesses go through Registers, which enforces the double read / double
// write idiom required when the ARM core switches between peripherals on the
// BCM283x AXI bus. The NoBarrier variants are meant for tight polling loops
// once a barriered access on the same peripheral has been issued.
//
// # Datasheet
//
// BCM2835 ARM Peripherals, section 1.3 "Peripheral access precautions for
// correct memory ordering".
//
// https://datasheets.raspberrypi.com/bcm2835/bcm2835-peripherals.pdf
package mmio
