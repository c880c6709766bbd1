// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ili9340 controls a 240×320 color TFT panel via an ILI9340
// controller, as found on the Adafruit PiTFT 2.8".
//
// The controller is driven over a 4 wire SPI bus in mode 0 plus a separate
// data/command selector line. Every command byte is sent with the selector
// low and its parameters with the selector high. Pixels are sent as 16 bits
// big endian RGB565 words, see package rgb565.
//
// A transfer into the panel RAM starts by latching an addressing window with
// SetAddressWindow. The controller then expects exactly as many pixels as the
// window covers, sent with one or more calls to WritePixels.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/ILI9340.pdf
package ili9340
