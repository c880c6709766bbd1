// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console implements a text console on top of a framebuffer, sending
// only the modified part of the framebuffer to the display.
//
// A Canvas implements the drawing primitives. A Screen wraps any Surface:
// every primitive first grows a dirty Region by the exact box of the pixels
// it is about to touch, then delegates the drawing. Flush sets the panel
// addressing window to the region and streams the framebuffer, one burst per
// covered row.
//
// Many small drawing calls thus become the fewest, longest bus transfers.
package console
