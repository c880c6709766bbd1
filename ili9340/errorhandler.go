// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili9340

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

// command sends op as a command byte followed by its parameters as data.
//
// The selector is left high so pixel data can follow without toggling it.
func (eh *errorHandler) command(op byte, params []byte) {
	if eh.err != nil {
		return
	}
	eh.dcOut(gpio.Low)
	eh.cTx([]byte{op}, nil)
	eh.dcOut(gpio.High)
	if len(params) != 0 {
		eh.cTx(params, nil)
	}
}
