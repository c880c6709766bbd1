// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283xspi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// spiConn maps periph transactions onto the polled primitives.
type spiConn struct {
	p    *Port
	f    physic.Frequency
	mode spi.Mode
}

func (c *spiConn) String() string {
	return fmt.Sprintf("%s@%s", c.p, c.f)
}

// Duplex implements conn.Conn.
func (c *spiConn) Duplex() conn.Duplex {
	return conn.Full
}

// Tx implements conn.Conn.
//
// A single byte goes through TransferByte, a write only buffer through
// WritePacket and everything else through TransferPacket.
func (c *spiConn) Tx(w, r []byte) error {
	switch {
	case len(r) == 0:
		if len(w) == 1 {
			c.p.TransferByte(w[0])
		} else if len(w) != 0 {
			c.p.WritePacket(w)
		}
	case len(w) == 0:
		c.p.TransferPacket(make([]byte, len(r)), r)
	case len(w) != len(r):
		return fmt.Errorf("bcm283xspi: write length %d and read length %d differ", len(w), len(r))
	case len(w) == 1:
		r[0] = c.p.TransferByte(w[0])
	default:
		c.p.TransferPacket(w, r)
	}
	return nil
}

// TxPackets implements spi.Conn.
//
// The chip select line is released between packets as TA drops at the end of
// every transfer; KeepCS is not supported.
func (c *spiConn) TxPackets(pkts []spi.Packet) error {
	for i := range pkts {
		if b := pkts[i].BitsPerWord; b != 0 && b != 8 {
			return fmt.Errorf("bcm283xspi: invalid bits per word %d; only 8 is supported", b)
		}
		if pkts[i].KeepCS {
			return errors.New("bcm283xspi: KeepCS is not supported")
		}
	}
	for i := range pkts {
		if err := c.Tx(pkts[i].W, pkts[i].R); err != nil {
			return err
		}
	}
	return nil
}

var _ spi.Conn = &spiConn{}
