// Package wire provides small bounds-checked byte-order codecs used by the
// disk image formats. The Alto filesystem mixes two conventions on the wire:
// on-disk metadata (labels, directory entries, leader pages) is big-endian,
// while the framed image transport wraps big-endian records over a stream,
// and the raw sector-table format is little-endian throughout. Decoder and
// Encoder take the order as a parameter so both conventions share one
// bounds-checked implementation instead of duplicating it per format.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Decoder reads primitives from a byte slice in a given byte order.
type Decoder struct {
	order binary.ByteOrder
	b     []byte
	o     int
}

func NewDecoder(order binary.ByteOrder, b []byte) *Decoder {
	return &Decoder{order: order, b: b, o: 0}
}

func (d *Decoder) Remaining() int { return len(d.b) - d.o }

func (d *Decoder) ReadU8() (byte, error) {
	if d.Remaining() < 1 {
		return 0, fmt.Errorf("wire: need 1 byte")
	}
	v := d.b[d.o]
	d.o++
	return v, nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, fmt.Errorf("wire: need 2 bytes")
	}
	v := d.order.Uint16(d.b[d.o : d.o+2])
	d.o += 2
	return v, nil
}

func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: negative length")
	}
	if d.Remaining() < n {
		return nil, fmt.Errorf("wire: need %d bytes", n)
	}
	v := d.b[d.o : d.o+n]
	d.o += n
	return v, nil
}

// Encoder builds byte-order-tagged byte slices.
type Encoder struct {
	order binary.ByteOrder
	b     []byte
}

func NewEncoder(order binary.ByteOrder, capacity int) *Encoder {
	if capacity < 0 {
		capacity = 0
	}
	return &Encoder{order: order, b: make([]byte, 0, capacity)}
}

func (e *Encoder) Bytes() []byte { return e.b }

func (e *Encoder) WriteU8(v byte) {
	e.b = append(e.b, v)
}

func (e *Encoder) WriteU16(v uint16) {
	var tmp [2]byte
	e.order.PutUint16(tmp[:], v)
	e.b = append(e.b, tmp[:]...)
}

func (e *Encoder) WriteBytes(b []byte) {
	e.b = append(e.b, b...)
}
