package wire

import (
	"encoding/binary"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		e := NewEncoder(order, 0)
		e.WriteU8(0x12)
		e.WriteU16(0xABCD)
		e.WriteBytes([]byte{1, 2, 3})

		d := NewDecoder(order, e.Bytes())
		b, err := d.ReadU8()
		if err != nil || b != 0x12 {
			t.Fatalf("ReadU8() = (%v, %v), want (0x12, nil)", b, err)
		}
		u, err := d.ReadU16()
		if err != nil || u != 0xABCD {
			t.Fatalf("ReadU16() = (%v, %v), want (0xABCD, nil)", u, err)
		}
		rest, err := d.ReadBytes(3)
		if err != nil || string(rest) != "\x01\x02\x03" {
			t.Fatalf("ReadBytes(3) = (%v, %v)", rest, err)
		}
		if d.Remaining() != 0 {
			t.Fatalf("Remaining() = %d, want 0", d.Remaining())
		}
	}
}

func TestDecoderReportsShortReads(t *testing.T) {
	d := NewDecoder(binary.BigEndian, []byte{0x01})
	if _, err := d.ReadU16(); err == nil {
		t.Fatalf("expected ReadU16 to fail on a single byte")
	}
}
