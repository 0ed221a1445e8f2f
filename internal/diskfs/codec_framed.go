package diskfs

import (
	"encoding/binary"
	"fmt"

	"altofs/internal/wire"
)

// Framed image commands, from the BFS record protocol.
const (
	cmdDiskParamsReply = 3
	cmdDiskPageReply   = 6
	cmdEndOfTransfer   = 7
)

const diskTypeConstant = 10

// LoadFramed decodes the big-endian framed record stream: a sequence of
// records, each a 2-byte word count (including itself and the command
// word), a 2-byte command, then count-2 payload words. DiskParamsReply must
// match the expected geometry exactly; DiskPageReply carries one page's
// header, label and data; EndOfTransfer ends the stream and must be the
// final record.
func LoadFramed(g Geometry, data []byte) (*FS, error) {
	fs, err := New(g)
	if err != nil {
		return nil, err
	}
	d := wire.NewDecoder(binary.BigEndian, data)

	for {
		length, err := d.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("framed image: truncated record length: %w", err)
		}
		if length < 2 {
			return nil, fmt.Errorf("framed image: invalid record length %d", length)
		}
		cmd, err := d.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("framed image: truncated command: %w", err)
		}
		payloadWords := int(length) - 2

		switch cmd {
		case cmdEndOfTransfer:
			if payloadWords != 0 {
				return nil, fmt.Errorf("framed image: malformed end-of-transfer record")
			}
			if d.Remaining() != 0 {
				return nil, fmt.Errorf("framed image: %d trailing bytes after end-of-transfer", d.Remaining())
			}
			return fs, nil

		case cmdDiskParamsReply:
			if payloadWords != 5 {
				return nil, fmt.Errorf("framed image: malformed disk-params record")
			}
			want := []uint16{diskTypeConstant, g.NumCylinders, g.NumHeads, g.NumSectors, 1}
			for _, w := range want {
				v, err := d.ReadU16()
				if err != nil {
					return nil, fmt.Errorf("framed image: truncated disk-params: %w", err)
				}
				if v != w {
					return nil, fmt.Errorf("framed image: disk-params mismatch: got %d want %d", v, w)
				}
			}

		case cmdDiskPageReply:
			want := 2 + labelWords + int(g.SectorWords)
			if payloadWords != want {
				return nil, fmt.Errorf("framed image: malformed disk-page record")
			}
			var header [2]uint16
			for i := range header {
				v, err := d.ReadU16()
				if err != nil {
					return nil, fmt.Errorf("framed image: truncated page header: %w", err)
				}
				header[i] = v
			}
			if header[0] != 0 {
				return nil, fmt.Errorf("framed image: page header word 0 is %d, want 0", header[0])
			}
			vda, ok := RealToVirtual(g, header[1])
			if !ok || int(vda) >= len(fs.pages) {
				return nil, fmt.Errorf("framed image: page header rda %d out of range", header[1])
			}
			label := make([]uint16, labelWords)
			for i := range label {
				v, err := d.ReadU16()
				if err != nil {
					return nil, fmt.Errorf("framed image: truncated label: %w", err)
				}
				label[i] = v
			}
			pg := &fs.pages[vda]
			pg.Header = header
			pg.Label = decodeLabelWords(label)
			for i := 0; i < int(g.SectorWords); i++ {
				v, err := d.ReadU16()
				if err != nil {
					return nil, fmt.Errorf("framed image: truncated page data: %w", err)
				}
				if 2*i+1 < PageDataSize {
					pg.Data[2*i] = byte(v >> 8)
					pg.Data[2*i+1] = byte(v)
				}
			}

		default:
			return nil, fmt.Errorf("framed image: unknown command %d", cmd)
		}
	}
}

// SaveFramed encodes fs in the big-endian framed record stream, omitting
// FREE and BAD pages and terminating with an end-of-transfer record.
func SaveFramed(fs *FS) []byte {
	e := wire.NewEncoder(binary.BigEndian, 1024)

	e.WriteU16(7)
	e.WriteU16(cmdDiskParamsReply)
	e.WriteU16(diskTypeConstant)
	e.WriteU16(fs.Geometry.NumCylinders)
	e.WriteU16(fs.Geometry.NumHeads)
	e.WriteU16(fs.Geometry.NumSectors)
	e.WriteU16(1)

	for vda := 0; vda < len(fs.pages); vda++ {
		pg := &fs.pages[vda]
		if pg.Label.Version == VersionFree || pg.Label.Version == VersionBad {
			continue
		}
		rda, _ := fs.virtualToReal(uint16(vda))
		length := uint16(2 + 2 + labelWords + int(fs.Geometry.SectorWords))
		e.WriteU16(length)
		e.WriteU16(cmdDiskPageReply)
		e.WriteU16(0)
		e.WriteU16(rda)
		for _, w := range encodeLabelWords(pg.Label) {
			e.WriteU16(w)
		}
		for i := 0; i < int(fs.Geometry.SectorWords); i++ {
			if 2*i+1 < PageDataSize {
				v := uint16(pg.Data[2*i])<<8 | uint16(pg.Data[2*i+1])
				e.WriteU16(v)
			} else {
				e.WriteU16(0)
			}
		}
	}

	e.WriteU16(2)
	e.WriteU16(cmdEndOfTransfer)
	return e.Bytes()
}
