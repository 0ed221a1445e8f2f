package diskfs

import (
	"encoding/binary"
	"fmt"

	"altofs/internal/wire"
)

// labelWords is the wire width of a page label: next_rda, prev_rda, unused,
// nbytes, file_pgnum, version, sn.word1, sn.word2.
const labelWords = 8

// LoadRaw decodes the little-endian sector-table image format: per page, a
// discarded 2-byte sentinel, a 2-word header, the 8-word label, then the
// sector's data bytes stored with adjacent bytes swapped.
func LoadRaw(g Geometry, data []byte) (*FS, error) {
	fs, err := New(g)
	if err != nil {
		return nil, err
	}
	d := wire.NewDecoder(binary.LittleEndian, data)
	sectorBytes := g.SectorBytes()

	for vda := 0; vda < len(fs.pages); vda++ {
		if _, err := d.ReadU16(); err != nil {
			return nil, fmt.Errorf("raw image: page %d: missing sentinel: %w", vda, err)
		}
		var header [2]uint16
		for i := range header {
			v, err := d.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("raw image: page %d: truncated header: %w", vda, err)
			}
			header[i] = v
		}
		label := make([]uint16, labelWords)
		for i := range label {
			v, err := d.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("raw image: page %d: truncated label: %w", vda, err)
			}
			label[i] = v
		}
		raw, err := d.ReadBytes(sectorBytes)
		if err != nil {
			return nil, fmt.Errorf("raw image: page %d: truncated data: %w", vda, err)
		}

		pg := &fs.pages[vda]
		pg.Header = header
		pg.Label = decodeLabelWords(label)
		n := sectorBytes
		if n > PageDataSize {
			n = PageDataSize
		}
		for j := 0; j < n; j++ {
			pg.Data[j] = raw[j^1]
		}
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("raw image: %d trailing bytes after last page", d.Remaining())
	}
	return fs, nil
}

// SaveRaw encodes fs in the little-endian sector-table image format.
func SaveRaw(fs *FS) []byte {
	sectorBytes := fs.Geometry.SectorBytes()
	perPage := 2 + 4 + labelWords*2 + sectorBytes
	e := wire.NewEncoder(binary.LittleEndian, perPage*len(fs.pages))

	for vda := 0; vda < len(fs.pages); vda++ {
		pg := &fs.pages[vda]
		rda, _ := fs.virtualToReal(uint16(vda))
		e.WriteU16(uint16(vda))
		e.WriteU16(0)
		e.WriteU16(rda)
		for _, w := range encodeLabelWords(pg.Label) {
			e.WriteU16(w)
		}
		raw := make([]byte, sectorBytes)
		n := sectorBytes
		if n > PageDataSize {
			n = PageDataSize
		}
		for j := 0; j < n; j++ {
			raw[j^1] = pg.Data[j]
		}
		e.WriteBytes(raw)
	}
	return e.Bytes()
}

func decodeLabelWords(w []uint16) PageLabel {
	return PageLabel{
		NextRDA:   w[0],
		PrevRDA:   w[1],
		Unused:    w[2],
		NBytes:    w[3],
		FilePgNum: w[4],
		Version:   w[5],
		SN:        SerialNumber{Word1: w[6], Word2: w[7]},
	}
}

func encodeLabelWords(l PageLabel) []uint16 {
	return []uint16{
		l.NextRDA, l.PrevRDA, l.Unused, l.NBytes, l.FilePgNum, l.Version, l.SN.Word1, l.SN.Word2,
	}
}
