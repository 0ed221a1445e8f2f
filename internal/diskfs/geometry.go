package diskfs

import "time"

// Limits from the original disk geometry constraints.
const (
	MaxDisks       = 2
	MaxCylinders   = 512 // exclusive upper bound
	MaxHeads       = 2
	MaxSectors     = 15
	MaxSectorWords = 1024
)

// PageDataSize is the fixed size of a page's data area, independent of the
// on-disk sector byte size implied by Geometry.SectorWords.
const PageDataSize = 512

// NameLength is the maximum encoded name length, including the length byte.
const NameLength = 40

// Serial number bit flags (word1).
const (
	SNDirectory uint16 = 0x8000
	SNRand      uint16 = 0x4000
	SNNoLog     uint16 = 0x2000
	snPart1Mask uint16 = 0x1FFF
)

// Special page label version values.
const (
	VersionFree uint16 = 0xFFFF
	VersionBad  uint16 = 0xFFFE
)

// Directory entry types.
const (
	DirEntryMissing uint16 = 0
	DirEntryValid   uint16 = 1
)

// altoTimeMagic converts between the Alto epoch and the Unix epoch.
const altoTimeMagic = 2117503696

// Geometry describes a disk's addressable shape plus the on-disk sector
// width used only by the image codecs (the in-memory page data area is
// always PageDataSize bytes regardless of SectorWords).
type Geometry struct {
	NumDisks     uint16
	NumCylinders uint16
	NumHeads     uint16
	NumSectors   uint16
	SectorWords  uint16
}

// Valid reports whether the geometry satisfies the documented range limits.
func (g Geometry) Valid() bool {
	if g.NumDisks == 0 || g.NumDisks > MaxDisks {
		return false
	}
	if g.NumCylinders == 0 || g.NumCylinders >= MaxCylinders {
		return false
	}
	if g.NumHeads == 0 || g.NumHeads > MaxHeads {
		return false
	}
	if g.NumSectors == 0 || g.NumSectors > MaxSectors {
		return false
	}
	if g.SectorWords > MaxSectorWords {
		return false
	}
	return true
}

// DiskLength is the number of pages on a single disk (cylinders*heads*sectors).
func (g Geometry) DiskLength() int {
	return int(g.NumCylinders) * int(g.NumHeads) * int(g.NumSectors)
}

// TotalPages is N, the number of pages across every disk of the geometry.
func (g Geometry) TotalPages() int {
	return int(g.NumDisks) * g.DiskLength()
}

// SectorBytes is S, the on-disk byte size of one sector's header+label+data.
func (g Geometry) SectorBytes() int {
	return 2 * int(g.SectorWords)
}

// VirtualToReal converts a VDA into the packed 16-bit RDA. It returns false
// if vda is out of range for the geometry.
func VirtualToReal(g Geometry, vda uint16) (uint16, bool) {
	i := int(vda)
	sector := i % int(g.NumSectors)
	i /= int(g.NumSectors)
	head := i % int(g.NumHeads)
	i /= int(g.NumHeads)
	cylinder := i % int(g.NumCylinders)
	i /= int(g.NumCylinders)
	diskNum := i % int(g.NumDisks)
	if i >= int(g.NumDisks) {
		return 0, false
	}
	rda := uint16((cylinder << 3) | (head << 2) | (sector << 12) | (diskNum << 1))
	return rda, true
}

// RealToVirtual converts a packed 16-bit RDA into a VDA. It returns false if
// any field is out of range for the geometry, or if the reserved low bit of
// rda is set.
func RealToVirtual(g Geometry, rda uint16) (uint16, bool) {
	if rda&1 != 0 {
		return 0, false
	}
	cylinder := (rda >> 3) & 0x1FF
	head := (rda >> 2) & 1
	sector := (rda >> 12) & 0xF
	diskNum := (rda >> 1) & 1

	if int(diskNum) >= int(g.NumDisks) || int(cylinder) >= int(g.NumCylinders) ||
		int(head) >= int(g.NumHeads) || int(sector) >= int(g.NumSectors) {
		return 0, false
	}

	i := int(diskNum)
	i = i*int(g.NumCylinders) + int(cylinder)
	i = i*int(g.NumHeads) + int(head)
	i = i*int(g.NumSectors) + int(sector)
	return uint16(i), true
}

// ReadWordBE reads a big-endian word at offset within data.
func ReadWordBE(data []byte, offset int) uint16 {
	return uint16(data[offset])<<8 | uint16(data[offset+1])
}

// WriteWordBE writes w, big-endian, at offset within data.
func WriteWordBE(data []byte, offset int, w uint16) {
	data[offset] = byte(w >> 8)
	data[offset+1] = byte(w)
}

// ReadGeometryBE reads the 4-word (8-byte) wire geometry record at offset.
// SectorWords is not part of this record (see Geometry's doc comment) and is
// left zero.
func ReadGeometryBE(data []byte, offset int) Geometry {
	return Geometry{
		NumDisks:     ReadWordBE(data, offset),
		NumCylinders: ReadWordBE(data, offset+2),
		NumHeads:     ReadWordBE(data, offset+4),
		NumSectors:   ReadWordBE(data, offset+6),
	}
}

// WriteGeometryBE writes the 4-word wire geometry record at offset.
func WriteGeometryBE(data []byte, offset int, g Geometry) {
	WriteWordBE(data, offset, g.NumDisks)
	WriteWordBE(data, offset+2, g.NumCylinders)
	WriteWordBE(data, offset+4, g.NumHeads)
	WriteWordBE(data, offset+6, g.NumSectors)
}

// ReadAltoTime decodes a 32-bit Alto-epoch timestamp at offset.
func ReadAltoTime(data []byte, offset int) time.Time {
	v := int64(ReadWordBE(data, offset))<<16 | int64(ReadWordBE(data, offset+2))
	return time.Unix(v+altoTimeMagic, 0).UTC()
}

// WriteAltoTime encodes t as a 32-bit Alto-epoch timestamp at offset.
func WriteAltoTime(data []byte, offset int, t time.Time) {
	v := t.Unix() - altoTimeMagic
	WriteWordBE(data, offset, uint16(v>>16))
	WriteWordBE(data, offset+2, uint16(v))
}
