package diskfs

import "time"

// readName decodes the length-prefixed name region at LDOffName within a
// leader page, or the equivalent region within a directory entry.
func readName(data []byte, offset int) string {
	n := int(data[offset])
	if n <= 0 || offset+1+n > len(data) {
		return ""
	}
	return string(data[offset+1 : offset+1+n])
}

// writeName encodes name as a length-prefixed run starting at offset, up to
// maxLen total bytes (including the length byte).
func writeName(data []byte, offset int, maxLen int, name string) {
	b := []byte(name)
	if len(b) > maxLen-1 {
		b = b[:maxLen-1]
	}
	data[offset] = byte(len(b))
	copy(data[offset+1:offset+1+len(b)], b)
}

// readLeaderPage reads the 512-byte leader page of fe without skipping it,
// via a read-only cursor.
func (fs *FS) readLeaderPage(fe FileEntry) (Page, error) {
	of, err := fs.getOpenFile(fe, ModeRead, false)
	if err != nil {
		return Page{}, err
	}
	defer fs.CloseRO(of)
	var buf [PageDataSize]byte
	if _, err := fs.Read(of, buf[:]); err != nil {
		return Page{}, err
	}
	return Page{Label: of.page.Label, Data: buf}, nil
}

// writeRawLeaderPage writes data as fe's leader page contents via a
// read-write cursor that is immediately closed read-only, so the write does
// not recursively trigger updateLeaderPage.
func (fs *FS) writeRawLeaderPage(fe FileEntry, data [PageDataSize]byte) error {
	of, err := fs.getOpenFile(fe, ModeReadWrite, false)
	if err != nil {
		return err
	}
	if _, err := fs.Write(of, data[:]); err != nil {
		return err
	}
	return fs.CloseRO(of)
}

// fileLength walks fe's page chain to measure its total byte length.
func (fs *FS) fileLength(fe FileEntry) (uint32, error) {
	of, err := fs.getOpenFile(fe, ModeRead, true)
	if err != nil {
		return 0, err
	}
	defer fs.CloseRO(of)
	var total uint32
	var buf [PageDataSize]byte
	for {
		n, err := fs.Read(of, buf[:])
		total += uint32(n)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// scanProperties walks the type/length/data record stream stored in a
// leader page's property region. length counts only the data words that
// follow the type/length header pair, matching the disk_geometry property's
// documented type=1/length=5 shape (5 words of geometry data). Stops when
// cb returns false or the stream is exhausted or malformed.
func scanProperties(data []byte, propBegin, propLen uint16, cb func(typ, length uint16, rec []byte) bool) {
	if int(propBegin)*2 != LDOffProps {
		return
	}
	end := int(propBegin)*2 + int(propLen)*2
	if end > LDOffSpare {
		end = LDOffSpare
	}
	off := LDOffProps
	for off+4 <= end {
		typ := ReadWordBE(data, off)
		length := ReadWordBE(data, off+2)
		if length == 0 {
			break
		}
		recEnd := off + 4 + int(length)*2
		if recEnd > end {
			break
		}
		if !cb(typ, length, data[off+4:recEnd]) {
			return
		}
		off = recEnd
	}
}

// propGeometryType/propGeometryLength identify the disk-geometry property
// record that checkFiles requires on the root directory's (SysDir's)
// leader page.
// propLastPageType/propLastPageLength identify the richer, optional
// last-page-hint property: the same FilePosition the fixed LDOffLastPageHint
// field carries, but round-tripped through the general property stream
// instead of a dedicated byte range, alongside whatever other properties a
// leader page already carries.
const (
	propGeometryType   = 1
	propGeometryLength = 5

	propLastPageType   = 2
	propLastPageLength = 3
)

// propertyRecord is one decoded type/length/data record from a leader
// page's property stream.
type propertyRecord struct {
	typ    uint16
	length uint16
	data   []byte
}

// collectProperties reads every property record from data's property stream
// except one of type excludeType (pass a value outside uint16's range, such
// as -1, to keep everything).
func collectProperties(data []byte, propBegin, propLen uint16, excludeType int) []propertyRecord {
	var out []propertyRecord
	scanProperties(data, propBegin, propLen, func(typ, length uint16, rec []byte) bool {
		if int(typ) != excludeType {
			cp := make([]byte, len(rec))
			copy(cp, rec)
			out = append(out, propertyRecord{typ: typ, length: length, data: cp})
		}
		return true
	})
	return out
}

// writeProperties serializes records back-to-back starting at LDOffProps,
// returning the propBegin/propLen header values. ok is false if records
// don't fit in the property stream region.
func writeProperties(data []byte, records []propertyRecord) (propBegin, propLen byte, ok bool) {
	off := LDOffProps
	for _, r := range records {
		recBytes := 4 + len(r.data)
		if off+recBytes > LDOffSpare {
			return 0, 0, false
		}
		WriteWordBE(data, off, r.typ)
		WriteWordBE(data, off+2, r.length)
		copy(data[off+4:off+4+len(r.data)], r.data)
		off += recBytes
	}
	return byte(LDOffProps / 2), byte((off - LDOffProps) / 2), true
}

// setLastPageHintRecord rewrites data's property stream with a fresh
// type=2 last-page-hint record reflecting pos, keeping every other property
// record already present (such as the root directory's geometry property).
// It returns false, leaving data unchanged, if the property stream has no
// room left; the fixed LDOffLastPageHint field still carries the hint in
// that case.
func setLastPageHintRecord(data []byte, pos FilePosition) bool {
	propBegin := uint16(data[LDOffPropBegin])
	propLen := uint16(data[LDOffPropLen])
	records := collectProperties(data, propBegin, propLen, propLastPageType)

	var rec [propLastPageLength * 2]byte
	WriteWordBE(rec[:], 0, pos.VDA)
	WriteWordBE(rec[:], 2, pos.PgNum)
	WriteWordBE(rec[:], 4, pos.Offset)
	records = append(records, propertyRecord{typ: propLastPageType, length: propLastPageLength, data: rec[:]})

	begin, length, ok := writeProperties(data, records)
	if !ok {
		return false
	}
	data[LDOffPropBegin] = begin
	data[LDOffPropLen] = length
	return true
}

// LastPageHintProperty reads the optional type=2 last-page-hint property
// record from fe's leader page. found is false if the file has never had
// one written (for instance, a freshly created empty file before its first
// Close).
func (fs *FS) LastPageHintProperty(fe FileEntry) (pos FilePosition, found bool, err error) {
	pg, err := fs.readLeaderPage(fe)
	if err != nil {
		return FilePosition{}, false, err
	}
	d := pg.Data[:]
	propBegin := uint16(d[LDOffPropBegin])
	propLen := uint16(d[LDOffPropLen])
	scanProperties(d, propBegin, propLen, func(typ, length uint16, rec []byte) bool {
		if typ == propLastPageType && length == propLastPageLength {
			pos = FilePosition{
				VDA:    ReadWordBE(rec, 0),
				PgNum:  ReadWordBE(rec, 2),
				Offset: ReadWordBE(rec, 4),
			}
			found = true
			return false
		}
		return true
	})
	return pos, found, nil
}

// getFileInfo decodes the full metadata a leader page carries.
func (fs *FS) getFileInfo(fe FileEntry) (FileInfo, error) {
	pg, err := fs.readLeaderPage(fe)
	if err != nil {
		return FileInfo{}, err
	}
	d := pg.Data[:]
	info := FileInfo{
		FE:          fe,
		Name:        readName(d, LDOffName),
		Created:     ReadAltoTime(d, LDOffCreated).Unix(),
		Written:     ReadAltoTime(d, LDOffWritten).Unix(),
		LastRead:    ReadAltoTime(d, LDOffRead).Unix(),
		Consecutive: d[LDOffConsecutive] != 0,
		ChangeSN:    d[LDOffChangeSN] != 0,
		PropBegin:   uint16(d[LDOffPropBegin]),
		PropLen:     uint16(d[LDOffPropLen]),
	}
	info.DirFPHint = FileEntry{
		LeaderVDA: ReadWordBE(d, LDOffDirFPHint),
		SN: SerialNumber{
			Word1: ReadWordBE(d, LDOffDirFPHint+2),
			Word2: ReadWordBE(d, LDOffDirFPHint+4),
		},
		Version: ReadWordBE(d, LDOffDirFPHint+6),
	}
	info.LastPageHint = FilePosition{
		VDA:    ReadWordBE(d, LDOffLastPageHint),
		PgNum:  ReadWordBE(d, LDOffLastPageHint+2),
		Offset: ReadWordBE(d, LDOffLastPageHint+4),
	}

	scanProperties(d, info.PropBegin, info.PropLen, func(typ, length uint16, rec []byte) bool {
		if typ == propGeometryType && length == propGeometryLength {
			info.HasDiskGeometry = true
			info.DiskGeometry = ReadGeometryBE(rec, 0)
		}
		return true
	})

	length, err := fs.fileLength(fe)
	if err != nil {
		return FileInfo{}, err
	}
	info.Length = length
	return info, nil
}

// setFileInfo writes created/written/name metadata for a freshly created
// file's leader page. It overwrites the whole page, leaving an empty
// property stream.
func (fs *FS) setFileInfo(fe FileEntry, name string, now time.Time) error {
	var buf [PageDataSize]byte
	WriteAltoTime(buf[:], LDOffCreated, now)
	WriteAltoTime(buf[:], LDOffWritten, now)
	WriteAltoTime(buf[:], LDOffRead, now)
	writeName(buf[:], LDOffName, ldNameRegionLen, name)
	// empty property stream: propBegin/propLen point past the header with
	// zero records.
	buf[LDOffPropBegin] = byte(LDOffProps / 2)
	buf[LDOffPropLen] = 0
	return fs.writeRawLeaderPage(fe, buf)
}

// updateLeaderPage re-measures fe's length and rewrites the last-page-hint
// field and property record of its leader page, leaving the rest untouched.
func (fs *FS) updateLeaderPage(fe FileEntry) error {
	pg, err := fs.readLeaderPage(fe)
	if err != nil {
		return err
	}

	of, err := fs.getOpenFile(fe, ModeRead, true)
	if err != nil {
		return err
	}
	var lastVDA, pgNum, offset uint16
	var buf [PageDataSize]byte
	for {
		lastVDA, pgNum, offset = of.pageVDA, of.pgNum, of.pos
		n, rerr := fs.Read(of, buf[:])
		if rerr != nil {
			fs.CloseRO(of)
			return rerr
		}
		if n == 0 {
			break
		}
	}
	fs.CloseRO(of)

	var out [PageDataSize]byte
	copy(out[:], pg.Data[:])
	WriteWordBE(out[:], LDOffLastPageHint, lastVDA)
	WriteWordBE(out[:], LDOffLastPageHint+2, pgNum)
	WriteWordBE(out[:], LDOffLastPageHint+4, offset)
	// Also keep the richer type=2 property record in sync; if the property
	// stream has no room left the fixed field above still carries the hint.
	setLastPageHintRecord(out[:], FilePosition{VDA: lastVDA, PgNum: pgNum, Offset: offset})
	return fs.writeRawLeaderPage(fe, out)
}
