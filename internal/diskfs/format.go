package diskfs

import "time"

// Format initializes a freshly created FS with a boot sector, a root
// directory ("SysDir", fixed at VDA 1, carrying the filesystem's geometry
// as a leader-page property so CheckIntegrity's root-directory pass can
// verify it) holding 200 words of MISSING filler as room for entries, and a
// DiskDescriptor file. It leaves the filesystem checked on success.
func (fs *FS) Format() error {
	if len(fs.pages) < 2 {
		return newError(Unknown, "geometry too small to format")
	}

	fs.pages[0] = Page{}
	fs.pages[0].Label.Version = 0 // boot sector: unused, not FREE

	sysdirSN := fs.nextSerialNumber(true)
	sysdirRDA, _ := fs.virtualToReal(SysDirVDA)
	fs.pages[SysDirVDA] = Page{}
	fs.pages[SysDirVDA].Header = [2]uint16{0, sysdirRDA}
	fs.pages[SysDirVDA].Label = PageLabel{NBytes: PageDataSize, Version: 1, FilePgNum: 0, SN: sysdirSN}
	sysdirFE := FileEntry{LeaderVDA: SysDirVDA, SN: sysdirSN, Version: 1}

	fs.updateMetadata()

	// Trust the construction above long enough to write the root's own
	// leader metadata and the DiskDescriptor file through the normal
	// checked-only API; CheckIntegrity below re-validates everything
	// before the filesystem is actually handed to the caller.
	fs.checked = true

	if err := fs.setFileInfo(sysdirFE, "SysDir", time.Now()); err != nil {
		fs.checked = false
		return err
	}
	var geomProp [propGeometryLength * 2]byte
	WriteGeometryBE(geomProp[:], 0, fs.Geometry)
	if err := fs.appendGeometryProperty(sysdirFE, geomProp); err != nil {
		fs.checked = false
		return err
	}

	// addDirectoryEntry only reuses filler space, so give the root room for
	// its first entries (DiskDescriptor among them).
	dir, err := fs.getOpenFile(sysdirFE, ModeReadWrite, true)
	if err != nil {
		fs.checked = false
		return err
	}
	if err := fs.appendEmptyEntries(dir, 200); err != nil {
		fs.checked = false
		return err
	}
	fs.Close(dir)

	if err := fs.UpdateDiskDescriptor(); err != nil {
		fs.checked = false
		return err
	}

	fs.checked = false
	return fs.CheckIntegrity()
}

// appendGeometryProperty rewrites dirFE's leader page with a single
// type-1/length-5 property record holding the filesystem's geometry: the
// record's length counts only the data words (see scanProperties), so the
// 5 data words following the type/length header hold the 4-word
// DiskDescriptor-style geometry plus one reserved word.
func (fs *FS) appendGeometryProperty(fe FileEntry, geom [propGeometryLength * 2]byte) error {
	pg, err := fs.readLeaderPage(fe)
	if err != nil {
		return err
	}
	var buf [PageDataSize]byte
	copy(buf[:], pg.Data[:])

	off := LDOffProps
	WriteWordBE(buf[:], off, propGeometryType)
	WriteWordBE(buf[:], off+2, propGeometryLength)
	copy(buf[off+4:off+4+len(geom)], geom[:])

	buf[LDOffPropBegin] = byte(LDOffProps / 2)
	buf[LDOffPropLen] = byte(2 + propGeometryLength)
	return fs.writeRawLeaderPage(fe, buf)
}
