package diskfs

// getSysDir returns the file entry of the fixed root directory, reading its
// own leader page label to fill in SN/Version.
func (fs *FS) getSysDir() (FileEntry, error) {
	pg, err := fs.page(SysDirVDA)
	if err != nil {
		return FileEntry{}, newError(DirNotFound, "SysDir page missing")
	}
	if pg.Label.FilePgNum != 0 || !pg.Label.SN.IsDirectory() {
		return FileEntry{}, newError(DirNotFound, "SysDir leader page malformed")
	}
	return FileEntry{LeaderVDA: SysDirVDA, SN: pg.Label.SN, Version: pg.Label.Version}, nil
}

// scanFiles invokes cb once per leader page found anywhere on the disk,
// skipping unused and special-version pages.
func (fs *FS) scanFiles(cb func(fe FileEntry) bool) {
	for vda := 0; vda < len(fs.pages); vda++ {
		lbl := fs.pages[vda].Label
		if lbl.FilePgNum != 0 {
			continue
		}
		if lbl.Version == 0 || lbl.Version == VersionFree || lbl.Version == VersionBad {
			continue
		}
		fe := FileEntry{LeaderVDA: uint16(vda), SN: lbl.SN, Version: lbl.Version}
		if !cb(fe) {
			return
		}
	}
}

// scanDirectory walks dirFE's entries invoking cb on each VALID one, until
// cb returns false or the stream ends.
func (fs *FS) scanDirectory(dirFE FileEntry, cb func(de DirectoryEntry) bool) error {
	if !dirFE.SN.IsDirectory() {
		return newError(NotDirectory, "not a directory")
	}
	of, err := fs.getOpenFile(dirFE, ModeRead, true)
	if err != nil {
		return err
	}
	defer fs.CloseRO(of)
	for {
		de, ok, rerr := fs.readDirectoryEntry(of)
		if rerr != nil {
			return rerr
		}
		if !ok {
			return nil
		}
		if de.Type == DirEntryMissing {
			continue
		}
		if !cb(de) {
			return nil
		}
	}
}

// findByName scans dirFE's entries for the first exact, case-sensitive name
// match.
func (fs *FS) findByName(dirFE FileEntry, name string) (DirectoryEntry, bool, error) {
	var found DirectoryEntry
	ok := false
	err := fs.scanDirectory(dirFE, func(de DirectoryEntry) bool {
		if de.Name == name {
			found = de
			ok = true
			return false
		}
		return true
	})
	return found, ok, err
}

// resolveName parses a path of the form "<component>component>..." (the
// '<' separator resets to SysDir, '>' advances into the matched directory)
// and returns the file entry it names.
func (fs *FS) resolveName(path string) (FileEntry, error) {
	fe, found, _, tail, err := fs.resolveNameFull(path)
	if err != nil {
		return FileEntry{}, err
	}
	if !found {
		return FileEntry{}, newError(FileNotFound, "%q not found", tail)
	}
	return fe, nil
}

// resolveNameFull is the full name-resolution contract: found reports
// whether path resolved end to end; fe is the resolved entry when found;
// parent is the last directory successfully traversed (SysDir itself if no
// component resolved at all); tail is the first unresolved component and
// everything following it in path. err is reserved for genuine faults
// (a corrupt directory, or a path component that names a plain file where
// a directory is required) rather than an ordinary not-found.
func (fs *FS) resolveNameFull(path string) (fe FileEntry, found bool, parent FileEntry, tail string, err error) {
	sysdir, err := fs.getSysDir()
	if err != nil {
		return FileEntry{}, false, FileEntry{}, "", err
	}
	current := sysdir
	parent = sysdir
	found = true

	i := 0
	for i < len(path) {
		if path[i] == '<' {
			current = sysdir
			parent = sysdir
			found = true
			tail = ""
			i++
			continue
		}
		if path[i] == '>' {
			i++
			continue
		}
		start := i
		for i < len(path) && path[i] != '<' && path[i] != '>' {
			i++
		}
		component := path[start:i]
		if component == "" {
			continue
		}
		if !found {
			continue
		}
		if !current.SN.IsDirectory() {
			return FileEntry{}, false, parent, path[start:], newError(NotDirectory, "%q is not a directory", component)
		}
		de, ok, serr := fs.findByName(current, component)
		if serr != nil {
			return FileEntry{}, false, parent, path[start:], serr
		}
		if !ok {
			parent = current
			found = false
			tail = path[start:]
			current = FileEntry{}
			continue
		}
		parent = current
		current = de.FE
		found = true
	}
	if !found {
		return FileEntry{}, false, parent, tail, nil
	}
	return current, true, parent, "", nil
}
