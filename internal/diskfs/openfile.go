package diskfs

// getOpenFile builds a fresh cursor positioned at the start of fe's page
// chain. If skipLeader is true (the common case for data access) the cursor
// is advanced past the leader page before returning.
func (fs *FS) getOpenFile(fe FileEntry, mode OpenMode, skipLeader bool) (*OpenFile, error) {
	if err := fs.requireChecked(); err != nil {
		return nil, err
	}
	if !fe.Valid() {
		return nil, newError(InvalidFE, "invalid file entry")
	}
	pg, err := fs.page(fe.LeaderVDA)
	if err != nil {
		return nil, newError(InvalidFE, "leader vda out of range")
	}
	if pg.Label.SN != fe.SN || pg.Label.Version != fe.Version || pg.Label.FilePgNum != 0 {
		return nil, newError(InvalidFE, "stale file entry")
	}

	of := &OpenFile{
		fe:         fe,
		mode:       mode,
		readOnly:   mode.ReadOnly(),
		skipLeader: skipLeader,
		pageVDA:    fe.LeaderVDA,
		page:       *pg,
		pgNum:      0,
		pos:        0,
	}
	if skipLeader {
		fs.advance(of)
	}
	return of, nil
}

// checkOF validates the invariants a cursor must hold before any operation
// proceeds, matching the source library's check_of.
func (fs *FS) checkOF(of *OpenFile) error {
	if of.Err != nil {
		return of.Err
	}
	if err := fs.requireChecked(); err != nil {
		return err
	}
	if of.eof {
		return nil
	}
	if int(of.pageVDA) >= len(fs.pages) {
		return newError(InvalidOF, "cursor vda out of range")
	}
	if of.pos > of.page.Label.NBytes {
		return newError(InvalidOF, "cursor position past page end")
	}
	return nil
}

// advance moves the cursor to the next page in the chain, or marks EOF if
// there is none. It mirrors advance_page's error/EOF-first ordering.
func (fs *FS) advance(of *OpenFile) {
	if of.Err != nil || of.eof {
		return
	}
	next := of.page.Label.NextRDA
	if next == 0 {
		of.eof = true
		of.pos = of.page.Label.NBytes
		return
	}
	nvda, ok := fs.realToVirtual(next)
	if !ok {
		of.Err = newError(InvalidOF, "corrupt next-page link")
		return
	}
	pg, err := fs.page(nvda)
	if err != nil {
		of.Err = newError(InvalidOF, "corrupt next-page link")
		return
	}
	of.pageVDA = nvda
	of.page = *pg
	of.pgNum++
	of.pos = 0
}

// Read copies up to len(dst) bytes from the cursor's current position,
// advancing across page boundaries as needed. It returns the number of
// bytes copied; fewer than len(dst) means EOF was reached.
func (fs *FS) Read(of *OpenFile, dst []byte) (int, error) {
	if err := fs.checkOF(of); err != nil {
		return 0, err
	}
	n := 0
	for n < len(dst) {
		if of.eof {
			break
		}
		avail := of.page.Label.NBytes - of.pos
		if avail == 0 {
			fs.advance(of)
			if of.Err != nil {
				return n, of.Err
			}
			continue
		}
		chunk := len(dst) - n
		if chunk > int(avail) {
			chunk = int(avail)
		}
		copy(dst[n:n+chunk], of.page.Data[of.pos:int(of.pos)+chunk])
		of.pos += uint16(chunk)
		n += chunk
		if of.pos >= of.page.Label.NBytes {
			fs.advance(of)
			if of.Err != nil {
				return n, of.Err
			}
		}
	}
	return n, nil
}

// Write copies len(src) bytes into the cursor's current position, extending
// the page chain as needed. A partially filled last page is topped up to
// PageDataSize before any new page is allocated; the new page's back-link
// is set before the old page's forward-link, matching the write-extend
// ordering the source library depends on for crash consistency.
func (fs *FS) Write(of *OpenFile, src []byte) (int, error) {
	if err := fs.checkOF(of); err != nil {
		return 0, err
	}
	if of.readOnly {
		return 0, newError(ReadOnly, "cursor opened read-only")
	}
	n := 0
	for n < len(src) {
		if of.eof {
			if err := fs.extend(of); err != nil {
				return n, err
			}
		}
		avail := int(of.page.Label.NBytes) - int(of.pos)
		if of.page.Label.NextRDA == 0 {
			// The last page grows with the data written, up to PageDataSize.
			avail = PageDataSize - int(of.pos)
		}
		if avail <= 0 {
			fs.advance(of)
			if of.Err != nil {
				return n, of.Err
			}
			continue
		}
		chunk := len(src) - n
		if chunk > avail {
			chunk = avail
		}
		copy(of.page.Data[of.pos:int(of.pos)+chunk], src[n:n+chunk])
		of.modified = true
		of.pos += uint16(chunk)
		if of.pos > of.page.Label.NBytes {
			of.page.Label.NBytes = of.pos
		}
		fs.pages[of.pageVDA] = of.page
		n += chunk
		if of.pos >= of.page.Label.NBytes {
			if of.page.Label.NextRDA == 0 {
				of.eof = true
			} else {
				fs.advance(of)
				if of.Err != nil {
					return n, of.Err
				}
			}
		}
	}
	return n, nil
}

// extend lets Write continue past EOF: a partial last page is reopened so
// Write fills it in place up to full size; only once it is full does a new,
// empty page get allocated and linked in.
func (fs *FS) extend(of *OpenFile) error {
	if of.page.Label.NBytes < PageDataSize {
		of.eof = false
		return nil
	}

	nvda, err := fs.allocatePage()
	if err != nil {
		return err
	}
	npg := &fs.pages[nvda]
	npg.Label.FilePgNum = of.pgNum + 1
	npg.Label.Version = of.fe.Version
	npg.Label.SN = of.fe.SN
	npg.Label.NBytes = 0

	prevRDA, _ := fs.virtualToReal(of.pageVDA)
	npg.Label.PrevRDA = prevRDA

	nextRDA, _ := fs.virtualToReal(nvda)
	of.page.Label.NextRDA = nextRDA
	fs.pages[of.pageVDA] = of.page
	of.modified = true

	of.pageVDA = nvda
	of.page = *npg
	of.pgNum++
	of.pos = 0
	of.eof = false
	return nil
}

// Truncate cuts the file at the cursor's current position: the current
// page's NBytes is set to pos, its forward link is cleared, and every page
// after it in the chain is freed.
func (fs *FS) Truncate(of *OpenFile) error {
	if err := fs.checkOF(of); err != nil {
		return err
	}
	if of.readOnly {
		return newError(ReadOnly, "cursor opened read-only")
	}
	if of.eof {
		return nil
	}
	next := of.page.Label.NextRDA
	of.page.Label.NBytes = of.pos
	of.page.Label.NextRDA = 0
	fs.pages[of.pageVDA] = of.page
	of.modified = true
	of.eof = true

	if next != 0 {
		if nvda, ok := fs.realToVirtual(next); ok {
			fs.freeChain(nvda)
		}
	}
	return nil
}

// Close finalizes a read-write cursor, triggering a leader-page metadata
// update if any write or truncate touched the file.
func (fs *FS) Close(of *OpenFile) error {
	if of.modified {
		fs.updateLeaderPage(of.fe)
	}
	return nil
}

// CloseRO finalizes a read-only cursor. It never touches leader metadata,
// which is how the leader-page rewrite path itself avoids recursing back
// into updateLeaderPage.
func (fs *FS) CloseRO(of *OpenFile) error {
	return nil
}
