package diskfs

// encodeDirectoryEntry serializes de into its on-disk byte form: a packed
// header word, the file entry, a blank word, and the length-prefixed name,
// all padded out to exactly 2*de.Length bytes.
func encodeDirectoryEntry(de DirectoryEntry) []byte {
	buf := make([]byte, int(de.Length)*2)
	header := (de.Type << 10) | (de.Length & 0x3FF)
	WriteWordBE(buf, 0, header)
	if de.Type != DirEntryMissing {
		WriteWordBE(buf, DirOffSN, de.FE.SN.Word1)
		WriteWordBE(buf, DirOffSN+2, de.FE.SN.Word2)
		WriteWordBE(buf, DirOffVersion, de.FE.Version)
		WriteWordBE(buf, DirOffBlank, 0)
		WriteWordBE(buf, DirOffLeaderVDA, de.FE.LeaderVDA)
		writeName(buf, DirOffName, len(buf)-DirOffName, de.Name)
	}
	return buf
}

// decodeDirectoryEntry parses a previously read raw entry buffer. ok is
// false for malformed records (the source library treats these as silent
// end-of-scan, not a hard error).
func decodeDirectoryEntry(buf []byte) (de DirectoryEntry, ok bool) {
	if len(buf) < 2 {
		return de, false
	}
	header := ReadWordBE(buf, 0)
	de.Type = header >> 10
	de.Length = header & 0x3FF
	if de.Length == 0 || int(de.Length)*2 > len(buf) {
		return de, false
	}
	if de.Type == DirEntryMissing {
		return de, true
	}
	if int(de.Length)*2 <= DirOffName {
		return de, false
	}
	de.FE.SN.Word1 = ReadWordBE(buf, DirOffSN)
	de.FE.SN.Word2 = ReadWordBE(buf, DirOffSN+2)
	de.FE.Version = ReadWordBE(buf, DirOffVersion)
	de.FE.LeaderVDA = ReadWordBE(buf, DirOffLeaderVDA)
	nameLen := int(buf[DirOffName])
	if DirOffName+1+nameLen > int(de.Length)*2 {
		return de, false
	}
	de.Name = readName(buf, DirOffName)
	return de, true
}

// readDirectoryEntry reads one entry from the cursor's current position.
// ok is false at end of stream or on a malformed record.
func (fs *FS) readDirectoryEntry(of *OpenFile) (de DirectoryEntry, ok bool, err error) {
	var header [2]byte
	n, rerr := fs.Read(of, header[:])
	if rerr != nil {
		return de, false, rerr
	}
	if n < 2 {
		return de, false, nil
	}
	h := ReadWordBE(header[:], 0)
	length := h & 0x3FF
	if length == 0 {
		return de, false, nil
	}
	rest := make([]byte, int(length)*2-2)
	n, rerr = fs.Read(of, rest)
	if rerr != nil {
		return de, false, rerr
	}
	if n < len(rest) {
		return de, false, nil
	}
	full := append(header[:], rest...)
	de, ok = decodeDirectoryEntry(full)
	return de, ok, nil
}

// appendDirectoryEntry writes de at the cursor's current position, extending
// the file.
func (fs *FS) appendDirectoryEntry(of *OpenFile, de DirectoryEntry) error {
	buf := encodeDirectoryEntry(de)
	_, err := fs.Write(of, buf)
	return err
}

// appendEmptyEntries fills words words of MISSING-type filler starting at
// the cursor's current position, in blocks of at most 100 words each (the
// largest length value a 10-bit length field can comfortably keep distinct
// from pathological single-giant-record corruption).
func (fs *FS) appendEmptyEntries(of *OpenFile, words int) error {
	const maxBlock = 100
	for words > 0 {
		block := words
		if block > maxBlock {
			block = maxBlock
		}
		if block < 1 {
			break
		}
		if err := fs.appendDirectoryEntry(of, DirectoryEntry{Type: DirEntryMissing, Length: uint16(block)}); err != nil {
			return err
		}
		words -= block
	}
	return nil
}

// compressDirectory rewrites dirFE's entry stream keeping only VALID
// entries, then pads the remainder with MISSING filler blocks. It returns
// the word length used by real entries and the word length left as filler.
func (fs *FS) compressDirectory(dirFE FileEntry) (usedWords, emptyWords int, err error) {
	src, err := fs.getOpenFile(dirFE, ModeRead, true)
	if err != nil {
		return 0, 0, err
	}
	var valid []DirectoryEntry
	for {
		de, ok, rerr := fs.readDirectoryEntry(src)
		if rerr != nil {
			fs.CloseRO(src)
			return 0, 0, rerr
		}
		if !ok {
			break
		}
		if de.Type != DirEntryMissing {
			valid = append(valid, de)
			usedWords += int(de.Length)
		} else {
			emptyWords += int(de.Length)
		}
	}
	fs.CloseRO(src)

	dst, err := fs.getOpenFile(dirFE, ModeReadWrite, true)
	if err != nil {
		return 0, 0, err
	}
	for _, de := range valid {
		if werr := fs.appendDirectoryEntry(dst, de); werr != nil {
			fs.Close(dst)
			return 0, 0, werr
		}
	}
	if werr := fs.appendEmptyEntries(dst, emptyWords); werr != nil {
		fs.Close(dst)
		return 0, 0, werr
	}
	if werr := fs.Truncate(dst); werr != nil {
		fs.Close(dst)
		return 0, 0, werr
	}
	if err := fs.Close(dst); err != nil {
		return 0, 0, err
	}
	return usedWords, emptyWords, nil
}

// addDirectoryEntry compresses dirFE, verifies there is enough filler space
// for de, then seeks past the used region and appends de, refilling any
// leftover filler space afterward.
func (fs *FS) addDirectoryEntry(dirFE FileEntry, de DirectoryEntry) error {
	usedWords, emptyWords, err := fs.compressDirectory(dirFE)
	if err != nil {
		return err
	}
	if emptyWords < int(de.Length) {
		return newError(DirFull, "not enough room for new entry")
	}

	of, err := fs.getOpenFile(dirFE, ModeReadWrite, true)
	if err != nil {
		return err
	}
	skip := make([]byte, usedWords*2)
	if _, err := fs.Read(of, skip); err != nil {
		fs.Close(of)
		return err
	}
	if err := fs.appendDirectoryEntry(of, de); err != nil {
		fs.Close(of)
		return err
	}
	remaining := emptyWords - int(de.Length)
	if err := fs.appendEmptyEntries(of, remaining); err != nil {
		fs.Close(of)
		return err
	}
	return fs.Close(of)
}
