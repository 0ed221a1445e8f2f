package diskfs

// updateMetadata rebuilds the free-page bitmap, free-page count, and last
// serial number by scanning every page. The source library carried this
// logic twice (once in basic.c, once nearly verbatim in disk.c); here it is
// a single function called from both CheckIntegrity and findFreePage's
// stale-metadata recovery path.
func (fs *FS) updateMetadata() {
	for i := range fs.bitmap {
		fs.bitmap[i] = 0xFFFF
	}
	fs.freePages = 0
	fs.lastSN = SerialNumber{}

	for vda := 0; vda < len(fs.pages); vda++ {
		lbl := &fs.pages[vda].Label
		switch lbl.Version {
		case VersionFree:
			fs.bitmap[bitmapIndex(uint16(vda))] &^= 1 << bitmapBit(uint16(vda))
			fs.freePages++
			continue
		case 0, VersionBad:
			continue
		}
		if lbl.FilePgNum == 0 {
			w1 := lbl.SN.Word1 & snPart1Mask
			if w1 > fs.lastSN.Word1 || (w1 == fs.lastSN.Word1 && lbl.SN.Word2 > fs.lastSN.Word2) {
				fs.lastSN = SerialNumber{Word1: w1, Word2: lbl.SN.Word2}
			}
		}
	}
	fs.incrementSerialNumber()
}

// incrementSerialNumber advances fs.lastSN by one, wrapping word2 into word1
// the way a two-word counter would.
func (fs *FS) incrementSerialNumber() {
	flags := fs.lastSN.Word1 &^ snPart1Mask
	counter := uint32(fs.lastSN.Word1&snPart1Mask)<<16 | uint32(fs.lastSN.Word2)
	counter++
	fs.lastSN.Word1 = flags | (uint16(counter>>16) & snPart1Mask)
	fs.lastSN.Word2 = uint16(counter)
}

// nextSerialNumber returns the next serial number to assign to a new file,
// setting SNDirectory when dir is true, then advances the counter.
func (fs *FS) nextSerialNumber(dir bool) SerialNumber {
	sn := fs.lastSN
	if dir {
		sn.Word1 |= SNDirectory
	}
	fs.incrementSerialNumber()
	return sn
}

// findFreePage marks allocated a free VDA taken from the first bitmap word
// that has a free page: the word's lowest free bit, which (bits being
// MSB-first) is the highest-numbered free VDA the word covers. If
// the bitmap disagrees with the page's actual label (stale metadata), it
// rebuilds via updateMetadata and retries once. It returns ok=false if the
// filesystem is out of space.
func (fs *FS) findFreePage() (vda uint16, ok bool) {
	for attempt := 0; attempt < 2; attempt++ {
		if fs.freePages == 0 {
			return 0, false
		}
		vda, ok, stale := fs.scanBitmapForFree()
		if stale {
			fs.updateMetadata()
			continue
		}
		return vda, ok
	}
	return 0, false
}

// scanBitmapForFree scans the bitmap once for a clear bit whose page is
// genuinely FREE, claiming it. stale is true if a clear bit pointed at a
// non-FREE page, signaling the caller should rebuild metadata and retry.
func (fs *FS) scanBitmapForFree() (vda uint16, ok bool, stale bool) {
	for idx, word := range fs.bitmap {
		if word == 0xFFFF {
			continue
		}
		for bit := uint(0); bit < 16; bit++ {
			if word&(1<<bit) != 0 {
				continue
			}
			candidate := bitmapVDA(idx, bit)
			if int(candidate) >= len(fs.pages) {
				continue
			}
			if fs.pages[candidate].Label.Version != VersionFree {
				return 0, false, true
			}
			fs.bitmap[idx] |= 1 << bit
			fs.freePages--
			return candidate, true, false
		}
	}
	return 0, false, false
}

// allocatePage reserves a free page, stamps it as a leader-shaped page of a
// new file (FilePgNum=0, single-page chain, version 1) and returns its VDA.
func (fs *FS) allocatePage() (uint16, error) {
	vda, ok := fs.findFreePage()
	if !ok {
		return 0, newError(DiskFull, "no free pages")
	}
	pg := &fs.pages[vda]
	*pg = Page{}
	rda, _ := fs.virtualToReal(vda)
	pg.Header = [2]uint16{0, rda}
	pg.Label = PageLabel{
		NextRDA:   0,
		PrevRDA:   0,
		Unused:    0,
		NBytes:    PageDataSize,
		FilePgNum: 0,
		Version:   1,
	}
	return vda, nil
}

// freePage marks vda's page as FREE and returns it to the bitmap.
func (fs *FS) freePage(vda uint16) {
	pg := &fs.pages[vda]
	if pg.Label.Version == VersionFree {
		return
	}
	pg.Label = PageLabel{Version: VersionFree}
	for i := range pg.Data {
		pg.Data[i] = 0
	}
	fs.bitmap[bitmapIndex(vda)] &^= 1 << bitmapBit(vda)
	fs.freePages++
}

// freeChain walks the page chain starting at vda via NextRDA and frees every
// page in it.
func (fs *FS) freeChain(vda uint16) {
	for {
		pg, err := fs.page(vda)
		if err != nil {
			return
		}
		next := pg.Label.NextRDA
		fs.freePage(vda)
		if next == 0 {
			return
		}
		nvda, ok := fs.realToVirtual(next)
		if !ok {
			return
		}
		vda = nvda
	}
}
