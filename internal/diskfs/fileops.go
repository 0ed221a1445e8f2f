package diskfs

import (
	"io"
	"strings"
	"time"
)

// validateName rejects path separator characters and over-long names; it
// does not walk the string for a directory prefix, since Open's caller is
// expected to pass a single resolved path and Open itself handles
// separators via resolveName.
func validateName(name string) error {
	if strings.ContainsAny(name, "<>") {
		return newError(InvalidName, "name %q contains a reserved character", name)
	}
	if len(name) >= NameLength-1 {
		return newError(InvalidName, "name %q is too long", name)
	}
	return nil
}

// Open resolves path and returns a cursor over the named file. ModeRead and
// ModeReadWrite require the file to already exist; ModeCreate and
// ModeCreateReadWrite create it if missing (ModeCreate additionally
// truncates an existing file to zero length).
func (fs *FS) Open(path string, mode OpenMode) (*OpenFile, error) {
	if err := fs.requireChecked(); err != nil {
		return nil, err
	}
	fe, err := fs.resolveName(path)
	if err == nil {
		if mode.Truncates() {
			of, oerr := fs.getOpenFile(fe, ModeReadWrite, true)
			if oerr != nil {
				return nil, oerr
			}
			if terr := fs.Truncate(of); terr != nil {
				return nil, terr
			}
			return of, nil
		}
		return fs.getOpenFile(fe, mode, true)
	}
	if !mode.Creates() {
		return nil, newError(FileNotFound, "%q not found", path)
	}
	return fs.create(path)
}

// create validates the base name of path, then allocates a leader page,
// stamps it as a new file, writes its leader metadata, and links it into
// its parent directory. Any failure midway frees the leader chain already
// allocated.
func (fs *FS) create(path string) (*OpenFile, error) {
	parentPath, base := splitPath(path)
	if err := validateName(base); err != nil {
		return nil, err
	}
	parentFE, err := fs.resolveName(parentPath)
	if err != nil {
		return nil, err
	}
	if !parentFE.SN.IsDirectory() {
		return nil, newError(NotDirectory, "%q is not a directory", parentPath)
	}
	if _, ok, _ := fs.findByName(parentFE, base); ok {
		return nil, newError(AlreadyExist, "%q already exists", base)
	}

	leaderVDA, err := fs.allocatePage()
	if err != nil {
		return nil, err
	}
	sn := fs.nextSerialNumber(false)
	lbl := &fs.pages[leaderVDA].Label
	lbl.SN = sn
	lbl.Version = 1

	fe := FileEntry{LeaderVDA: leaderVDA, SN: sn, Version: 1}
	if err := fs.setFileInfo(fe, base, time.Now()); err != nil {
		fs.freeChain(leaderVDA)
		return nil, err
	}
	de := DirectoryEntry{
		Type:   DirEntryValid,
		Length: uint16((DirOffName + 2 + len(base)) / 2),
		FE:     fe,
		Name:   base,
	}
	if err := fs.addDirectoryEntry(parentFE, de); err != nil {
		fs.freeChain(leaderVDA)
		return nil, err
	}
	return fs.getOpenFile(fe, ModeReadWrite, true)
}

// splitPath separates the final path component from its parent directory
// path, in the "<a>b" / "<a>b>c" naming grammar.
func splitPath(path string) (parent, base string) {
	idx := strings.LastIndexAny(path, "<>")
	if idx < 0 {
		return "<", path
	}
	return path[:idx+1], path[idx+1:]
}

// ExtractFile copies the named file's full contents to w.
func (fs *FS) ExtractFile(path string, w io.Writer) error {
	of, err := fs.Open(path, ModeRead)
	if err != nil {
		return err
	}
	defer fs.CloseRO(of)
	var buf [PageDataSize]byte
	for {
		n, rerr := fs.Read(of, buf[:])
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr != nil {
			return rerr
		}
		if n == 0 {
			return nil
		}
	}
}

// InsertFile creates (or truncates) the named file and copies r's full
// contents into it.
func (fs *FS) InsertFile(path string, r io.Reader) error {
	of, err := fs.Open(path, ModeCreate)
	if err != nil {
		return err
	}
	var buf [PageDataSize]byte
	for {
		n, rerr := r.Read(buf[:])
		if n > 0 {
			if _, werr := fs.Write(of, buf[:n]); werr != nil {
				fs.Close(of)
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			fs.Close(of)
			return rerr
		}
	}
	return fs.Close(of)
}

// Copy links dst to the same file entry as src within dst's parent
// directory; this is a hard link, not a data copy, matching the source
// library's fs_copy.
func (fs *FS) Copy(src, dst string) error {
	srcFE, err := fs.resolveName(src)
	if err != nil {
		return err
	}
	parentPath, base := splitPath(dst)
	if err := validateName(base); err != nil {
		return err
	}
	parentFE, err := fs.resolveName(parentPath)
	if err != nil {
		return err
	}
	if _, ok, _ := fs.findByName(parentFE, base); ok {
		return newError(AlreadyExist, "%q already exists", base)
	}
	de := DirectoryEntry{
		Type:   DirEntryValid,
		Length: uint16((DirOffName + 2 + len(base)) / 2),
		FE:     srcFE,
		Name:   base,
	}
	return fs.addDirectoryEntry(parentFE, de)
}

// UpdateDiskDescriptor rewrites the root DiskDescriptor file with the
// filesystem's current geometry, serial number, and free-page bitmap.
func (fs *FS) UpdateDiskDescriptor() error {
	bitmapBytes := len(fs.bitmap) * 2
	buf := make([]byte, DescrHeaderSize+bitmapBytes)
	WriteGeometryBE(buf, DescrOffGeometry, fs.Geometry)
	WriteWordBE(buf, DescrOffLastSN, fs.lastSN.Word1)
	WriteWordBE(buf, DescrOffLastSN+2, fs.lastSN.Word2)
	WriteWordBE(buf, DescrOffBlank, 0)
	WriteWordBE(buf, DescrOffDiskBTSize, uint16(len(fs.bitmap)))
	// versions_kept is always written as zero.
	WriteWordBE(buf, DescrOffVersionsKept, 0)
	WriteWordBE(buf, DescrOffFreePages, fs.freePages)
	for i, w := range fs.bitmap {
		WriteWordBE(buf, DescrHeaderSize+i*2, w)
	}

	of, err := fs.Open("<DiskDescriptor", ModeCreate)
	if err != nil {
		return err
	}
	if _, err := fs.Write(of, buf); err != nil {
		fs.Close(of)
		return err
	}
	return fs.Close(of)
}
