package diskfs

// ListDirectory returns the VALID entries of the directory named by path.
func (fs *FS) ListDirectory(path string) ([]DirectoryEntry, error) {
	dirFE, err := fs.resolveName(path)
	if err != nil {
		return nil, err
	}
	var entries []DirectoryEntry
	err = fs.scanDirectory(dirFE, func(de DirectoryEntry) bool {
		entries = append(entries, de)
		return true
	})
	return entries, err
}

// Stat returns the leader-page metadata for the file named by path.
func (fs *FS) Stat(path string) (FileInfo, error) {
	fe, err := fs.resolveName(path)
	if err != nil {
		return FileInfo{}, err
	}
	return fs.getFileInfo(fe)
}
