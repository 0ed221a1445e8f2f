// Package hostio provides the thin glue between the diskfs package and the
// host filesystem: loading a disk image file into memory and writing it
// back out, and copying individual files in and out by host path.
package hostio

import (
	"fmt"
	"os"
	"path/filepath"

	"altofs/internal/diskfs"
)

// LoadImage reads path from the host filesystem and decodes it as an Alto
// disk image. useFramed selects the big-endian framed wire format over the
// little-endian raw sector-table format.
func LoadImage(path string, geometry diskfs.Geometry, useFramed bool) (*diskfs.FS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hostio: reading %s: %w", path, err)
	}
	if useFramed {
		return diskfs.LoadFramed(geometry, data)
	}
	return diskfs.LoadRaw(geometry, data)
}

// SaveImage encodes fs and writes it to path on the host filesystem.
func SaveImage(path string, fs *diskfs.FS, useFramed bool) error {
	var data []byte
	if useFramed {
		data = diskfs.SaveFramed(fs)
	} else {
		data = diskfs.SaveRaw(fs)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("hostio: writing %s: %w", path, err)
	}
	return nil
}

// Extract copies altoPath out of fs into a new host file at hostPath.
func Extract(fs *diskfs.FS, altoPath, hostPath string) error {
	if err := os.MkdirAll(filepath.Dir(hostPath), 0755); err != nil {
		return fmt.Errorf("hostio: preparing %s: %w", hostPath, err)
	}
	out, err := os.Create(hostPath)
	if err != nil {
		return fmt.Errorf("hostio: creating %s: %w", hostPath, err)
	}
	defer out.Close()
	if err := fs.ExtractFile(altoPath, out); err != nil {
		return fmt.Errorf("hostio: extracting %s: %w", altoPath, err)
	}
	return nil
}

// Insert copies a host file at hostPath into fs at altoPath.
func Insert(fs *diskfs.FS, hostPath, altoPath string) error {
	in, err := os.Open(hostPath)
	if err != nil {
		return fmt.Errorf("hostio: opening %s: %w", hostPath, err)
	}
	defer in.Close()
	if err := fs.InsertFile(altoPath, in); err != nil {
		return fmt.Errorf("hostio: inserting %s: %w", altoPath, err)
	}
	return nil
}
