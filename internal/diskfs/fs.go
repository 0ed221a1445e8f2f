package diskfs

import "fmt"

// FS is an in-memory Alto disk image: its geometry, the full page array, and
// the allocation/integrity bookkeeping derived by CheckIntegrity.
type FS struct {
	Geometry Geometry

	pages []Page

	bitmap    []uint16
	freePages uint16
	lastSN    SerialNumber
	checked   bool
}

// New creates a blank filesystem of the given geometry, with every page
// initialized to the FREE state. The caller must run CheckIntegrity before any
// allocation or directory operation will succeed, matching the source
// library's "unchecked" contract.
func New(g Geometry) (*FS, error) {
	if !g.Valid() {
		return nil, newError(Unknown, "invalid geometry %+v", g)
	}
	n := g.TotalPages()
	fs := &FS{
		Geometry:  g,
		pages:     make([]Page, n),
		bitmap:    make([]uint16, (n+15)/16),
		freePages: VersionFree, // uninitialized sentinel, like the source's fs_create
		lastSN:    SerialNumber{},
		checked:   false,
	}
	for i := range fs.pages {
		fs.pages[i].Label.Version = VersionFree
	}
	return fs, nil
}

// NumPages returns N, the total page count of the filesystem's geometry.
func (fs *FS) NumPages() int { return len(fs.pages) }

// Checked reports whether CheckIntegrity has last completed successfully.
func (fs *FS) Checked() bool { return fs.checked }

// page returns a pointer to the page at vda, or an error if vda is out of
// range.
func (fs *FS) page(vda uint16) (*Page, error) {
	if int(vda) >= len(fs.pages) {
		return nil, newError(Unknown, "vda %d out of range", vda)
	}
	return &fs.pages[vda], nil
}

// virtualToReal converts vda to an RDA using the filesystem's geometry.
func (fs *FS) virtualToReal(vda uint16) (uint16, bool) {
	return VirtualToReal(fs.Geometry, vda)
}

// realToVirtual converts rda to a VDA using the filesystem's geometry.
func (fs *FS) realToVirtual(rda uint16) (uint16, bool) {
	return RealToVirtual(fs.Geometry, rda)
}

func (fs *FS) requireChecked() error {
	if !fs.checked {
		return newError(FSUnchecked, "filesystem has not passed integrity check")
	}
	return nil
}

func (fs *FS) String() string {
	return fmt.Sprintf("altofs.FS{geometry=%+v, pages=%d, checked=%v}", fs.Geometry, len(fs.pages), fs.checked)
}
