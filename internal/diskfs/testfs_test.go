package diskfs

import "testing"

// testGeometry is small enough to keep tests fast but large enough to hold
// a handful of multi-page files alongside SysDir and DiskDescriptor.
func testGeometry() Geometry {
	return Geometry{NumDisks: 1, NumCylinders: 16, NumHeads: 1, NumSectors: 8, SectorWords: 256}
}

func newFormattedFS(t *testing.T) *FS {
	t.Helper()
	fs, err := New(testGeometry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fs.Format(); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !fs.Checked() {
		t.Fatalf("expected formatted filesystem to be checked")
	}
	return fs
}
