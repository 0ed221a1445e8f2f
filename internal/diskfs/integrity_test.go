package diskfs

import "testing"

func TestCheckIntegrityDetectsBrokenLink(t *testing.T) {
	fs := newFormattedFS(t)
	of, err := fs.Open("<Linked", ModeCreate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fs.Write(of, make([]byte, 1000)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := fs.CheckIntegrity(); err != nil {
		t.Fatalf("CheckIntegrity before corruption: %v", err)
	}

	fe, err := fs.resolveName("<Linked")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	// Clear the leader page's forward link (the rda of VDA 0 is 0, the
	// no-link value), so the first data page's back-link is no longer
	// reciprocated.
	fs.pages[fe.LeaderVDA].Label.NextRDA, _ = fs.virtualToReal(0)

	if err := fs.CheckIntegrity(); err == nil {
		t.Fatalf("expected CheckIntegrity to detect the broken reciprocal link")
	}
	if fs.Checked() {
		t.Fatalf("filesystem must not be marked Checked after a failed check")
	}
}

func TestCheckIntegrityDetectsOversizedNBytes(t *testing.T) {
	fs := newFormattedFS(t)
	fs.pages[0].Label.NBytes = PageDataSize + 1

	if err := fs.CheckIntegrity(); err == nil {
		t.Fatalf("expected CheckIntegrity to reject nbytes beyond page size")
	}
}

func TestCheckIntegrityDetectsCorruptPageHeader(t *testing.T) {
	fs := newFormattedFS(t)
	fs.pages[SysDirVDA].Header[1] ^= 1

	if err := fs.CheckIntegrity(); err == nil {
		t.Fatalf("expected CheckIntegrity to detect a page header that disagrees with its own rda")
	}
}

func TestCheckIntegrityReportChecksumReflectsContent(t *testing.T) {
	fs := newFormattedFS(t)
	before, err := fs.CheckIntegrityReport()
	if err != nil {
		t.Fatalf("CheckIntegrityReport: %v", err)
	}

	of, err := fs.Open("<Touched", ModeCreate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fs.Write(of, []byte("content")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("close: %v", err)
	}

	after, err := fs.CheckIntegrityReport()
	if err != nil {
		t.Fatalf("CheckIntegrityReport after write: %v", err)
	}
	if after.PageChecksum == before.PageChecksum {
		t.Fatalf("expected PageChecksum to change after writing new content")
	}
	if after.FreePages >= before.FreePages {
		t.Fatalf("expected FreePages to drop after allocating a new file, before=%d after=%d", before.FreePages, after.FreePages)
	}
}

func TestOperationsRequireCheckedFilesystem(t *testing.T) {
	fs, err := New(testGeometry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := fs.Open("<Anything", ModeCreate); err == nil {
		t.Fatalf("expected Open to fail before the filesystem has been checked")
	}
}
