package diskfs

import "testing"

func TestDirectoryCompactionIsIdempotent(t *testing.T) {
	fs := newFormattedFS(t)

	for _, name := range []string{"One", "Two", "Three"} {
		of, err := fs.Open("<"+name, ModeCreate)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if err := fs.Close(of); err != nil {
			t.Fatalf("close %s: %v", name, err)
		}
	}

	sysdir, err := fs.getSysDir()
	if err != nil {
		t.Fatalf("getSysDir: %v", err)
	}

	used1, empty1, err := fs.compressDirectory(sysdir)
	if err != nil {
		t.Fatalf("compressDirectory (1st): %v", err)
	}
	used2, empty2, err := fs.compressDirectory(sysdir)
	if err != nil {
		t.Fatalf("compressDirectory (2nd): %v", err)
	}
	if used1 != used2 {
		t.Fatalf("used words changed across idempotent compaction: %d vs %d", used1, used2)
	}
	if empty1 != empty2 {
		t.Fatalf("empty words changed across idempotent compaction: %d vs %d", empty1, empty2)
	}

	entries, err := fs.ListDirectory("<")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	names := map[string]bool{}
	for _, de := range entries {
		names[de.Name] = true
	}
	for _, want := range []string{"One", "Two", "Three", "DiskDescriptor"} {
		if !names[want] {
			t.Errorf("missing directory entry %q after compaction, got %+v", want, entries)
		}
	}
}

func TestCopyRejectsDuplicateName(t *testing.T) {
	fs := newFormattedFS(t)
	of, err := fs.Open("<Dup", ModeCreate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := fs.Open("<Dup", ModeCreate)
	if err != nil {
		// ModeCreate on an existing file truncates rather than failing;
		// creating a *second* distinct entry of the same name is what
		// must fail, exercised via Copy below.
		t.Fatalf("re-opening existing file with ModeCreate should truncate, not error: %v", err)
	}
	if err := fs.Close(reopened); err != nil {
		t.Fatalf("close reopened: %v", err)
	}

	if err := fs.Copy("<Dup", "<Dup"); err == nil {
		t.Fatalf("expected copy onto an existing name to fail")
	}
}
