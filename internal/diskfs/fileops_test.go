package diskfs

import (
	"bytes"
	"testing"
)

// FilesEqual reports whether a and b name files with byte-identical
// contents, read start to end through ordinary read cursors. It does not
// compare metadata (names, timestamps, properties): two hard links to the
// same FileEntry are trivially equal by this measure, as are two distinct
// files that happen to hold the same bytes.
func (fs *FS) FilesEqual(a, b FileEntry) (bool, error) {
	ofA, err := fs.getOpenFile(a, ModeRead, true)
	if err != nil {
		return false, err
	}
	defer fs.CloseRO(ofA)
	ofB, err := fs.getOpenFile(b, ModeRead, true)
	if err != nil {
		return false, err
	}
	defer fs.CloseRO(ofB)

	var bufA, bufB [PageDataSize]byte
	for {
		nA, errA := fs.Read(ofA, bufA[:])
		nB, errB := fs.Read(ofB, bufB[:])
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		if nA == 0 {
			return true, nil
		}
	}
}

func TestFilesEqualComparesContentNotIdentity(t *testing.T) {
	fs := newFormattedFS(t)

	write := func(path string, content []byte) FileEntry {
		t.Helper()
		of, err := fs.Open(path, ModeCreate)
		if err != nil {
			t.Fatalf("Open(%q): %v", path, err)
		}
		if _, err := fs.Write(of, content); err != nil {
			t.Fatalf("Write(%q): %v", path, err)
		}
		if err := fs.Close(of); err != nil {
			t.Fatalf("Close(%q): %v", path, err)
		}
		fe, err := fs.resolveName(path)
		if err != nil {
			t.Fatalf("resolveName(%q): %v", path, err)
		}
		return fe
	}

	content := bytes.Repeat([]byte("alto"), 300)
	a := write("<A", content)
	b := write("<B", content)
	c := write("<C", append(bytes.Clone(content), 'x'))

	eq, err := fs.FilesEqual(a, b)
	if err != nil {
		t.Fatalf("FilesEqual(A, B): %v", err)
	}
	if !eq {
		t.Fatalf("expected A and B to compare equal")
	}

	eq, err = fs.FilesEqual(a, c)
	if err != nil {
		t.Fatalf("FilesEqual(A, C): %v", err)
	}
	if eq {
		t.Fatalf("expected A and C to compare unequal")
	}

	if err := fs.Copy("<A", "<ALink"); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	link, err := fs.resolveName("<ALink")
	if err != nil {
		t.Fatalf("resolveName(ALink): %v", err)
	}
	eq, err = fs.FilesEqual(a, link)
	if err != nil {
		t.Fatalf("FilesEqual(A, ALink): %v", err)
	}
	if !eq {
		t.Fatalf("expected a hard link to compare equal to its target")
	}
}

func TestLastPageHintPropertySurvivesAlongsideGeometryProperty(t *testing.T) {
	fs := newFormattedFS(t)

	of, err := fs.Open("<Grown", ModeCreate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fs.Write(of, bytes.Repeat([]byte{0x7}, 900)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("close: %v", err)
	}
	fe, err := fs.resolveName("<Grown")
	if err != nil {
		t.Fatalf("resolveName: %v", err)
	}
	info, err := fs.getFileInfo(fe)
	if err != nil {
		t.Fatalf("getFileInfo: %v", err)
	}

	pos, found, err := fs.LastPageHintProperty(fe)
	if err != nil {
		t.Fatalf("LastPageHintProperty: %v", err)
	}
	if !found {
		t.Fatalf("expected a type=2 last-page-hint property after closing a multi-page write")
	}
	if pos != info.LastPageHint {
		t.Fatalf("LastPageHintProperty = %+v, want it to match the fixed field %+v", pos, info.LastPageHint)
	}

	sysdir, err := fs.getSysDir()
	if err != nil {
		t.Fatalf("getSysDir: %v", err)
	}
	sysdirInfo, err := fs.getFileInfo(sysdir)
	if err != nil {
		t.Fatalf("getFileInfo(SysDir): %v", err)
	}
	if !sysdirInfo.HasDiskGeometry {
		t.Fatalf("expected SysDir to still carry its geometry property once its last-page hint is updated")
	}
}
