package diskfs

import (
	"bytes"
	"testing"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	fs := newFormattedFS(t)

	of, err := fs.Open("<TestFile", ModeCreate)
	if err != nil {
		t.Fatalf("Open create: %v", err)
	}
	payload := bytes.Repeat([]byte("abcdefgh"), 100) // 800 bytes, spans multiple pages
	if _, err := fs.Write(of, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ro, err := fs.Open("<TestFile", ModeRead)
	if err != nil {
		t.Fatalf("Open read: %v", err)
	}
	defer fs.CloseRO(ro)
	got := make([]byte, len(payload))
	n, err := fs.Read(ro, got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("Read returned %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round-tripped content mismatch")
	}

	// reading past EOF returns fewer bytes, not an error
	extra := make([]byte, 16)
	n, err = fs.Read(ro, extra)
	if err != nil {
		t.Fatalf("Read at eof: %v", err)
	}
	if n != 0 {
		t.Fatalf("Read at eof returned %d bytes, want 0", n)
	}
}

func TestWriteThenTruncateShrinksChain(t *testing.T) {
	fs := newFormattedFS(t)

	of, err := fs.Open("<TruncMe", ModeCreate)
	if err != nil {
		t.Fatalf("Open create: %v", err)
	}
	payload := bytes.Repeat([]byte{0x42}, 700)
	if _, err := fs.Write(of, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err := fs.Stat("<TruncMe")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Length != 700 {
		t.Fatalf("Length = %d, want 700", info.Length)
	}

	rw, err := fs.Open("<TruncMe", ModeReadWrite)
	if err != nil {
		t.Fatalf("Open read-write: %v", err)
	}
	var buf [300]byte
	if _, err := fs.Read(rw, buf[:]); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := fs.Truncate(rw); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if err := fs.Close(rw); err != nil {
		t.Fatalf("Close: %v", err)
	}

	info, err = fs.Stat("<TruncMe")
	if err != nil {
		t.Fatalf("Stat after truncate: %v", err)
	}
	if info.Length != 300 {
		t.Fatalf("Length after truncate = %d, want 300", info.Length)
	}
}

func TestReadOnlyCursorRejectsWrite(t *testing.T) {
	fs := newFormattedFS(t)
	of, err := fs.Open("<RO", ModeCreate)
	if err != nil {
		t.Fatalf("Open create: %v", err)
	}
	if _, err := fs.Write(of, []byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(of); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ro, err := fs.Open("<RO", ModeRead)
	if err != nil {
		t.Fatalf("Open read: %v", err)
	}
	defer fs.CloseRO(ro)
	if _, err := fs.Write(ro, []byte("x")); err == nil {
		t.Fatalf("expected write on read-only cursor to fail")
	}
}

func TestOpenMissingFileWithoutCreateFails(t *testing.T) {
	fs := newFormattedFS(t)
	if _, err := fs.Open("<NoSuchFile", ModeRead); err == nil {
		t.Fatalf("expected open of missing file to fail")
	}
}
