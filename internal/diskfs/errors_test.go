package diskfs

import "testing"

func TestErrorFormatsWithAndWithoutMessage(t *testing.T) {
	bare := &Error{Code: DiskFull}
	if bare.Error() != "disk full" {
		t.Fatalf("bare.Error() = %q, want %q", bare.Error(), "disk full")
	}

	withMsg := newError(FileNotFound, "%q not found", "Foo")
	want := `file not found: "Foo" not found`
	if withMsg.Error() != want {
		t.Fatalf("withMsg.Error() = %q, want %q", withMsg.Error(), want)
	}
}
