package diskfs

import "testing"

func TestAddressCodecRoundTrip(t *testing.T) {
	g := Geometry{NumDisks: 1, NumCylinders: 203, NumHeads: 2, NumSectors: 12, SectorWords: 256}
	if !g.Valid() {
		t.Fatalf("expected geometry to be valid")
	}
	if got, want := g.TotalPages(), 203*2*12; got != want {
		t.Fatalf("TotalPages() = %d, want %d", got, want)
	}

	for vda := 0; vda < g.TotalPages(); vda++ {
		rda, ok := VirtualToReal(g, uint16(vda))
		if !ok {
			t.Fatalf("VirtualToReal(%d) failed", vda)
		}
		back, ok := RealToVirtual(g, rda)
		if !ok {
			t.Fatalf("RealToVirtual(%d) failed for vda %d", rda, vda)
		}
		if back != uint16(vda) {
			t.Fatalf("round trip mismatch: vda=%d rda=%d back=%d", vda, rda, back)
		}
	}
}

func TestRealToVirtualRejectsOddRDA(t *testing.T) {
	g := Geometry{NumDisks: 1, NumCylinders: 203, NumHeads: 2, NumSectors: 12, SectorWords: 256}
	if _, ok := RealToVirtual(g, 1); ok {
		t.Fatalf("expected odd rda to be rejected")
	}
}

func TestGeometryValidBounds(t *testing.T) {
	cases := []struct {
		name string
		g    Geometry
		want bool
	}{
		{"zero disks", Geometry{NumDisks: 0, NumCylinders: 1, NumHeads: 1, NumSectors: 1}, false},
		{"too many disks", Geometry{NumDisks: 3, NumCylinders: 1, NumHeads: 1, NumSectors: 1}, false},
		{"cylinders at limit", Geometry{NumDisks: 1, NumCylinders: 512, NumHeads: 1, NumSectors: 1}, false},
		{"sectors too many", Geometry{NumDisks: 1, NumCylinders: 1, NumHeads: 1, NumSectors: 16}, false},
		{"minimal valid", Geometry{NumDisks: 1, NumCylinders: 1, NumHeads: 1, NumSectors: 1}, true},
	}
	for _, c := range cases {
		if got := c.g.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestAltoTimeRoundTrip(t *testing.T) {
	var buf [8]byte
	want := ReadAltoTime(buf[:], 0) // epoch zero, i.e. altoTimeMagic
	WriteAltoTime(buf[:], 0, want)
	got := ReadAltoTime(buf[:], 0)
	if !got.Equal(want) {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}
