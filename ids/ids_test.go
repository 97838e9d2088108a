package ids

import "testing"

func TestTileIDFileNameRoundTrip(t *testing.T) {
	cases := []TileID{
		NewTileID(0, 0),
		NewTileID(5, -3),
		NewTileID(-100, 100),
	}
	for _, id := range cases {
		name := id.FileName()
		parsed, ok := ParseTileFileName(name)
		if !ok {
			t.Fatalf("ParseTileFileName(%q) reported not ok", name)
		}
		if parsed != id {
			t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, id)
		}
	}
}

func TestParseTileFileNameRejectsGarbage(t *testing.T) {
	for _, name := range []string{
		"tile.tile",
		"x1_y2.txt",
		"x1.tile",
		"xa_yb.tile",
		"y1_x2.tile",
	} {
		if _, ok := ParseTileFileName(name); ok {
			t.Fatalf("ParseTileFileName(%q) unexpectedly succeeded", name)
		}
	}
}

func TestAssetIDString(t *testing.T) {
	a := NewAssetID("core", "rock_01")
	if got, want := a.String(), "core:rock_01"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
