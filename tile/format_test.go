package tile

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		ContainerVersion: ContainerVersion,
		TileX:            -7,
		TileY:            42,
		RegionHash:       0xdeadbeefcafef00d,
		WorldSpecHash:    0x1122334455667788,
		SectionCount:     3,
		SectionDirOffset: 128,
		CreatedTimestamp: 1_700_000_000,
	}
	b := h.ToBytes()
	got, err := HeaderFromBytes(b[:])
	if err != nil {
		t.Fatalf("HeaderFromBytes: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHeaderFromBytesRejectsBadMagic(t *testing.T) {
	var b [HeaderSize]byte
	copy(b[0:4], []byte("NOPE"))
	if _, err := HeaderFromBytes(b[:]); err == nil {
		t.Fatal("expected an error for invalid magic")
	}
}

func TestDirEntryRoundTrip(t *testing.T) {
	e := DirEntry{
		Tag:            TagHMAP,
		SectionVersion: 1,
		Codec:          uint16(CodecLZ4),
		Offset:         192,
		StoredLen:      1024,
		DecodedLen:     4096,
		CRC32:          0xcafebabe,
	}
	b := e.ToBytes()
	got, err := DirEntryFromBytes(b[:])
	if err != nil {
		t.Fatalf("DirEntryFromBytes: %v", err)
	}
	if got != e {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestCanonicalTagOrder(t *testing.T) {
	tags := []SectionTag{TagADDX, TagPROP, TagMETA, TagLIQD, TagHMAP, TagSPLN, TagWMAP}
	want := []SectionTag{TagMETA, TagHMAP, TagWMAP, TagLIQD, TagPROP, TagSPLN, TagADDX}

	for i := range tags {
		for j := range tags {
			a, b := tags[i], tags[j]
			wantLess := indexOf(want, a) < indexOf(want, b)
			gotLess := CompareTags(a, b) < 0
			if a != b && wantLess != gotLess {
				t.Fatalf("CompareTags(%s, %s): got less=%v, want %v", a, b, gotLess, wantLess)
			}
		}
	}
}

func indexOf(tags []SectionTag, t SectionTag) int {
	for i, v := range tags {
		if v == t {
			return i
		}
	}
	return -1
}

func TestIsASCIITag(t *testing.T) {
	if !TagMETA.IsASCIITag() {
		t.Fatal("META should be a valid ASCII tag")
	}
	weird := TagFromString("a_1!")
	if weird.IsASCIITag() {
		t.Fatal("lowercase/punctuation tag should not be ASCII-valid")
	}
}

func TestAlignmentPadding(t *testing.T) {
	cases := []struct {
		offset, alignment, want uint64
	}{
		{0, 64, 0},
		{64, 64, 0},
		{65, 64, 63},
		{100, 64, 28},
	}
	for _, c := range cases {
		if got := AlignmentPadding(c.offset, c.alignment); got != c.want {
			t.Fatalf("AlignmentPadding(%d, %d) = %d, want %d", c.offset, c.alignment, got, c.want)
		}
	}
}
