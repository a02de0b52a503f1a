package flatzip

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestDosTimeDatePacking(t *testing.T) {
	tv, dv := dosTimeDate(time.Date(2019, time.June, 13, 11, 28, 30, 0, time.UTC))
	if want := uint16(30/2 | 28<<5 | 11<<11); tv != want {
		t.Errorf("time = %#04x, want %#04x", tv, want)
	}
	if want := uint16(13 | 6<<5 | (2019-1980)<<9); dv != want {
		t.Errorf("date = %#04x, want %#04x", dv, want)
	}

	// odd seconds truncate down
	tv, _ = dosTimeDate(time.Date(2019, time.June, 13, 0, 0, 59, 0, time.UTC))
	if got := tv & 0x1F; got != 29 {
		t.Errorf("59s packs to %d, want 29", got)
	}
}

func TestDosDateYearWindow(t *testing.T) {
	cases := []struct {
		year     int
		wantBits uint16
	}{
		{1979, 0},
		{1980, 0},
		{2024, (2024 - 1980) << 9},
		{2107, 127 << 9},
		{2108, 0},
	}
	for _, c := range cases {
		_, dv := dosTimeDate(time.Date(c.year, time.March, 5, 1, 2, 3, 0, time.UTC))
		if got := dv & 0xFE00; got != c.wantBits {
			t.Errorf("year %d: year bits %#04x, want %#04x", c.year, got, c.wantBits)
		}
		// day and month encode regardless of the year window
		if got := dv & 0x01FF; got != uint16(5|3<<5) {
			t.Errorf("year %d: day/month bits %#04x, want %#04x", c.year, got, uint16(5|3<<5))
		}
	}
}

func TestLocalHeaderLayout(t *testing.T) {
	e := entryDesc{
		modTime: 0x1234,
		modDate: 0x5678,
		crc:     0xDEADBEEF,
		size:    7,
		name:    "xl/workbook.xml",
	}
	b := e.encodeLocal()
	if len(b) != localHeaderLen+len(e.name) {
		t.Fatalf("header length = %d, want %d", len(b), localHeaderLen+len(e.name))
	}
	le := binary.LittleEndian
	if got := le.Uint32(b[0:]); got != localHeaderSig {
		t.Errorf("signature = %#08x", got)
	}
	if got := le.Uint16(b[4:]); got != zipVersion {
		t.Errorf("extract version = %#04x", got)
	}
	if got := le.Uint16(b[6:]); got != 0 {
		t.Errorf("flags = %#04x", got)
	}
	if got := le.Uint16(b[8:]); got != 0 {
		t.Errorf("method = %#04x", got)
	}
	if got := le.Uint16(b[10:]); got != 0x1234 {
		t.Errorf("mod time = %#04x", got)
	}
	if got := le.Uint16(b[12:]); got != 0x5678 {
		t.Errorf("mod date = %#04x", got)
	}
	if got := le.Uint32(b[14:]); got != 0xDEADBEEF {
		t.Errorf("crc = %#08x", got)
	}
	if got := le.Uint32(b[18:]); got != 7 {
		t.Errorf("compressed size = %d", got)
	}
	if got := le.Uint32(b[22:]); got != 7 {
		t.Errorf("uncompressed size = %d", got)
	}
	if got := le.Uint16(b[26:]); got != uint16(len(e.name)) {
		t.Errorf("name length = %d", got)
	}
	if got := le.Uint16(b[28:]); got != 0 {
		t.Errorf("extra length = %d", got)
	}
	if got := string(b[localHeaderLen:]); got != e.name {
		t.Errorf("name = %q", got)
	}
}

func TestCentralHeaderLayout(t *testing.T) {
	e := entryDesc{
		modTime: 0xAAAA,
		modDate: 0xBBBB,
		crc:     0x01020304,
		size:    99,
		name:    "a.txt",
	}
	b := e.encodeCentral(0x11223344)
	if len(b) != centralHeaderLen+len(e.name) {
		t.Fatalf("record length = %d, want %d", len(b), centralHeaderLen+len(e.name))
	}
	le := binary.LittleEndian
	if got := le.Uint32(b[0:]); got != centralDirSig {
		t.Errorf("signature = %#08x", got)
	}
	if got := le.Uint16(b[4:]); got != zipVersion {
		t.Errorf("version made by = %#04x", got)
	}
	if got := le.Uint16(b[6:]); got != zipVersion {
		t.Errorf("extract version = %#04x", got)
	}
	if got := le.Uint16(b[12:]); got != 0xAAAA {
		t.Errorf("mod time = %#04x", got)
	}
	if got := le.Uint16(b[14:]); got != 0xBBBB {
		t.Errorf("mod date = %#04x", got)
	}
	if got := le.Uint32(b[16:]); got != 0x01020304 {
		t.Errorf("crc = %#08x", got)
	}
	if got, got2 := le.Uint32(b[20:]), le.Uint32(b[24:]); got != 99 || got2 != 99 {
		t.Errorf("sizes = %d, %d, want 99, 99", got, got2)
	}
	if got := le.Uint16(b[28:]); got != uint16(len(e.name)) {
		t.Errorf("name length = %d", got)
	}
	for off := 30; off <= 36; off += 2 {
		if got := le.Uint16(b[off:]); got != 0 {
			t.Errorf("field at offset %d = %#04x, want 0", off, got)
		}
	}
	if got := le.Uint32(b[38:]); got != 0 {
		t.Errorf("external attributes = %#08x", got)
	}
	if got := le.Uint32(b[42:]); got != 0x11223344 {
		t.Errorf("local header offset = %#08x", got)
	}
	if got := string(b[centralHeaderLen:]); got != e.name {
		t.Errorf("name = %q", got)
	}
}

func TestEndRecordLayout(t *testing.T) {
	b := encodeEndRecord(3, 150, 4096)
	if len(b) != endRecordLen {
		t.Fatalf("record length = %d, want %d", len(b), endRecordLen)
	}
	le := binary.LittleEndian
	if got := le.Uint32(b[0:]); got != endRecordSig {
		t.Errorf("signature = %#08x", got)
	}
	if got, got2 := le.Uint16(b[4:]), le.Uint16(b[6:]); got != 0 || got2 != 0 {
		t.Errorf("disk numbers = %d, %d", got, got2)
	}
	if got, got2 := le.Uint16(b[8:]), le.Uint16(b[10:]); got != 3 || got2 != 3 {
		t.Errorf("entry counts = %d, %d, want 3, 3", got, got2)
	}
	if got := le.Uint32(b[12:]); got != 150 {
		t.Errorf("directory size = %d", got)
	}
	if got := le.Uint32(b[16:]); got != 4096 {
		t.Errorf("directory offset = %d", got)
	}
	if got := le.Uint16(b[20:]); got != 0 {
		t.Errorf("comment length = %d", got)
	}
}
