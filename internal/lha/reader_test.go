package lha

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

// level0Entry builds a level-0 header plus stored (-lh0-) payload, the layout
// classic Amiga LhA writes.
func level0Entry(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	return level0EntryMethod(t, name, "-lh0-", data, crc16(data))
}

func level0EntryMethod(t *testing.T, name, method string, data []byte, crc uint16) []byte {
	t.Helper()
	if len(method) != 5 {
		t.Fatalf("method %q must be 5 bytes", method)
	}

	var body bytes.Buffer
	body.WriteString(method)
	binary.Write(&body, binary.LittleEndian, uint32(len(data))) // packed size
	binary.Write(&body, binary.LittleEndian, uint32(len(data))) // original size
	binary.Write(&body, binary.LittleEndian, uint32(0))         // timestamp
	body.WriteByte(0x20)                                        // attribute
	body.WriteByte(0)                                           // header level
	body.WriteByte(byte(len(name)))
	body.WriteString(name)
	binary.Write(&body, binary.LittleEndian, crc)

	sum := 0
	for _, b := range body.Bytes() {
		sum += int(b)
	}

	out := []byte{byte(body.Len()), byte(sum)}
	out = append(out, body.Bytes()...)
	return append(out, data...)
}

func buildArchive(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return append(out, 0x00) // terminator
}

func TestOpen_ListAndRead(t *testing.T) {
	payloadA := []byte("module data for a")
	payloadB := []byte{0x00, 0xff, 0x10, 0x20}

	data := buildArchive(
		level0Entry(t, "Game/a.mod", payloadA),
		level0Entry(t, `Game\sub\b.smp`, payloadB),
	)

	f, err := Open(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := f.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Game/a.mod", `Game\sub\b.smp`}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	got, err := f.Read("Game/a.mod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payloadA) {
		t.Errorf("payload mismatch for a.mod")
	}

	got, err = f.Read(`Game\sub\b.smp`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payloadB) {
		t.Errorf("payload mismatch for b.smp")
	}
}

func TestOpen_DirectoryEntriesNotListed(t *testing.T) {
	data := buildArchive(
		level0EntryMethod(t, "Game", methodDir, nil, 0),
		level0Entry(t, "Game/a.mod", []byte("a")),
	)

	f, err := Open(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, _ := f.List()
	if !reflect.DeepEqual(names, []string{"Game/a.mod"}) {
		t.Errorf("List() = %v, want only the file entry", names)
	}
}

func TestRead_CRCMismatch(t *testing.T) {
	data := buildArchive(level0EntryMethod(t, "a.mod", "-lh0-", []byte("payload"), 0xbeef))

	f, err := Open(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.Read("a.mod"); err == nil {
		t.Error("expected CRC mismatch error")
	}
}

func TestRead_UnsupportedMethod(t *testing.T) {
	data := buildArchive(level0EntryMethod(t, "a.mod", "-lh1-", []byte("x"), 0))

	f, err := Open(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.Read("a.mod"); err == nil {
		t.Error("expected unsupported method error")
	}
}

func TestOpen_HeaderChecksumMismatch(t *testing.T) {
	data := buildArchive(level0Entry(t, "a.mod", []byte("payload")))
	data[1] ^= 0xff // corrupt the header checksum

	if _, err := Open(data); err == nil {
		t.Error("expected header checksum error")
	}
}

func TestOpen_Truncated(t *testing.T) {
	full := buildArchive(level0Entry(t, "a.mod", []byte("payload")))

	for _, cut := range []int{3, 10, len(full) - 5} {
		if _, err := Open(full[:cut]); err == nil {
			t.Errorf("expected error for truncation at %d bytes", cut)
		}
	}
}

func TestOpen_UndersizedHeader(t *testing.T) {
	// A header-size byte smaller than the fixed fields must be rejected, not
	// indexed. This buffer carries the -lh0- marker and a correct checksum,
	// so it survives every earlier check.
	data := make([]byte, 21)
	data[0] = 17
	copy(data[2:], "-lh0-")
	data[20] = 0 // header level

	sum := 0
	for _, b := range data[2 : 2+17] {
		sum += int(b)
	}
	data[1] = byte(sum)

	if _, err := Open(data); err == nil {
		t.Error("expected error for undersized header")
	}
}

func TestOpen_Empty(t *testing.T) {
	if _, err := Open([]byte{0x00}); err == nil {
		t.Error("expected error for terminator-only archive")
	}
}

func TestCRC16(t *testing.T) {
	// CRC-16/ARC check value for "123456789".
	if got := crc16([]byte("123456789")); got != 0xbb3d {
		t.Errorf("crc16 = %04x, want bb3d", got)
	}
	if got := crc16(nil); got != 0 {
		t.Errorf("crc16(nil) = %04x, want 0", got)
	}
}
