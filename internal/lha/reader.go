// Package lha reads LHA/LZH archives: the container format of the Amiga
// module archives hosted on UnExoticA. It understands header levels 0-2 and
// the stored (-lh0-, -lhd-) and static-Huffman (-lh4- .. -lh7-) methods,
// which covers everything classic LhA produces.
//
// The package implements the archive.Reader interface; everything above it
// treats the container format as a black box.
package lha

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Window sizes of the Huffman methods, in bits.
var methodWindowBits = map[string]int{
	"-lh4-": 12,
	"-lh5-": 13,
	"-lh6-": 15,
	"-lh7-": 16,
}

// Stored methods: payload bytes are kept verbatim.
var storedMethods = map[string]bool{
	"-lh0-": true,
	"-lz4-": true,
	"-pm0-": true,
}

const methodDir = "-lhd-"

// Extended header types carrying path information.
const (
	extFilename  = 0x01
	extDirectory = 0x02
)

type entry struct {
	name     string // declared path, as stored (separators not normalized)
	method   string
	packed   []byte
	origSize int
	crc      uint16
	hasCRC   bool
	dir      bool
}

// File is an opened LHA archive.
type File struct {
	entries []*entry
	byName  map[string]*entry
}

// Open parses the archive headers in data. It does not decompress anything;
// payloads are decoded lazily by Read.
func Open(data []byte) (*File, error) {
	f := &File{byName: make(map[string]*entry)}

	pos := 0
	for pos < len(data) {
		// A zero byte where the next header size would be terminates a
		// level 0/1 archive.
		if data[pos] == 0 {
			break
		}
		if pos+21 > len(data) {
			return nil, fmt.Errorf("truncated header at offset %d", pos)
		}

		e, next, err := parseHeader(data, pos)
		if err != nil {
			return nil, err
		}

		f.entries = append(f.entries, e)
		f.byName[e.name] = e
		pos = next
	}

	if len(f.entries) == 0 {
		return nil, errors.New("archive contains no entries")
	}
	return f, nil
}

// List returns the declared paths of all data-bearing entries in archive
// order. Directory-only entries (-lhd-) are omitted.
func (f *File) List() ([]string, error) {
	names := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		if e.dir {
			continue
		}
		names = append(names, e.name)
	}
	return names, nil
}

// Read decompresses and returns the payload of the named entry, verifying
// its CRC when the header carried one.
func (f *File) Read(name string) ([]byte, error) {
	e, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("no such entry: %s", name)
	}
	if e.dir {
		return nil, fmt.Errorf("entry is a directory: %s", name)
	}

	var payload []byte
	switch {
	case storedMethods[e.method]:
		if len(e.packed) < e.origSize {
			return nil, fmt.Errorf("entry %s: stored data truncated", name)
		}
		payload = append([]byte(nil), e.packed[:e.origSize]...)
	default:
		bits, ok := methodWindowBits[e.method]
		if !ok {
			return nil, fmt.Errorf("entry %s: unsupported method %q", name, e.method)
		}
		var err error
		payload, err = decode(e.packed, e.origSize, bits)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", name, err)
		}
	}

	if e.hasCRC {
		if got := crc16(payload); got != e.crc {
			return nil, fmt.Errorf("entry %s: CRC mismatch (got %04x, want %04x)", name, got, e.crc)
		}
	}
	return payload, nil
}

// parseHeader parses one header starting at pos and returns the entry and
// the offset of the next header.
func parseHeader(data []byte, pos int) (*entry, int, error) {
	level := data[pos+20]
	switch level {
	case 0, 1:
		return parseLevel01Header(data, pos, level)
	case 2:
		return parseLevel2Header(data, pos)
	default:
		return nil, 0, fmt.Errorf("unsupported header level %d at offset %d", level, pos)
	}
}

func parseLevel01Header(data []byte, pos int, level byte) (*entry, int, error) {
	headerSize := int(data[pos])
	// The fixed fields through the name length byte plus the CRC take 22
	// bytes; anything shorter cannot be indexed safely.
	if headerSize < 22 {
		return nil, 0, fmt.Errorf("undersized level %d header at offset %d", level, pos)
	}
	if pos+2+headerSize > len(data) {
		return nil, 0, fmt.Errorf("truncated level %d header at offset %d", level, pos)
	}

	sum := 0
	for _, b := range data[pos+2 : pos+2+headerSize] {
		sum += int(b)
	}
	if byte(sum) != data[pos+1] {
		return nil, 0, fmt.Errorf("header checksum mismatch at offset %d", pos)
	}

	e := &entry{
		method:   string(data[pos+2 : pos+7]),
		origSize: int(binary.LittleEndian.Uint32(data[pos+11:])),
	}
	packedSize := int(binary.LittleEndian.Uint32(data[pos+7:]))

	nameLen := int(data[pos+21])
	nameEnd := pos + 22 + nameLen
	if nameEnd+2 > pos+2+headerSize {
		return nil, 0, fmt.Errorf("malformed level %d header at offset %d", level, pos)
	}
	e.name = string(data[pos+22 : nameEnd])
	e.crc = binary.LittleEndian.Uint16(data[nameEnd:])
	e.hasCRC = true

	dataStart := pos + 2 + headerSize

	if level == 1 {
		// The base header ends with the size of the first extended header;
		// the chain that follows is counted against the packed size field.
		extSize := int(binary.LittleEndian.Uint16(data[pos+2+headerSize-2:]))
		for extSize != 0 {
			if dataStart+extSize > len(data) || extSize < 3 {
				return nil, 0, fmt.Errorf("truncated extended header at offset %d", dataStart)
			}
			block := data[dataStart : dataStart+extSize]
			applyExtHeader(e, block[0], block[1:extSize-2])
			dataStart += extSize
			packedSize -= extSize
			extSize = int(binary.LittleEndian.Uint16(block[extSize-2:]))
		}
	}

	if packedSize < 0 || dataStart+packedSize > len(data) {
		return nil, 0, fmt.Errorf("truncated entry data at offset %d", dataStart)
	}
	e.packed = data[dataStart : dataStart+packedSize]
	e.dir = e.method == methodDir

	return e, dataStart + packedSize, nil
}

func parseLevel2Header(data []byte, pos int) (*entry, int, error) {
	totalSize := int(binary.LittleEndian.Uint16(data[pos:]))
	if totalSize < 26 || pos+totalSize > len(data) {
		return nil, 0, fmt.Errorf("truncated level 2 header at offset %d", pos)
	}

	e := &entry{
		method:   string(data[pos+2 : pos+7]),
		origSize: int(binary.LittleEndian.Uint32(data[pos+11:])),
		crc:      binary.LittleEndian.Uint16(data[pos+21:]),
		hasCRC:   true,
	}
	packedSize := int(binary.LittleEndian.Uint32(data[pos+7:]))

	extPos := pos + 24
	extSize := int(binary.LittleEndian.Uint16(data[extPos:]))
	extPos += 2
	for extSize != 0 {
		if extSize < 3 || extPos+extSize > pos+totalSize {
			return nil, 0, fmt.Errorf("truncated extended header at offset %d", extPos)
		}
		block := data[extPos : extPos+extSize]
		applyExtHeader(e, block[0], block[1:extSize-2])
		extPos += extSize
		extSize = int(binary.LittleEndian.Uint16(block[extSize-2:]))
	}

	if e.name == "" {
		return nil, 0, fmt.Errorf("level 2 header without filename at offset %d", pos)
	}

	dataStart := pos + totalSize
	if packedSize < 0 || dataStart+packedSize > len(data) {
		return nil, 0, fmt.Errorf("truncated entry data at offset %d", dataStart)
	}
	e.packed = data[dataStart : dataStart+packedSize]
	e.dir = e.method == methodDir

	return e, dataStart + packedSize, nil
}

// applyExtHeader folds path-related extended headers into the entry. The
// directory header stores components separated by 0xff bytes.
func applyExtHeader(e *entry, typ byte, payload []byte) {
	switch typ {
	case extFilename:
		base := e.name
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[:i+1]
		} else {
			base = ""
		}
		e.name = base + string(payload)
	case extDirectory:
		dir := strings.ReplaceAll(strings.TrimSuffix(string(payload), "\xff"), "\xff", "/")
		base := e.name
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[i+1:]
		}
		e.name = dir + "/" + base
	}
}

// crc16 computes the CRC-16/ARC checksum LHA stores per entry.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ 0xa001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}
