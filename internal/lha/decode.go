package lha

import (
	"errors"
	"fmt"
)

// Decoder for the static-Huffman LZSS scheme shared by the -lh4- through
// -lh7- methods. The stream is a sequence of blocks; each block carries a
// 16-bit symbol count and three Huffman tables (code-length table, literal/
// match-length table, match-offset table) followed by the coded symbols.
// Symbols below 256 are literals, the rest encode a match length; a match is
// followed by an offset code. Only the history window size differs between
// the methods.

const (
	maxMatch  = 256
	threshold = 3

	// numCodes covers 256 literals plus the match lengths 3..256.
	numCodes = 256 + maxMatch - threshold + 1

	// numTempCodes is the alphabet of the code-length (temp) table.
	numTempCodes = 19

	codeLenBits = 9 // bits holding the literal table length
	tempLenBits = 5 // bits holding the temp table length
	maxCodeLen  = 16
)

var errCorrupt = errors.New("corrupt compressed data")

// decode decompresses src into a buffer of origSize bytes using the given
// history window size in bits (12 for -lh4-, 13 for -lh5-, 15 for -lh6-,
// 16 for -lh7-).
func decode(src []byte, origSize, windowBits int) ([]byte, error) {
	if origSize == 0 {
		return nil, nil
	}

	numOffsets := windowBits + 1
	offsetLenBits := 4
	if windowBits > 13 {
		offsetLenBits = 5
	}

	br := newBitReader(src)
	out := make([]byte, 0, origSize)

	var codeTree, offsetTree *huffTree
	blockRemaining := 0

	for len(out) < origSize {
		if blockRemaining == 0 {
			n, err := br.readBits(16)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, errCorrupt
			}
			blockRemaining = n

			tempTree, err := readTempTable(br)
			if err != nil {
				return nil, err
			}
			codeTree, err = readCodeTable(br, tempTree)
			if err != nil {
				return nil, err
			}
			offsetTree, err = readOffsetTable(br, numOffsets, offsetLenBits)
			if err != nil {
				return nil, err
			}
		}
		blockRemaining--

		c, err := codeTree.decode(br)
		if err != nil {
			return nil, err
		}

		if c < 256 {
			out = append(out, byte(c))
			continue
		}

		length := c - 256 + threshold
		offset, err := decodeOffset(br, offsetTree)
		if err != nil {
			return nil, err
		}

		pos := len(out) - offset - 1
		if pos < 0 {
			return nil, errCorrupt
		}
		for i := 0; i < length && len(out) < origSize; i++ {
			out = append(out, out[pos+i])
		}
	}

	return out, nil
}

// decodeOffset reads a match offset: the Huffman code gives the bit width,
// the remaining bits follow raw.
func decodeOffset(br *bitReader, tree *huffTree) (int, error) {
	p, err := tree.decode(br)
	if err != nil {
		return 0, err
	}
	if p <= 1 {
		return p, nil
	}
	extra, err := br.readBits(p - 1)
	if err != nil {
		return 0, err
	}
	return (1 << (p - 1)) + extra, nil
}

// readTempTable reads the code-length table used to decode the literal
// table. After the third length a 2-bit zero-run count follows.
func readTempTable(br *bitReader) (*huffTree, error) {
	n, err := br.readBits(tempLenBits)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		c, err := br.readBits(tempLenBits)
		if err != nil {
			return nil, err
		}
		return singletonTree(c), nil
	}
	if n > numTempCodes {
		n = numTempCodes
	}

	lengths := make([]int, numTempCodes)
	for i := 0; i < n; {
		l, err := readVarLength(br)
		if err != nil {
			return nil, err
		}
		lengths[i] = l
		i++

		if i == 3 {
			skip, err := br.readBits(2)
			if err != nil {
				return nil, err
			}
			i += skip
		}
	}

	return buildTree(lengths)
}

// readCodeTable reads the literal/length table, whose lengths are themselves
// coded with the temp table plus three zero-run symbols.
func readCodeTable(br *bitReader, temp *huffTree) (*huffTree, error) {
	n, err := br.readBits(codeLenBits)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		c, err := br.readBits(codeLenBits)
		if err != nil {
			return nil, err
		}
		return singletonTree(c), nil
	}
	if n > numCodes {
		n = numCodes
	}

	lengths := make([]int, numCodes)
	for i := 0; i < n; {
		c, err := temp.decode(br)
		if err != nil {
			return nil, err
		}

		switch {
		case c == 0:
			i++
		case c == 1:
			skip, err := br.readBits(4)
			if err != nil {
				return nil, err
			}
			i += skip + 3
		case c == 2:
			skip, err := br.readBits(9)
			if err != nil {
				return nil, err
			}
			i += skip + 20
		default:
			if i < numCodes {
				lengths[i] = c - 2
			}
			i++
		}
	}

	return buildTree(lengths)
}

// readOffsetTable reads the match-offset table.
func readOffsetTable(br *bitReader, numOffsets, lenBits int) (*huffTree, error) {
	n, err := br.readBits(lenBits)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		c, err := br.readBits(lenBits)
		if err != nil {
			return nil, err
		}
		return singletonTree(c), nil
	}
	if n > numOffsets {
		n = numOffsets
	}

	lengths := make([]int, numOffsets)
	for i := 0; i < n; i++ {
		l, err := readVarLength(br)
		if err != nil {
			return nil, err
		}
		lengths[i] = l
	}

	return buildTree(lengths)
}

// readVarLength reads a 3-bit code length; the value 7 is extended by one
// for every continuation bit that follows.
func readVarLength(br *bitReader) (int, error) {
	l, err := br.readBits(3)
	if err != nil {
		return 0, err
	}
	if l != 7 {
		return l, nil
	}
	for {
		b, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return l, nil
		}
		l++
		if l > maxCodeLen {
			return 0, errCorrupt
		}
	}
}

// huffTree decodes canonical Huffman codes bit by bit. A singleton tree
// (every input symbol had length zero or the table was collapsed to one
// value) yields its symbol without consuming bits.
type huffTree struct {
	single int // symbol, when >= 0 the tree is a singleton
	left   []int16
	right  []int16
	symbol []int16
}

func singletonTree(symbol int) *huffTree {
	return &huffTree{single: symbol}
}

// buildTree assigns canonical codes (shorter codes first, ties broken by
// symbol order) and lays them out as a binary trie.
func buildTree(lengths []int) (*huffTree, error) {
	count := make([]int, maxCodeLen+1)
	numSymbols := 0
	lastSymbol := 0
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if l > maxCodeLen {
			return nil, errCorrupt
		}
		count[l]++
		numSymbols++
		lastSymbol = sym
	}
	if numSymbols == 0 {
		return nil, errCorrupt
	}
	if numSymbols == 1 {
		return singletonTree(lastSymbol), nil
	}

	nextCode := make([]int, maxCodeLen+2)
	code := 0
	for l := 1; l <= maxCodeLen; l++ {
		nextCode[l] = code
		code = (code + count[l]) << 1
	}

	t := &huffTree{
		single: -1,
		left:   []int16{-1},
		right:  []int16{-1},
		symbol: []int16{-1},
	}

	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if err := t.insert(sym, nextCode[l], l); err != nil {
			return nil, err
		}
		nextCode[l]++
	}

	return t, nil
}

func (t *huffTree) insert(sym, code, length int) error {
	node := 0
	for bit := length - 1; bit >= 0; bit-- {
		if t.symbol[node] >= 0 {
			return errCorrupt // prefix clash
		}

		takeRight := code>>bit&1 == 1

		var next int16
		if takeRight {
			next = t.right[node]
		} else {
			next = t.left[node]
		}
		if next < 0 {
			next = int16(len(t.left))
			t.left = append(t.left, -1)
			t.right = append(t.right, -1)
			t.symbol = append(t.symbol, -1)
			if takeRight {
				t.right[node] = next
			} else {
				t.left[node] = next
			}
		}
		node = int(next)
	}

	if t.symbol[node] >= 0 || t.left[node] >= 0 || t.right[node] >= 0 {
		return errCorrupt
	}
	t.symbol[node] = int16(sym)
	return nil
}

func (t *huffTree) decode(br *bitReader) (int, error) {
	if t.single >= 0 {
		return t.single, nil
	}

	node := 0
	for {
		if t.symbol[node] >= 0 {
			return int(t.symbol[node]), nil
		}

		b, err := br.readBits(1)
		if err != nil {
			return 0, err
		}

		var next int16
		if b == 1 {
			next = t.right[node]
		} else {
			next = t.left[node]
		}
		if next < 0 {
			return 0, errCorrupt
		}
		node = int(next)
	}
}

// bitReader reads a big-endian (MSB first) bit stream.
type bitReader struct {
	data []byte
	pos  int
	buf  uint32
	bits int
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (br *bitReader) readBits(n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	for br.bits < n {
		if br.pos >= len(br.data) {
			return 0, fmt.Errorf("%w: unexpected end of stream", errCorrupt)
		}
		br.buf = br.buf<<8 | uint32(br.data[br.pos])
		br.pos++
		br.bits += 8
	}

	v := int(br.buf >> (br.bits - n) & (1<<n - 1))
	br.bits -= n
	return v, nil
}
