package cpu

import (
	"encoding/binary"
)

// Word reads a little-endian 16-bit word from the start of b.
func Word(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// PutWord stores w little-endian at the start of b.
func PutWord(b []byte, w uint16) {
	binary.LittleEndian.PutUint16(b, w)
}

// WordsToBytes converts a slice of 16-bit words to a little-endian byte slice.
func WordsToBytes(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(out[i*2:], w)
	}
	return out
}

// BytesToWords interprets bytes as little-endian 16-bit words.
// If an odd number of bytes is passed, the final byte is padded with 0.
func BytesToWords(b []byte) []uint16 {
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out
}
