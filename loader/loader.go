// Package loader reads and writes LunaCore's binary format: a flat stream
// of 16-bit words serialized little-endian, with no header, relocations,
// or symbols (spec.md §6).
package loader

import (
	"encoding/binary"
	"fmt"
	"os"
)

// MaxDataImage is the size of the data RAM a preload image may not exceed.
const MaxDataImage = 65536

// LoadProgram reads path as a LunaCore binary and decodes it into a slice
// of instruction-memory words. The file size must be even; an odd-sized
// file cannot be a whole number of 16-bit words.
func LoadProgram(path string) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return DecodeProgram(data)
}

// DecodeProgram turns a little-endian byte stream into instruction words.
func DecodeProgram(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("loader: odd-sized binary (%d bytes), must be a whole number of words", len(data))
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return words, nil
}

// EncodeProgram serializes instruction-memory words into the on-disk
// little-endian byte format.
func EncodeProgram(words []uint16) []byte {
	data := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(data[2*i:], w)
	}
	return data
}

// WriteProgram assembles words into LunaCore's binary format and writes it
// to path.
func WriteProgram(path string, words []uint16) error {
	if err := os.WriteFile(path, EncodeProgram(words), 0o644); err != nil {
		return fmt.Errorf("loader: write %s: %w", path, err)
	}
	return nil
}

// LoadDataImage reads path as a data-RAM preload image: the same
// little-endian byte sequence, meant to be copied into dmem starting at
// address 0. It is an error for the image to exceed the 65536-byte data
// address space (spec.md §6).
func LoadDataImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	if len(data) > MaxDataImage {
		return nil, fmt.Errorf("loader: data image is %d bytes, exceeds %d-byte data memory", len(data), MaxDataImage)
	}
	return data, nil
}
