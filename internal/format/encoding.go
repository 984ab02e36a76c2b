package format

import "encoding/binary"

// Binary encoding utilities for little-endian words on the arena.
//
// Tag words and free-list links live inside the managed byte region
// itself, so all reads and writes go through these helpers rather than
// pointer casts. encoding/binary.LittleEndian is inlined by the
// compiler; there is no measurable benefit to unsafe alternatives.

// PutU64 writes a uint64 value to the buffer at the specified offset in
// little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset
// in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
