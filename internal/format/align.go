package format

// Alignment utilities for the block format. All block sizes and refs
// must be multiples of the alignment unit so the low bits of every tag
// word stay available for flags.

// AlignUp returns n rounded up to the next Alignment boundary.
//
// Example:
//
//	AlignUp(1)  = 8
//	AlignUp(8)  = 8
//	AlignUp(9)  = 16
func AlignUp(n uint64) uint64 {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown returns n rounded down to the previous Alignment boundary.
func AlignDown(n uint64) uint64 {
	return n &^ AlignmentMask
}

// Aligned reports whether n is a multiple of the alignment unit.
func Aligned(n uint64) bool {
	return n&AlignmentMask == 0
}
