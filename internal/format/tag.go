package format

// Tag is one boundary tag word: a block size with the used and
// preceding-used flags packed into the low bits reclaimed by alignment.
//
// The same word appears at the start of every block (the header) and,
// for free blocks only, again in the block's final word (the footer).
// Keeping the codec in one value type keeps the mask arithmetic out of
// the coalescing and splitting logic.
type Tag uint64

// PackTag combines a block size and its status flags into a tag word.
// The size must be a multiple of Alignment; stray low bits are masked.
func PackTag(size uint64, used, precedingUsed bool) Tag {
	t := Tag(size &^ AlignmentMask)
	if used {
		t |= TagUsed
	}
	if precedingUsed {
		t |= TagPrecedingUsed
	}
	return t
}

// Size returns the block size encoded in the tag.
func (t Tag) Size() uint64 {
	return uint64(t) &^ AlignmentMask
}

// Used reports whether the block is allocated.
func (t Tag) Used() bool {
	return t&TagUsed != 0
}

// PrecedingUsed reports whether the block's in-memory predecessor is
// allocated.
func (t Tag) PrecedingUsed() bool {
	return t&TagPrecedingUsed != 0
}

// WithUsed returns the tag with the used flag set to v.
func (t Tag) WithUsed(v bool) Tag {
	if v {
		return t | TagUsed
	}
	return t &^ TagUsed
}

// WithPrecedingUsed returns the tag with the preceding-used flag set
// to v.
func (t Tag) WithPrecedingUsed(v bool) Tag {
	if v {
		return t | TagPrecedingUsed
	}
	return t &^ TagPrecedingUsed
}

// ReadTag reads the tag word at the specified buffer offset.
func ReadTag(b []byte, off int) Tag {
	return Tag(ReadU64(b, off))
}

// PutTag writes the tag word at the specified buffer offset.
func PutTag(b []byte, off int, t Tag) {
	PutU64(b, off, uint64(t))
}
