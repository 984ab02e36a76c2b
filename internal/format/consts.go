package format

// Block layout constants for the boundary-tag heap format.
//
// Every block starts with a one-word header tag. Used blocks carry the
// payload immediately after the header and nothing else. Free blocks
// carry the two free-list link words after the header and mirror the
// header into a trailing footer word, so the preceding block can be
// located from its end during coalescing.

const (
	// WordSize is the width in bytes of a tag word and of a stored ref.
	WordSize = 8

	// Alignment is the unit all block sizes are rounded to. Because
	// sizes are always Alignment multiples, the low bits of a tag word
	// are free to hold the status flags.
	Alignment = 8

	// AlignmentMask extracts the flag bits of a tag word.
	AlignmentMask = Alignment - 1

	// TagUsed is bit 0 of a tag word: the block itself is allocated.
	TagUsed = 1 << 0

	// TagPrecedingUsed is bit 1 of a tag word: the block immediately
	// before this one in memory is allocated. It stands in for the
	// footer that used blocks do not store.
	TagPrecedingUsed = 1 << 1

	// MinBlockSize is the smallest legal block: header word, next and
	// prev link words, footer word. Allocation requests are inflated to
	// at least this size.
	MinBlockSize = 4 * WordSize

	// NextOffset is the byte offset of a free block's next-link word,
	// relative to the block header.
	NextOffset = WordSize

	// PrevOffset is the byte offset of a free block's prev-link word,
	// relative to the block header.
	PrevOffset = 2 * WordSize
)

// InvalidRef is the nil value for arena-relative block references,
// stored in link words to terminate the free list.
const InvalidRef = ^uint64(0)
