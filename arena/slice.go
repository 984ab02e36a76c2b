package arena

// SliceArena is a portable arena backed by an ordinary byte slice.
//
// Growth appends zeroed bytes; a non-zero limit turns further growth
// past it into ErrExhausted, which makes out-of-memory paths testable
// without exhausting real memory.
type SliceArena struct {
	data     []byte
	pageSize int
	limit    int // 0 = unbounded
}

// NewSlice returns a slice-backed arena with the given page size.
// A pageSize of 0 selects DefaultPageSize.
func NewSlice(pageSize int) *SliceArena {
	return NewSliceWithLimit(pageSize, 0)
}

// NewSliceWithLimit returns a slice-backed arena that refuses to grow
// beyond limit bytes. A limit of 0 means unbounded.
func NewSliceWithLimit(pageSize, limit int) *SliceArena {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SliceArena{
		pageSize: pageSize,
		limit:    limit,
	}
}

// PageSize returns the configured growth granularity.
func (s *SliceArena) PageSize() int { return s.pageSize }

// Size returns the current arena size in bytes.
func (s *SliceArena) Size() int { return len(s.data) }

// Bytes returns the live backing slice. Invalidated by Grow.
func (s *SliceArena) Bytes() []byte { return s.data }

// Grow extends the arena by n zeroed bytes and returns the offset where
// the new region starts.
func (s *SliceArena) Grow(n int) (int, error) {
	if n <= 0 {
		return len(s.data), nil
	}
	if s.limit > 0 && len(s.data)+n > s.limit {
		return 0, ErrExhausted
	}
	start := len(s.data)
	s.data = append(s.data, make([]byte, n)...)
	return start, nil
}

// Release drops the backing slice.
func (s *SliceArena) Release() error {
	s.data = nil
	return nil
}
