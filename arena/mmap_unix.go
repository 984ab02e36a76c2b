//go:build linux || darwin

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapArena is an arena backed by an anonymous memory mapping.
//
// The full reservation is mapped PROT_NONE up front so the region never
// moves; Grow commits pages with mprotect as the arena expands. Block
// offsets therefore stay valid for the lifetime of the arena, and
// touching memory past the committed watermark faults instead of
// silently corrupting.
type MmapArena struct {
	data      []byte // full reservation
	size      int    // bytes handed out via Grow
	committed int    // page-aligned committed watermark
	pageSize  int
}

// NewMmap reserves an anonymous mapping of at least reserve bytes and
// returns an arena over it. The reservation is an address-space cap,
// not a memory commitment; pages are committed on Grow.
func NewMmap(reserve int) (*MmapArena, error) {
	pageSize := unix.Getpagesize()
	if reserve <= 0 {
		return nil, fmt.Errorf("arena: non-positive reservation %d", reserve)
	}
	reserve = (reserve + pageSize - 1) &^ (pageSize - 1)

	data, err := unix.Mmap(
		-1,
		0,
		reserve,
		unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", reserve, err)
	}

	return &MmapArena{
		data:     data,
		pageSize: pageSize,
	}, nil
}

// PageSize returns the OS page size.
func (m *MmapArena) PageSize() int { return m.pageSize }

// Size returns the current arena size in bytes.
func (m *MmapArena) Size() int { return m.size }

// Bytes returns the live committed region. Invalidated by Grow.
func (m *MmapArena) Bytes() []byte { return m.data[:m.size] }

// Grow commits enough pages to extend the arena by n bytes and returns
// the offset where the new region starts. Returns ErrExhausted once the
// reservation is spent.
func (m *MmapArena) Grow(n int) (int, error) {
	if n <= 0 {
		return m.size, nil
	}
	newSize := m.size + n
	if newSize > len(m.data) {
		return 0, ErrExhausted
	}

	commitEnd := (newSize + m.pageSize - 1) &^ (m.pageSize - 1)
	if commitEnd > len(m.data) {
		commitEnd = len(m.data)
	}
	if commitEnd > m.committed {
		if err := unix.Mprotect(
			m.data[m.committed:commitEnd],
			unix.PROT_READ|unix.PROT_WRITE,
		); err != nil {
			return 0, fmt.Errorf("arena: commit %d bytes: %w", commitEnd-m.committed, err)
		}
		m.committed = commitEnd
	}

	start := m.size
	m.size = newSize
	return start, nil
}

// Release unmaps the reservation.
func (m *MmapArena) Release() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.size = 0
	m.committed = 0
	return err
}
