//go:build !(linux || darwin)

package arena

import "os"

// MmapArena falls back to a capped slice arena on platforms without the
// anonymous-mapping backend. The reservation becomes a hard growth cap
// so ErrExhausted behaves identically everywhere.
type MmapArena struct {
	*SliceArena
}

// NewMmap returns a slice-backed arena capped at reserve bytes.
func NewMmap(reserve int) (*MmapArena, error) {
	return &MmapArena{
		SliceArena: NewSliceWithLimit(os.Getpagesize(), reserve),
	}, nil
}
