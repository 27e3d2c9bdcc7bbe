package engine

// History is the list of position hashes from the start of the game up to
// and including the current position.
type History struct {
	hashes []uint64
}

// NewHistory creates a history seeded with the given hashes.
func NewHistory(hashes ...uint64) *History {
	h := &History{hashes: make([]uint64, 0, len(hashes)+MaxPly)}
	h.hashes = append(h.hashes, hashes...)
	return h
}

// Push appends the hash of the position just reached.
func (h *History) Push(hash uint64) {
	h.hashes = append(h.hashes, hash)
}

// Pop removes the most recent hash.
func (h *History) Pop() {
	if len(h.hashes) > 0 {
		h.hashes = h.hashes[:len(h.hashes)-1]
	}
}

// Len returns the number of stored hashes.
func (h *History) Len() int {
	return len(h.hashes)
}

// Last returns the most recent hash, or 0 when empty.
func (h *History) Last() uint64 {
	if len(h.hashes) == 0 {
		return 0
	}
	return h.hashes[len(h.hashes)-1]
}

// Clone returns an independent copy.
func (h *History) Clone() *History {
	return NewHistory(h.hashes...)
}

// Hashes returns a copy of the stored hashes.
func (h *History) Hashes() []uint64 {
	return append([]uint64(nil), h.hashes...)
}

// Occurrences counts how often the current position appeared, itself
// included. Only every second entry is compared since the side to move
// alternates.
func (h *History) Occurrences() int {
	n := len(h.hashes)
	if n == 0 {
		return 0
	}
	current := h.hashes[n-1]
	count := 0
	for i := n - 1; i >= 0; i -= 2 {
		if h.hashes[i] == current {
			count++
		}
	}
	return count
}

// IsRepetition reports whether the current position has occurred three times.
func (h *History) IsRepetition() bool {
	return h.Occurrences() >= 3
}
