package engine

// PawnEntry stores cached pawn structure evaluation.
type PawnEntry struct {
	Key     uint64
	MgScore int16 // Middlegame score
	EgScore int16 // Endgame score
	valid   bool
}

// PawnTable caches pawn structure terms keyed by the pawn-only Zobrist key.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64
}

// NewPawnTable creates a new pawn hash table with the given size in MB.
func NewPawnTable(sizeMB int) *PawnTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	size := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / 16)
	return &PawnTable{
		entries: make([]PawnEntry, size),
		mask:    size - 1,
	}
}

// Probe looks up the pawn terms for key.
func (pt *PawnTable) Probe(key uint64) (mg, eg int, found bool) {
	entry := &pt.entries[key&pt.mask]
	if entry.valid && entry.Key == key {
		return int(entry.MgScore), int(entry.EgScore), true
	}
	return 0, 0, false
}

// Store saves the pawn terms for key.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	pt.entries[key&pt.mask] = PawnEntry{Key: key, MgScore: int16(mg), EgScore: int16(eg), valid: true}
}

// Clear clears the pawn hash table.
func (pt *PawnTable) Clear() {
	for i := range pt.entries {
		pt.entries[i] = PawnEntry{}
	}
}
