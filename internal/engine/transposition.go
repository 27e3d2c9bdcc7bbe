package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTNone       TTFlag = iota
	TTExact             // Exact score
	TTLowerBound        // Failed high (beta cutoff)
	TTUpperBound        // Failed low
)

// String returns the bound name.
func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	}
	return "none"
}

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint64     // Full Zobrist hash, compared on probe
	BestMove board.Move // Best move found
	Score    float64    // Score, mate distances relative to the stored node
	Depth    int16      // Search depth
	Flag     TTFlag     // Type of bound
	Age      uint8      // Search generation
}

// TTStats counts table traffic since the last Clear.
type TTStats struct {
	Probes     uint64
	Hits       uint64
	Stores     uint64
	Collisions uint64 // probes where the slot held another key
}

// TranspositionTable is a hash table for storing search results.
// It is not safe for concurrent use; concurrent searches need their own table.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8
	stats   TTStats
}

const ttEntrySize = 48

// NewTranspositionTable creates a transposition table of roughly sizeMB
// megabytes, rounded down to a power-of-two slot count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / ttEntrySize)
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position. The slot is hash & (size-1); an entry for a
// different key in the slot counts as a collision and is reported as a miss.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.stats.Probes++
	entry := tt.entries[hash&tt.mask]
	if entry.Flag == TTNone {
		return TTEntry{}, false
	}
	if entry.Key != hash {
		tt.stats.Collisions++
		return TTEntry{}, false
	}
	tt.stats.Hits++
	return entry, true
}

// Store saves a search result. An entry from the current search is only
// replaced by one at least as deep; entries from older searches always yield.
func (tt *TranspositionTable) Store(hash uint64, depth int, score float64, flag TTFlag, bestMove board.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Flag != TTNone && entry.Age == tt.age && entry.Key != hash && depth < int(entry.Depth) {
		return
	}
	if entry.Key == hash && entry.Age == tt.age && depth < int(entry.Depth) {
		return
	}
	tt.stats.Stores++
	*entry = TTEntry{
		Key:      hash,
		BestMove: bestMove,
		Score:    score,
		Depth:    int16(depth),
		Flag:     flag,
		Age:      tt.age,
	}
}

// NewSearch advances the generation used for replacement decisions.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear empties the table and resets the counters.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.stats = TTStats{}
}

// HashFull returns the permille of sampled slots filled in this generation.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Flag != TTNone && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.stats.Probes == 0 {
		return 0
	}
	return float64(tt.stats.Hits) / float64(tt.stats.Probes) * 100
}

// Stats returns the traffic counters.
func (tt *TranspositionTable) Stats() TTStats {
	return tt.stats
}

// Size returns the number of slots.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT converts a stored mate score back to distance from the root.
func AdjustScoreFromTT(score float64, ply int) float64 {
	if score > MateBound {
		return score - float64(ply)
	}
	if score < -MateBound {
		return score + float64(ply)
	}
	return score
}

// AdjustScoreToTT converts a mate score to distance from the stored node.
func AdjustScoreToTT(score float64, ply int) float64 {
	if score > MateBound {
		return score + float64(ply)
	}
	if score < -MateBound {
		return score - float64(ply)
	}
	return score
}
