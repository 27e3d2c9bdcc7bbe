package board

import (
	"context"
	"errors"
	"fmt"
)

// ErrMagicNotFound is returned when FindMagic exhausts its attempt budget.
var ErrMagicNotFound = errors.New("board: no magic found")

// minHighByteBits is the minimum popcount of the top byte of mask*magic.
// Multipliers below it rarely spread the index bits and are skipped untested.
const minHighByteBits = 6

// MagicSearch configures the offline magic multiplier search.
type MagicSearch struct {
	Seed        uint64 // PRNG seed, 0 selects the default
	MaxAttempts int    // Candidate budget per square, 0 means unbounded
}

// FindMagic searches for a collision-free multiplier for sq using an index of
// 64-shift bits. It is slow and meant for cmd/magicgen, never the runtime path.
func (s MagicSearch) FindMagic(ctx context.Context, class SliderClass, sq Square, shift uint8) (uint64, int, error) {
	mask := RelevantMask(class, sq)
	bits := mask.PopCount()
	if 64-int(shift) < bits {
		return 0, 0, fmt.Errorf("board: %s %s needs %d index bits, shift %d allows %d", class, sq, bits, shift, 64-shift)
	}

	n := 1 << bits
	occupancies := make([]Bitboard, n)
	reference := make([]Bitboard, n)
	for i := 0; i < n; i++ {
		occupancies[i] = indexToOccupancy(i, bits, mask)
		reference[i] = SlidingAttacksSlow(class, sq, occupancies[i])
	}

	rng := newPRNG(s.Seed ^ uint64(sq)<<32 ^ uint64(class))
	table := make([]Bitboard, 1<<(64-shift))
	epoch := make([]int, len(table))

	for attempt := 1; s.MaxAttempts == 0 || attempt <= s.MaxAttempts; attempt++ {
		if attempt&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, attempt, err
			}
		}

		magic := rng.sparse()
		if Bitboard((uint64(mask)*magic)&0xFF00000000000000).PopCount() < minHighByteBits {
			continue
		}

		ok := true
		for i := 0; i < n && ok; i++ {
			idx := (uint64(occupancies[i]) * magic) >> shift
			if epoch[idx] != attempt {
				epoch[idx] = attempt
				table[idx] = reference[i]
			} else if table[idx] != reference[i] {
				ok = false
			}
		}
		if ok {
			return magic, attempt, nil
		}
	}
	return 0, s.MaxAttempts, fmt.Errorf("%w: %s %s after %d attempts", ErrMagicNotFound, class, sq, s.MaxAttempts)
}

// ValidateMagic reports whether magic maps every occupancy subset of the
// relevant mask for sq to a slot without a destructive collision.
func ValidateMagic(class SliderClass, sq Square, magic uint64, shift uint8) error {
	mask := RelevantMask(class, sq)
	bits := mask.PopCount()
	seen := make(map[uint64]Bitboard, 1<<bits)
	for i := 0; i < 1<<bits; i++ {
		occ := indexToOccupancy(i, bits, mask)
		attacks := SlidingAttacksSlow(class, sq, occ)
		idx := (uint64(occ) * magic) >> shift
		if prev, ok := seen[idx]; ok && prev != attacks {
			return fmt.Errorf("board: %s magic %#x for %s collides at index %d", class, magic, sq, idx)
		}
		seen[idx] = attacks
	}
	return nil
}

// BakedMagic returns the multiplier and shift compiled into the runtime tables.
func BakedMagic(class SliderClass, sq Square) (uint64, uint8) {
	if class == RookClass {
		return rookMagicNumbers[sq], rookShift
	}
	return bishopMagicNumbers[sq], bishopShift
}
