package board

// Pre-computed attack tables for non-sliding pieces.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	pawnPushes    [2][64]Bitboard // [Color][Square] single push target
)

type offset struct{ dr, df int }

var (
	knightOffsets = [8]offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets   = [8]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func init() {
	initLeaperAttacks()
	initPawnTables()
	initMagics() // From magic.go
}

// onBoard reports whether a 1-based rank/file pair is a real square.
// Leaper tables reject edge wraparound with this check instead of file masks.
func onBoard(rank, file int) bool {
	return rank >= 1 && rank <= 8 && file >= 1 && file <= 8
}

func leaperAttacks(sq Square, offsets []offset) Bitboard {
	var attacks Bitboard
	rank, file := sq.Rank(), sq.File()
	for _, o := range offsets {
		r, f := rank+o.dr, file+o.df
		if onBoard(r, f) {
			attacks |= SquareBB(SquareAt(r, f))
		}
	}
	return attacks
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = leaperAttacks(sq, knightOffsets[:])
		kingAttacks[sq] = leaperAttacks(sq, kingOffsets[:])
	}
}

func initPawnTables() {
	for sq := A1; sq <= H8; sq++ {
		rank, file := sq.Rank(), sq.File()
		for _, c := range [2]Color{White, Black} {
			dr := 1
			if c == Black {
				dr = -1
			}
			for _, df := range [2]int{-1, 1} {
				if onBoard(rank+dr, file+df) {
					pawnAttacks[c][sq] |= SquareBB(SquareAt(rank+dr, file+df))
				}
			}
			if onBoard(rank+dr, file) {
				pawnPushes[c][sq] = SquareBB(SquareAt(rank+dr, file))
			}
		}
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the diagonal capture targets of a pawn of colour c on sq.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnPushes returns the single-push target of a pawn of colour c on sq.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// BishopAttacks returns bishop attacks from sq given the blocker occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return bishopMagics[sq].attacks(occupied)
}

// RookAttacks returns rook attacks from sq given the blocker occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rookMagics[sq].attacks(occupied)
}

// QueenAttacks returns the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Attacks returns the attack set of a piece type standing on sq.
// Pawns are not handled here since their attacks depend on colour.
func Attacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return Empty
}
