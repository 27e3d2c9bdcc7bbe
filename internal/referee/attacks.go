// Package referee decides whether moves are legal and reports check,
// checkmate and stalemate. Illegal moves are never errors: the reason is
// written into the move's result bits.
package referee

import "github.com/hailam/chesscore/internal/board"

// SquareAttacked reports whether any piece of colour by attacks sq given the
// board's current occupancy.
func SquareAttacked(b *board.Board, sq board.Square, by board.Color) bool {
	return squareAttacked(b, sq, by, b.AllOccupancy())
}

// squareAttacked tests pawns first, then each other piece type in two phases:
// the pseudo-attack pattern from sq on an empty board is matched against the
// attacker bitboard, and only on overlap is the occupancy-aware set computed.
func squareAttacked(b *board.Board, sq board.Square, by board.Color, occupied board.Bitboard) bool {
	if board.PawnAttacks(sq, by.Other())&b.PieceBB(board.Pawn, by) != 0 {
		return true
	}
	if board.KnightAttacks(sq)&b.PieceBB(board.Knight, by) != 0 {
		return true
	}
	if board.KingAttacks(sq)&b.PieceBB(board.King, by) != 0 {
		return true
	}

	queens := b.PieceBB(board.Queen, by)
	diagonal := b.PieceBB(board.Bishop, by) | queens
	if board.BishopAttacks(sq, board.Empty)&diagonal != 0 &&
		board.BishopAttacks(sq, occupied)&diagonal != 0 {
		return true
	}
	straight := b.PieceBB(board.Rook, by) | queens
	if board.RookAttacks(sq, board.Empty)&straight != 0 &&
		board.RookAttacks(sq, occupied)&straight != 0 {
		return true
	}
	return false
}

// AttackersOf returns every piece of colour by that attacks sq.
func AttackersOf(b *board.Board, sq board.Square, by board.Color) board.Bitboard {
	occupied := b.AllOccupancy()
	queens := b.PieceBB(board.Queen, by)
	return board.PawnAttacks(sq, by.Other())&b.PieceBB(board.Pawn, by) |
		board.KnightAttacks(sq)&b.PieceBB(board.Knight, by) |
		board.KingAttacks(sq)&b.PieceBB(board.King, by) |
		board.BishopAttacks(sq, occupied)&(b.PieceBB(board.Bishop, by)|queens) |
		board.RookAttacks(sq, occupied)&(b.PieceBB(board.Rook, by)|queens)
}

// IsKingInCheck reports whether the king of colour c is attacked.
// A side without a king is never in check.
func IsKingInCheck(b *board.Board, c board.Color) bool {
	k := b.KingSquare(c)
	if k == board.NoSquare {
		return false
	}
	return SquareAttacked(b, k, c.Other())
}

// Destinations returns every square the piece on from can reach by pushing
// or attacking under the current occupancy. Pawn diagonals are included
// whether or not there is something to take; the king's home square adds
// both castling targets. Own pieces are not masked out.
func Destinations(b *board.Board, piece board.Piece, from board.Square) board.Bitboard {
	occupied := b.AllOccupancy()
	us := piece.Color()

	switch piece.Type() {
	case board.Pawn:
		targets := board.PawnAttacks(from, us)
		push := board.PawnPushes(from, us)
		if push&occupied == 0 {
			targets |= push
			if from.RelativeRank(us) == 2 {
				double := board.PawnPushes(push.LSB(), us)
				if double&occupied == 0 {
					targets |= double
				}
			}
		}
		return targets
	case board.King:
		targets := board.KingAttacks(from)
		for _, r := range board.Castles[us] {
			if r.KingFrom == from {
				targets |= board.SquareBB(r.KingTo)
			}
		}
		return targets
	default:
		return board.Attacks(piece.Type(), from, occupied)
	}
}

// PseudoLegalDestinations narrows Destinations to candidate moves: no own
// pieces, no enemy king, pawn diagonals only onto enemies or the en passant
// target, and castling targets only while the matching right is held.
func PseudoLegalDestinations(b *board.Board, piece board.Piece, from board.Square) board.Bitboard {
	us := piece.Color()
	targets := Destinations(b, piece, from) &^ b.Occupancy(us) &^ b.PieceBB(board.King, us.Other())

	switch piece.Type() {
	case board.Pawn:
		diagonals := board.PawnAttacks(from, us)
		takeable := b.Occupancy(us.Other())
		if ep := b.EnPassant(); ep != board.NoSquare {
			takeable |= board.SquareBB(ep)
		}
		targets &^= diagonals &^ takeable
	case board.King:
		for _, r := range board.Castles[us] {
			if r.KingFrom == from && b.Castling()&r.Right == 0 {
				targets &^= board.SquareBB(r.KingTo)
			}
		}
	}
	return targets
}
