// Package movegen enumerates strictly legal moves and runs perft.
package movegen

import (
	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/referee"
)

// promotionOrder is the order promotion candidates are generated in.
var promotionOrder = [4]board.PieceType{board.Queen, board.Knight, board.Bishop, board.Rook}

// GenerateLegalMoves returns every legal move for the side to move. Each
// move has passed the referee's full pipeline, king safety included, and
// carries its result bits. Callers must not filter again.
func GenerateLegalMoves(b *board.Board) *board.MoveList {
	ml := board.NewMoveList()
	AppendLegalMoves(b, ml)
	return ml
}

// AppendLegalMoves adds the legal moves for the side to move to ml.
// Pieces are visited pawn, knight, bishop, rook, queen, king.
func AppendLegalMoves(b *board.Board, ml *board.MoveList) {
	us := b.SideToMove()
	for _, piece := range board.Pieces(us) {
		origins := b.Pieces(piece)
		for origins != 0 {
			from := origins.PopLSB()
			targets := referee.PseudoLegalDestinations(b, piece, from)
			for targets != 0 {
				to := targets.PopLSB()
				if piece.Type() == board.Pawn && to.RelativeRank(us) == 8 {
					for _, pt := range promotionOrder {
						addIfLegal(b, ml, board.NewPromotion(piece, from, to, board.NewPiece(pt, us)))
					}
					continue
				}
				addIfLegal(b, ml, board.NewMove(piece, from, to))
			}
		}
	}
}

func addIfLegal(b *board.Board, ml *board.MoveList, m board.Move) {
	if m = referee.MoveIsLegal(b, m); m.Result.IsLegal() {
		ml.Add(m)
	}
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func HasLegalMoves(b *board.Board) bool {
	return referee.HasLegalMoveToEscapeCheck(b)
}

// LegalMove resolves an unvalidated move, such as one parsed from notation,
// against the legal moves of b. It returns the validated move and true when
// found; otherwise the referee's verdict with the rejection reason.
func LegalMove(b *board.Board, m board.Move) (board.Move, bool) {
	v := referee.MoveIsLegal(b, m)
	return v, v.Result.IsLegal()
}
