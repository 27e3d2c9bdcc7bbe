package referee

import "github.com/hailam/chesscore/internal/board"

func illegal(m board.Move, reason board.Result) board.Move {
	m.Result |= board.Illegal | reason
	return m
}

// ValidateMove classifies m against the position without checking king
// safety. Steps run in order and stop at the first failure, which sets
// Illegal plus one reason bit:
//
//	own-piece collision, reachability, capture resolution, pawn diagonal
//	rule, en passant, promotion, castling, plain push.
//
// Any result bits already on m are discarded.
func ValidateMove(b *board.Board, m board.Move) board.Move {
	m = m.Unvalidated()
	us := m.Piece.Color()

	if m.Piece == board.NoPiece || b.PieceOn(m.From) != m.Piece {
		return illegal(m, board.Unreachable)
	}
	if us != b.SideToMove() {
		return illegal(m, board.OutOfTurn)
	}

	target := b.PieceOn(m.To)
	if target != board.NoPiece && target.Color() == us {
		return illegal(m, board.OwnPiece)
	}

	if !Destinations(b, m.Piece, m.From).IsSet(m.To) {
		return illegal(m, board.Unreachable)
	}

	if target != board.NoPiece {
		if target.Type() == board.King {
			return illegal(m, board.KingCapture)
		}
		m.Result |= board.Capture
		m.Captured = target
	}

	isPawn := m.Piece.Type() == board.Pawn
	diagonal := isPawn && m.From.File() != m.To.File()
	if diagonal && m.To != b.EnPassant() && target == board.NoPiece {
		return illegal(m, board.GhostDiagonal)
	}

	if diagonal && m.To == b.EnPassant() {
		victim := board.NewPiece(board.Pawn, us.Other())
		if b.PieceOn(board.EnPassantVictim(m.To, us)) != victim {
			return illegal(m, board.GhostDiagonal)
		}
		m.Result |= board.EnPassant | board.Capture
		m.Captured = victim
	}

	lastRank := isPawn && m.To.RelativeRank(us) == 8
	if m.Promoted != board.NoPiece || lastRank {
		if !lastRank || !validPromotion(m.Promoted, us) {
			return illegal(m, board.BadPromotion)
		}
		m.Result |= board.Promotion
	}

	if m.Piece.Type() == board.King {
		if r, ok := board.CastleRouteFor(us, m.From, m.To); ok {
			if m.Result&board.Capture != 0 || !castleAllowed(b, r, us) {
				return illegal(m, board.BadCastle)
			}
			m.Result |= board.Castling
			return m
		}
	}

	if m.Result&board.Capture == 0 {
		m.Result |= board.Push
	}
	return m
}

func validPromotion(p board.Piece, us board.Color) bool {
	if p == board.NoPiece || p.Color() != us {
		return false
	}
	switch p.Type() {
	case board.Queen, board.Rook, board.Knight, board.Bishop:
		return true
	}
	return false
}

// castleAllowed checks the right, the unmoved king and rook, empty squares
// between them and that no square on the king's path is attacked.
func castleAllowed(b *board.Board, r board.CastleRoute, us board.Color) bool {
	if b.Castling()&r.Right == 0 {
		return false
	}
	if b.PieceOn(r.KingFrom) != board.NewPiece(board.King, us) ||
		b.PieceOn(r.RookFrom) != board.NewPiece(board.Rook, us) {
		return false
	}
	if between(r.KingFrom, r.RookFrom)&b.AllOccupancy() != 0 {
		return false
	}
	path := between(r.KingFrom, r.KingTo) | board.SquareBB(r.KingFrom) | board.SquareBB(r.KingTo)
	for path != 0 {
		if SquareAttacked(b, path.PopLSB(), us.Other()) {
			return false
		}
	}
	return true
}

// between returns the squares strictly between two squares on one rank.
func between(a, b board.Square) board.Bitboard {
	if a > b {
		a, b = b, a
	}
	var bb board.Bitboard
	for sq := a + 1; sq < b; sq++ {
		bb |= board.SquareBB(sq)
	}
	return bb
}

// MoveIsLegal runs ValidateMove and then plays the move on a copy of b.
// A move leaving the mover's king attacked gets Illegal|KingInCheck.
// Otherwise Check is set when the opponent's king is attacked and
// Checkmate when the opponent also has no escape.
func MoveIsLegal(b *board.Board, m board.Move) board.Move {
	m = ValidateMove(b, m)
	if !m.Result.IsLegal() {
		return m
	}

	after := *b
	after.ApplyMove(m)

	us := m.Piece.Color()
	if IsKingInCheck(&after, us) {
		return illegal(m, board.KingInCheck)
	}
	if IsKingInCheck(&after, us.Other()) {
		m.Result |= board.Check
		if !HasLegalMoveToEscapeCheck(&after) {
			m.Result |= board.Checkmate
		}
	}
	return m
}

// leavesKingSafe plays an already validated move on a copy and reports
// whether the mover's king is unattacked afterwards.
func leavesKingSafe(b *board.Board, m board.Move) bool {
	after := *b
	after.ApplyMove(m)
	return !IsKingInCheck(&after, m.Piece.Color())
}

// HasLegalMoveToEscapeCheck reports whether the side to move has any move
// that leaves its own king unattacked. Every own piece is tried against its
// pseudo-legal destinations; promotions are tried as queens only, since the
// promotion piece never changes king safety.
func HasLegalMoveToEscapeCheck(b *board.Board) bool {
	us := b.SideToMove()
	for _, piece := range board.Pieces(us) {
		bb := b.Pieces(piece)
		for bb != 0 {
			from := bb.PopLSB()
			targets := PseudoLegalDestinations(b, piece, from)
			for targets != 0 {
				m := board.NewMove(piece, from, targets.PopLSB())
				if piece.Type() == board.Pawn && m.To.RelativeRank(us) == 8 {
					m.Promoted = board.NewPiece(board.Queen, us)
				}
				m = ValidateMove(b, m)
				if m.Result.IsLegal() && leavesKingSafe(b, m) {
					return true
				}
			}
		}
	}
	return false
}

// Status is the game-over view of a position.
type Status struct {
	Side      board.Color // side to move
	InCheck   [2]bool     // indexed by colour
	Checkmate bool
	Stalemate bool
}

// Over reports whether the side to move has no legal move.
func (s Status) Over() bool {
	return s.Checkmate || s.Stalemate
}

// Winner returns the mating side, or NoColor.
func (s Status) Winner() board.Color {
	if s.Checkmate {
		return s.Side.Other()
	}
	return board.NoColor
}

// String describes the status in a few words.
func (s Status) String() string {
	switch {
	case s.Checkmate:
		return "checkmate, " + s.Side.Other().String() + " wins"
	case s.Stalemate:
		return "stalemate"
	case s.InCheck[s.Side]:
		return s.Side.String() + " in check"
	}
	return "in progress"
}

// CheckBoardStatus reports check for both colours and, for the side to
// move, checkmate or stalemate.
func CheckBoardStatus(b *board.Board) Status {
	s := Status{Side: b.SideToMove()}
	s.InCheck[board.White] = IsKingInCheck(b, board.White)
	s.InCheck[board.Black] = IsKingInCheck(b, board.Black)

	if !HasLegalMoveToEscapeCheck(b) {
		if s.InCheck[s.Side] {
			s.Checkmate = true
		} else {
			s.Stalemate = true
		}
	}
	return s
}
