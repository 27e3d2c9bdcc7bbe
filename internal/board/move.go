package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNotation is returned for malformed square or move text.
var ErrInvalidNotation = errors.New("invalid notation")

// Result classifies a move. Kind bits say how the move changes the board,
// status bits say what it does to the opponent, and reason bits say why an
// Illegal move was rejected.
type Result uint16

const (
	Push Result = 1 << iota
	Capture
	EnPassant
	Castling
	Promotion
	Check
	Checkmate
	Illegal

	// Rejection reasons, set together with Illegal.
	OwnPiece      // destination holds a friendly piece
	Unreachable   // destination not in the piece's move set
	KingCapture   // destination holds the enemy king
	GhostDiagonal // pawn diagonal with nothing to take
	BadPromotion  // missing, wrong colour or wrong type of promotion piece
	BadCastle     // castling preconditions not met
	KingInCheck   // own king left attacked
	OutOfTurn     // mover is not the side to move
)

const kindMask = Push | Capture | EnPassant | Castling | Promotion

var resultNames = [...]string{
	"push", "capture", "en-passant", "castling", "promotion", "check", "checkmate", "illegal",
	"own-piece", "unreachable", "king-capture", "ghost-diagonal", "bad-promotion", "bad-castle", "king-in-check", "out-of-turn",
}

// Has reports whether all bits of flag are set.
func (r Result) Has(flag Result) bool {
	return r&flag == flag
}

// IsLegal reports whether the result carries no Illegal bit.
func (r Result) IsLegal() bool {
	return r&Illegal == 0
}

// String joins the set bit names with "|".
func (r Result) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for i, name := range resultNames {
		if r&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Move is a plain value: the moving piece, origin, destination, the result
// bits written by validation, the captured piece and the promotion piece.
// Two moves are equal when all fields are equal.
type Move struct {
	Piece    Piece
	From     Square
	To       Square
	Result   Result
	Captured Piece
	Promoted Piece
}

// NoMove is the empty move returned when nothing could be chosen.
var NoMove = Move{Piece: NoPiece, From: NoSquare, To: NoSquare, Captured: NoPiece, Promoted: NoPiece}

// NewMove creates an unvalidated move with no result bits.
func NewMove(piece Piece, from, to Square) Move {
	return Move{Piece: piece, From: from, To: to, Captured: NoPiece, Promoted: NoPiece}
}

// NewMoveAt creates an unvalidated move from 1-based coordinates.
// Coordinates outside 1-8 panic.
func NewMoveAt(piece Piece, fromRank, fromFile, toRank, toFile int) Move {
	return NewMove(piece, SquareAt(fromRank, fromFile), SquareAt(toRank, toFile))
}

// NewPromotion creates an unvalidated promotion move.
func NewPromotion(piece Piece, from, to Square, promoted Piece) Move {
	m := NewMove(piece, from, to)
	m.Promoted = promoted
	return m
}

// IsNull reports whether m is NoMove.
func (m Move) IsNull() bool {
	return m.From == NoSquare
}

// IsCapture reports whether validation marked the move as a capture.
func (m Move) IsCapture() bool {
	return m.Result&Capture != 0
}

// Unvalidated returns a copy with the result and captured piece cleared.
func (m Move) Unvalidated() Move {
	m.Result = 0
	m.Captured = NoPiece
	return m
}

// SameAs reports whether two moves describe the same piece, squares and promotion.
func (m Move) SameAs(o Move) bool {
	return m.Piece == o.Piece && m.From == o.From && m.To == o.To && m.Promoted == o.Promoted
}

var promotionLetters = [6]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

// Notation renders the move as origin square, destination square and an
// optional lowercase promotion letter, e.g. "e2e4" or "a7a8q".
func (m Move) Notation() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promoted != NoPiece {
		if l := promotionLetters[m.Promoted.Type()]; l != 0 {
			s += string(l)
		}
	}
	return s
}

// String returns the move notation.
func (m Move) String() string {
	return m.Notation()
}

// ParseMove builds an unvalidated move for mover from four-character
// notation plus an optional promotion letter in {q, r, n, b}, either case.
// The promotion piece takes the mover's colour.
func ParseMove(notation string, mover Piece) (Move, error) {
	if len(notation) != 4 && len(notation) != 5 {
		return NoMove, fmt.Errorf("%w: move %q", ErrInvalidNotation, notation)
	}
	from, err := ParseSquare(notation[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(notation[2:4])
	if err != nil {
		return NoMove, err
	}

	m := NewMove(mover, from, to)
	if len(notation) == 5 {
		var pt PieceType
		switch notation[4] {
		case 'q', 'Q':
			pt = Queen
		case 'r', 'R':
			pt = Rook
		case 'n', 'N':
			pt = Knight
		case 'b', 'B':
			pt = Bishop
		default:
			return NoMove, fmt.Errorf("%w: promotion piece %q", ErrInvalidNotation, notation[4])
		}
		m.Promoted = NewPiece(pt, mover.Color())
	}
	return m, nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set replaces the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the stored moves. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Find returns the first move with the same piece, squares and promotion as m.
func (ml *MoveList) Find(m Move) (Move, bool) {
	for _, c := range ml.Slice() {
		if c.SameAs(m) {
			return c, true
		}
	}
	return NoMove, false
}
