// Package board implements the chess board representation using bitboards:
// per-piece occupancy, attack tables, Zobrist hashing and the move value type.
package board

import "fmt"

// Square is a board square index (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63,
// index = (rank-1)*8 + (file-1) with rank and file 1-based.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// SquareAt returns the square for a 1-based rank and file.
// Coordinates outside 1-8 are a caller bug and panic.
func SquareAt(rank, file int) Square {
	if rank < 1 || rank > 8 || file < 1 || file > 8 {
		panic(fmt.Sprintf("board: coordinate out of range: rank=%d file=%d", rank, file))
	}
	return Square((rank-1)*8 + (file - 1))
}

// Rank returns the 1-based rank of the square.
func (sq Square) Rank() int {
	return int(sq)>>3 + 1
}

// File returns the 1-based file of the square (1=a, 8=h).
func (sq Square) File() int {
	return int(sq)&7 + 1
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic name of the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + sq.File() - 1), byte('0' + sq.Rank())})
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidNotation, s)
	}
	file := int(s[0]-'a') + 1
	rank := int(s[1]-'0')
	if file < 1 || file > 8 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("%w: square %q", ErrInvalidNotation, s)
	}
	return SquareAt(rank, file), nil
}

// RelativeRank returns the 1-based rank from the given colour's side of the board.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 9 - sq.Rank()
}

// Mirror returns the square reflected across the middle of the board.
func (sq Square) Mirror() Square {
	return sq ^ 56
}
