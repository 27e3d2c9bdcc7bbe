package board

// Color is the colour of a piece or of the side to move.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite colour.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the colour name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType is a colourless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

var pieceTypeNames = [7]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

// PieceValue is the material value of each piece type in centipawns.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece identifies one of the 12 coloured pieces, encoded as type + colour*6.
// NoPiece is the empty-square sentinel.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// Fixed lookups indexed by Piece, never mutated.
var (
	colorOf = [13]Color{
		White, White, White, White, White, White,
		Black, Black, Black, Black, Black, Black,
		NoColor,
	}
	typeOf = [13]PieceType{
		Pawn, Knight, Bishop, Rook, Queen, King,
		Pawn, Knight, Bishop, Rook, Queen, King,
		NoPieceType,
	}
	pieceChars = [13]byte{'P', 'N', 'B', 'R', 'Q', 'K', 'p', 'n', 'b', 'r', 'q', 'k', ' '}
)

// NewPiece creates a Piece from a type and a colour.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece type.
func (p Piece) Type() PieceType {
	if p > NoPiece {
		return NoPieceType
	}
	return typeOf[p]
}

// Color returns the piece colour.
func (p Piece) Color() Color {
	if p > NoPiece {
		return NoColor
	}
	return colorOf[p]
}

// Char returns the FEN letter: uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	if p > NoPiece {
		return ' '
	}
	return pieceChars[p]
}

// String returns the FEN letter of the piece.
func (p Piece) String() string {
	return string(p.Char())
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(c byte) Piece {
	for p := WhitePawn; p < NoPiece; p++ {
		if pieceChars[p] == c {
			return p
		}
	}
	return NoPiece
}

// Pieces returns the six pieces of the given colour in type order.
func Pieces(c Color) [6]Piece {
	base := Piece(c) * 6
	return [6]Piece{base, base + 1, base + 2, base + 3, base + 4, base + 5}
}
