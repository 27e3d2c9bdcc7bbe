package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side keeps the right on the given wing.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	right := WhiteQueenSideCastle
	if kingSide {
		right = WhiteKingSideCastle
	}
	if c == Black {
		right <<= 2
	}
	return right
}

// castlingMask[sq] is ANDed into the rights whenever a move touches sq.
var castlingMask [64]CastlingRights

func init() {
	for sq := range castlingMask {
		castlingMask[sq] = AllCastling
	}
	castlingMask[A1] &^= WhiteQueenSideCastle
	castlingMask[H1] &^= WhiteKingSideCastle
	castlingMask[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castlingMask[A8] &^= BlackQueenSideCastle
	castlingMask[H8] &^= BlackKingSideCastle
	castlingMask[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
}

// CastleRoute describes one castling move: the king and rook paths.
type CastleRoute struct {
	Right    CastlingRights
	KingFrom Square
	KingTo   Square
	RookFrom Square
	RookTo   Square
}

// Castles lists the four castling moves, indexed by colour then wing
// (0 king side, 1 queen side).
var Castles = [2][2]CastleRoute{
	{
		{WhiteKingSideCastle, E1, G1, H1, F1},
		{WhiteQueenSideCastle, E1, C1, A1, D1},
	},
	{
		{BlackKingSideCastle, E8, G8, H8, F8},
		{BlackQueenSideCastle, E8, C8, A8, D8},
	},
}

// CastleRouteFor returns the castling route whose king path is from -> to.
func CastleRouteFor(c Color, from, to Square) (CastleRoute, bool) {
	for _, r := range Castles[c] {
		if r.KingFrom == from && r.KingTo == to {
			return r, true
		}
	}
	return CastleRoute{}, false
}

// Board is a chess position: one bitboard per piece plus side to move,
// en passant target, castling rights, move clocks and hashes.
//
// Board is a value type. Copying it yields an independent position, so
// speculative checks work on a copy while one owner mutates the original
// through ApplyMove/UndoMove.
type Board struct {
	pieces    [12]Bitboard
	side      Color
	enPassant Square
	castling  CastlingRights
	halfMove  int
	fullMove  int
	hash      uint64
	pawnKey   uint64
}

// Undo holds the state ApplyMove cannot recompute on the way back.
type Undo struct {
	EnPassant Square
	Castling  CastlingRights
	HalfMove  int
	FullMove  int
	Hash      uint64
	PawnKey   uint64
}

// NullUndo holds the state a null move overwrites.
type NullUndo struct {
	EnPassant Square
	Hash      uint64
}

// NewBoard returns an empty board with white to move.
func NewBoard() *Board {
	b := &Board{}
	b.Clear()
	return b
}

// Clear empties the board and resets the auxiliary state.
func (b *Board) Clear() {
	*b = Board{enPassant: NoSquare, fullMove: 1}
	b.hash = b.ComputeHash()
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// Pieces returns the bitboard of one piece.
func (b *Board) Pieces(p Piece) Bitboard {
	return b.pieces[p]
}

// PieceBB returns the bitboard of a piece type and colour.
func (b *Board) PieceBB(pt PieceType, c Color) Bitboard {
	return b.pieces[NewPiece(pt, c)]
}

// Occupancy returns all squares holding a piece of colour c.
func (b *Board) Occupancy(c Color) Bitboard {
	base := int(c) * 6
	p := b.pieces[base : base+6]
	return p[0] | p[1] | p[2] | p[3] | p[4] | p[5]
}

// AllOccupancy returns all occupied squares.
func (b *Board) AllOccupancy() Bitboard {
	return b.Occupancy(White) | b.Occupancy(Black)
}

// PieceAt returns the piece on a 1-based rank and file, or NoPiece.
// Coordinates outside 1-8 panic.
func (b *Board) PieceAt(rank, file int) Piece {
	return b.PieceOn(SquareAt(rank, file))
}

// PieceOn returns the piece on sq, or NoPiece. The first bitboard holding
// the square wins.
func (b *Board) PieceOn(sq Square) Piece {
	mask := SquareBB(sq)
	for p := WhitePawn; p < NoPiece; p++ {
		if b.pieces[p]&mask != 0 {
			return p
		}
	}
	return NoPiece
}

// IsEmpty returns true if no piece stands on sq.
func (b *Board) IsEmpty(sq Square) bool {
	return !b.AllOccupancy().IsSet(sq)
}

// KingSquare returns the square of the king of colour c, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	return b.pieces[NewPiece(King, c)].LSB()
}

// SideToMove returns the colour to move.
func (b *Board) SideToMove() Color { return b.side }

// EnPassant returns the en passant target square, or NoSquare.
func (b *Board) EnPassant() Square { return b.enPassant }

// Castling returns the castling rights.
func (b *Board) Castling() CastlingRights { return b.castling }

// HalfMoveClock returns the number of plies since the last capture or pawn move.
func (b *Board) HalfMoveClock() int { return b.halfMove }

// FullMoveNumber returns the move number, starting at 1.
func (b *Board) FullMoveNumber() int { return b.fullMove }

// Hash returns the incrementally maintained Zobrist hash.
func (b *Board) Hash() uint64 { return b.hash }

// PawnKey returns the Zobrist hash of the pawns alone.
func (b *Board) PawnKey() uint64 { return b.pawnKey }

// SetSideToMove sets the colour to move and keeps the hash in sync.
func (b *Board) SetSideToMove(c Color) {
	if c != b.side {
		b.side = c
		b.hash ^= zobristSideToMove
	}
}

// SetEnPassant sets the en passant target and keeps the hash in sync.
func (b *Board) SetEnPassant(sq Square) {
	if b.enPassant != NoSquare {
		b.hash ^= zobristEnPassant[b.enPassant.File()-1]
	}
	b.enPassant = sq
	if sq != NoSquare {
		b.hash ^= zobristEnPassant[sq.File()-1]
	}
}

// SetCastling sets the castling rights and keeps the hash in sync.
func (b *Board) SetCastling(cr CastlingRights) {
	b.hash ^= zobristCastling[b.castling] ^ zobristCastling[cr&AllCastling]
	b.castling = cr & AllCastling
}

// SetClocks sets the half-move clock and full-move number.
func (b *Board) SetClocks(halfMove, fullMove int) {
	b.halfMove = halfMove
	b.fullMove = fullMove
}

// Put places p on sq. The square must be empty.
func (b *Board) Put(p Piece, sq Square) {
	b.pieces[p] |= SquareBB(sq)
	b.hash ^= zobristPiece[p][sq]
	if p.Type() == Pawn {
		b.pawnKey ^= zobristPiece[p][sq]
	}
}

// Remove clears p from sq.
func (b *Board) Remove(p Piece, sq Square) {
	b.pieces[p] &^= SquareBB(sq)
	b.hash ^= zobristPiece[p][sq]
	if p.Type() == Pawn {
		b.pawnKey ^= zobristPiece[p][sq]
	}
}

// EnPassantVictim returns the square of the pawn taken by an en passant
// capture landing on target: one rank behind the target from the mover's side.
func EnPassantVictim(target Square, mover Color) Square {
	if mover == White {
		return target - 8
	}
	return target + 8
}

// ApplyMove plays a validated move. The bits flipped follow m.Result: a push
// moves one bit, a capture also clears the victim, en passant clears the
// victim behind the target, castling also moves the rook and promotion
// swaps the pawn for the promoted piece. The returned Undo must be passed to
// UndoMove with the same move.
func (b *Board) ApplyMove(m Move) Undo {
	u := Undo{
		EnPassant: b.enPassant,
		Castling:  b.castling,
		HalfMove:  b.halfMove,
		FullMove:  b.fullMove,
		Hash:      b.hash,
		PawnKey:   b.pawnKey,
	}
	us := m.Piece.Color()

	b.Remove(m.Piece, m.From)
	switch {
	case m.Result&EnPassant != 0:
		b.Remove(m.Captured, EnPassantVictim(m.To, us))
	case m.Result&Capture != 0:
		b.Remove(m.Captured, m.To)
	}
	if m.Result&Promotion != 0 {
		b.Put(m.Promoted, m.To)
	} else {
		b.Put(m.Piece, m.To)
	}
	if m.Result&Castling != 0 {
		if r, ok := CastleRouteFor(us, m.From, m.To); ok {
			rook := NewPiece(Rook, us)
			b.Remove(rook, r.RookFrom)
			b.Put(rook, r.RookTo)
		}
	}

	ep := NoSquare
	if m.Piece.Type() == Pawn && (m.To-m.From == 16 || m.From-m.To == 16) {
		ep = (m.From + m.To) / 2
	}
	b.SetEnPassant(ep)
	b.SetCastling(b.castling & castlingMask[m.From] & castlingMask[m.To])

	if m.Piece.Type() == Pawn || m.Result&Capture != 0 {
		b.halfMove = 0
	} else {
		b.halfMove++
	}
	if us == Black {
		b.fullMove++
	}
	b.SetSideToMove(us.Other())
	return u
}

// UndoMove reverses ApplyMove for the same move and undo record, restoring
// every bitboard and field bit for bit.
func (b *Board) UndoMove(m Move, u Undo) {
	us := m.Piece.Color()

	if m.Result&Castling != 0 {
		if r, ok := CastleRouteFor(us, m.From, m.To); ok {
			rook := NewPiece(Rook, us)
			b.pieces[rook] &^= SquareBB(r.RookTo)
			b.pieces[rook] |= SquareBB(r.RookFrom)
		}
	}
	if m.Result&Promotion != 0 {
		b.pieces[m.Promoted] &^= SquareBB(m.To)
	} else {
		b.pieces[m.Piece] &^= SquareBB(m.To)
	}
	switch {
	case m.Result&EnPassant != 0:
		b.pieces[m.Captured] |= SquareBB(EnPassantVictim(m.To, us))
	case m.Result&Capture != 0:
		b.pieces[m.Captured] |= SquareBB(m.To)
	}
	b.pieces[m.Piece] |= SquareBB(m.From)

	b.side = us
	b.enPassant = u.EnPassant
	b.castling = u.Castling
	b.halfMove = u.HalfMove
	b.fullMove = u.FullMove
	b.hash = u.Hash
	b.pawnKey = u.PawnKey
}

// ApplyNullMove passes the turn: the side to move flips and the en passant
// target is cleared. Nothing else changes.
func (b *Board) ApplyNullMove() NullUndo {
	u := NullUndo{EnPassant: b.enPassant, Hash: b.hash}
	b.SetEnPassant(NoSquare)
	b.SetSideToMove(b.side.Other())
	return u
}

// UndoNullMove reverses ApplyNullMove.
func (b *Board) UndoNullMove(u NullUndo) {
	b.side = b.side.Other()
	b.enPassant = u.EnPassant
	b.hash = u.Hash
}

// HasNonPawnMaterial returns true if colour c has a knight, bishop, rook or queen.
func (b *Board) HasNonPawnMaterial(c Color) bool {
	return b.PieceBB(Knight, c)|b.PieceBB(Bishop, c)|b.PieceBB(Rook, c)|b.PieceBB(Queen, c) != 0
}

// IsInsufficientMaterial returns true for K v K and K+minor v K.
func (b *Board) IsInsufficientMaterial() bool {
	heavy := b.pieces[WhitePawn] | b.pieces[BlackPawn] |
		b.pieces[WhiteRook] | b.pieces[BlackRook] |
		b.pieces[WhiteQueen] | b.pieces[BlackQueen]
	if heavy != 0 {
		return false
	}
	minors := b.pieces[WhiteKnight] | b.pieces[BlackKnight] |
		b.pieces[WhiteBishop] | b.pieces[BlackBishop]
	return minors.PopCount() <= 1
}

// Validate checks structural invariants: no square claimed by two bitboards,
// at most one king per side, no pawns on the back ranks and a hash that
// matches a from-scratch computation.
func (b *Board) Validate() error {
	var seen Bitboard
	for p := WhitePawn; p < NoPiece; p++ {
		if seen&b.pieces[p] != 0 {
			return fmt.Errorf("board: %s overlaps another piece at %s", p, (seen & b.pieces[p]).LSB())
		}
		seen |= b.pieces[p]
	}
	for _, c := range [2]Color{White, Black} {
		if n := b.PieceBB(King, c).PopCount(); n > 1 {
			return fmt.Errorf("board: %s has %d kings", c, n)
		}
	}
	if (b.pieces[WhitePawn]|b.pieces[BlackPawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("board: pawn on back rank")
	}
	if h := b.ComputeHash(); h != b.hash {
		return fmt.Errorf("board: hash %#x does not match computed %#x", b.hash, h)
	}
	return nil
}

// String returns an ASCII diagram of the board, rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  +-----------------+\n")
	for rank := 8; rank >= 1; rank-- {
		fmt.Fprintf(&sb, "%d | ", rank)
		for file := 1; file <= 8; file++ {
			p := b.PieceAt(rank, file)
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +-----------------+\n")
	sb.WriteString("    a b c d e f g h\n")
	fmt.Fprintf(&sb, "Side: %s  Castling: %s  EP: %s\n", b.side, b.castling, b.enPassant)
	fmt.Fprintf(&sb, "Hash: %016x\n", b.hash)
	return sb.String()
}
