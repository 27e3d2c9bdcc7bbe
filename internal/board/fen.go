package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFEN is returned when a FEN string cannot be parsed.
var ErrInvalidFEN = errors.New("invalid FEN")

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string. Only the placement field is required;
// missing fields default to "w - - 0 1".
func ParseFEN(fen string) (*Board, error) {
	b := NewBoard()
	if err := b.Load(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// MustParseFEN is like ParseFEN but panics on error. For tests and constants.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// Load replaces the whole position with the one described by fen.
// On error the board is left cleared.
func (b *Board) Load(fen string) error {
	b.Clear()
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}
	if len(parts) > 6 {
		return fmt.Errorf("%w: %d fields", ErrInvalidFEN, len(parts))
	}

	if err := b.LoadPosition(parts[0]); err != nil {
		b.Clear()
		return err
	}

	if len(parts) > 1 {
		switch parts[1] {
		case "w":
		case "b":
			b.SetSideToMove(Black)
		default:
			b.Clear()
			return fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
		}
	}

	if len(parts) > 2 {
		cr, err := parseCastlingRights(parts[2])
		if err != nil {
			b.Clear()
			return err
		}
		b.SetCastling(cr)
	}

	if len(parts) > 3 && parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil || (sq.Rank() != 3 && sq.Rank() != 6) {
			b.Clear()
			return fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		b.SetEnPassant(sq)
	}

	half, full := 0, 1
	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			b.Clear()
			return fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		half = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			b.Clear()
			return fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
		}
		full = n
	}
	b.SetClocks(half, full)
	return nil
}

// LoadPosition clears every bitboard and places pieces from a FEN placement
// field, rank 8 first and file a first within each rank. The side to move,
// castling rights and en passant target are kept.
func (b *Board) LoadPosition(placement string) error {
	b.pieces = [12]Bitboard{}
	b.hash = b.ComputeHash()
	b.pawnKey = 0

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, row := range ranks {
		rank := 8 - i
		file := 1
		for j := 0; j < len(row); j++ {
			c := row[j]
			if file > 8 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p := PieceFromChar(c)
			if p == NoPiece {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			b.Put(p, SquareAt(rank, file))
			file++
		}
		if file != 9 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank, file-1)
		}
	}
	return nil
}

func parseCastlingRights(s string) (CastlingRights, error) {
	if s == "-" {
		return NoCastling, nil
	}
	var cr CastlingRights
	for _, c := range s {
		switch c {
		case 'K':
			cr |= WhiteKingSideCastle
		case 'Q':
			cr |= WhiteQueenSideCastle
		case 'k':
			cr |= BlackKingSideCastle
		case 'q':
			cr |= BlackQueenSideCastle
		default:
			return NoCastling, fmt.Errorf("%w: castling character %q", ErrInvalidFEN, c)
		}
	}
	return cr, nil
}

// PlacementString returns the FEN placement field of the board.
func (b *Board) PlacementString() string {
	var sb strings.Builder
	for rank := 8; rank >= 1; rank-- {
		empty := 0
		for file := 1; file <= 8; file++ {
			p := b.PieceAt(rank, file)
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN returns the full six-field FEN of the board.
func (b *Board) FEN() string {
	side := "w"
	if b.side == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s %d %d",
		b.PlacementString(), side, b.castling, b.enPassant, b.halfMove, b.fullMove)
}

// NormalizePlacement rewrites a placement field into canonical form, merging
// runs of empty-square digits such as "44" into "8".
func NormalizePlacement(placement string) (string, error) {
	b := NewBoard()
	if err := b.LoadPosition(placement); err != nil {
		return "", err
	}
	return b.PlacementString(), nil
}
