// Package engine implements the alpha-beta search and static evaluation.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants, in centipawns.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0, 0}

// Passed pawn bonus by relative rank (index 1 = rank 1).
var passedPawnMg = [9]int{0, 0, 5, 10, 20, 35, 60, 100, 0}
var passedPawnEg = [9]int{0, 0, 10, 20, 40, 70, 120, 200, 0}

const (
	bishopPairMgBonus = 25
	bishopPairEgBonus = 50

	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15

	doubledPawnMgPenalty  = -15
	doubledPawnEgPenalty  = -20
	isolatedPawnMgPenalty = -20
	isolatedPawnEgPenalty = -25

	tempoBonus = 10
)

// Mobility weights per piece type.
var mobilityMg = [6]int{0, 4, 5, 2, 1, 0}
var mobilityEg = [6]int{0, 3, 4, 4, 2, 0}

// Piece-square tables, drawn with rank 8 on top from White's point of view.
// White squares are looked up mirrored, black squares directly.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [5][64]int{pawnPST, knightPST, bishopPST, rookPST, queenPST}

// phaseWeight is each piece type's contribution to the game phase.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

// pstIndex maps a square to the index of the rank-8-first tables.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return int(sq.Mirror())
	}
	return int(sq)
}

// Evaluate returns the static evaluation in centipawns from the side to
// move's point of view.
func Evaluate(b *board.Board) float64 {
	return evaluate(b, nil)
}

// Evaluator evaluates positions with a pawn structure cache.
type Evaluator struct {
	pawns *PawnTable
}

// NewEvaluator creates an evaluator with a pawnMB megabyte pawn cache.
func NewEvaluator(pawnMB int) *Evaluator {
	return &Evaluator{pawns: NewPawnTable(pawnMB)}
}

// Evaluate is like the package-level Evaluate but reuses cached pawn terms.
func (e *Evaluator) Evaluate(b *board.Board) float64 {
	return evaluate(b, e.pawns)
}

// Clear empties the pawn cache.
func (e *Evaluator) Clear() {
	e.pawns.Clear()
}

func evaluate(b *board.Board, pawns *PawnTable) float64 {
	var mg, eg, phase int
	occupied := b.AllOccupancy()

	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := b.Occupancy(c)

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := b.PieceBB(pt, c)
			for bb != 0 {
				sq := bb.PopLSB()
				idx := pstIndex(sq, c)

				if pt == board.King {
					mg += sign * kingMidgamePST[idx]
					eg += sign * kingEndgamePST[idx]
					continue
				}
				mg += sign * (pieceValues[pt] + psts[pt][idx])
				eg += sign * (pieceValues[pt] + psts[pt][idx])
				phase += phaseWeight[pt]

				if pt != board.Pawn {
					mobility := (board.Attacks(pt, sq, occupied) &^ own).PopCount()
					mg += sign * mobility * mobilityMg[pt]
					eg += sign * mobility * mobilityEg[pt]
				}
			}
		}

		if b.PieceBB(board.Bishop, c).PopCount() >= 2 {
			mg += sign * bishopPairMgBonus
			eg += sign * bishopPairEgBonus
		}

		rmg, reg := rooksOnFiles(b, c)
		mg += sign * rmg
		eg += sign * reg
	}

	pmg, peg := pawnStructureCached(b, pawns)
	mg += pmg
	eg += peg

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase
	if b.SideToMove() == board.Black {
		score = -score
	}
	return float64(score + tempoBonus)
}

func rooksOnFiles(b *board.Board, c board.Color) (mg, eg int) {
	own := b.PieceBB(board.Pawn, c)
	enemy := b.PieceBB(board.Pawn, c.Other())
	rooks := b.PieceBB(board.Rook, c)
	for rooks != 0 {
		file := board.FileMask(rooks.PopLSB().File())
		switch {
		case own&file == 0 && enemy&file == 0:
			mg += rookOpenFileMg
			eg += rookOpenFileEg
		case own&file == 0:
			mg += rookSemiOpenFileMg
			eg += rookSemiOpenFileEg
		}
	}
	return mg, eg
}

func pawnStructureCached(b *board.Board, pt *PawnTable) (mg, eg int) {
	if pt == nil {
		return pawnStructure(b)
	}
	if mg, eg, ok := pt.Probe(b.PawnKey()); ok {
		return mg, eg
	}
	mg, eg = pawnStructure(b)
	pt.Store(b.PawnKey(), mg, eg)
	return mg, eg
}

// pawnStructure scores doubled, isolated and passed pawns from White's side.
// It depends on pawns only, so it can be cached by pawn key.
func pawnStructure(b *board.Board) (mg, eg int) {
	for _, c := range [2]board.Color{board.White, board.Black} {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		pawns := b.PieceBB(board.Pawn, c)
		enemy := b.PieceBB(board.Pawn, c.Other())

		for file := 1; file <= 8; file++ {
			if n := (pawns & board.FileMask(file)).PopCount(); n > 1 {
				mg += sign * doubledPawnMgPenalty * (n - 1)
				eg += sign * doubledPawnEgPenalty * (n - 1)
			}
		}

		bb := pawns
		for bb != 0 {
			sq := bb.PopLSB()
			if pawns&adjacentFiles(sq.File()) == 0 {
				mg += sign * isolatedPawnMgPenalty
				eg += sign * isolatedPawnEgPenalty
			}
			if enemy&passedSpan(sq, c) == 0 {
				rank := sq.RelativeRank(c)
				mg += sign * passedPawnMg[rank]
				eg += sign * passedPawnEg[rank]
			}
		}
	}
	return mg, eg
}

func adjacentFiles(file int) board.Bitboard {
	var bb board.Bitboard
	if file > 1 {
		bb |= board.FileMask(file - 1)
	}
	if file < 8 {
		bb |= board.FileMask(file + 1)
	}
	return bb
}

// passedSpan is the set of squares in front of sq on its own and adjacent
// files. A pawn with no enemy pawn there is passed.
func passedSpan(sq board.Square, c board.Color) board.Bitboard {
	files := adjacentFiles(sq.File()) | board.FileMask(sq.File())
	var ahead board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r <= 8; r++ {
			ahead |= board.RankMask(r)
		}
	} else {
		for r := sq.Rank() - 1; r >= 1; r-- {
			ahead |= board.RankMask(r)
		}
	}
	return files & ahead
}
