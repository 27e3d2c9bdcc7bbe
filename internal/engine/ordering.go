package engine

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	ttMoveScore = 1 << 20 // TT move gets highest priority
	captureBase = 1 << 16 // Every capture ranks above every quiet move
)

// captureScore is victim value minus attacker value.
func captureScore(m board.Move) int {
	return m.Captured.Value() - m.Piece.Value()
}

// scoreMove ranks m: the TT move first, then captures by victim minus
// attacker, then everything else.
func scoreMove(m, ttMove board.Move) int {
	if !ttMove.IsNull() && m.SameAs(ttMove) {
		return ttMoveScore
	}
	if m.Result.Has(board.Capture) {
		return captureBase + captureScore(m)
	}
	return 0
}

// orderMoves sorts moves in place by descending score. The sort is stable,
// so equal scores keep generation order.
func orderMoves(moves []board.Move, ttMove board.Move) {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(m, ttMove)
	}
	sort.Stable(byScore{moves, scores})
}

type byScore struct {
	moves  []board.Move
	scores []int
}

func (s byScore) Len() int           { return len(s.moves) }
func (s byScore) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s byScore) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
