package engine

import (
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/movegen"
	"github.com/hailam/chesscore/internal/referee"
)

// Search constants. Scores are finite so they stay well defined when
// shifted by ply.
const (
	MaxPly    = 128
	MateScore = 100000.0
	Infinity  = MateScore + 1
	MateBound = MateScore - MaxPly // scores beyond this are mates
)

const (
	nullMoveReduction = 3
	nullMoveMinDepth  = 3
	nullWindow        = 1.0
	drawScore         = 0.0
)

// Stats are per-search diagnostic counters.
type Stats struct {
	Nodes            uint64
	BetaCutoffs      uint64
	FirstMoveCutoffs uint64
	NullCutoffs      uint64
	TTProbes         uint64
	TTHits           uint64
	TTCutoffs        uint64
	TTStores         uint64
	TTCollisions     uint64
}

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly + 1]int
	moves  [MaxPly + 1][MaxPly + 1]board.Move
}

func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for i := ply + 1; i < pv.length[ply+1]; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = pv.length[ply+1]
}

// Searcher runs one depth-limited negamax search over a board it owns.
type Searcher struct {
	board   board.Board
	history *History
	tt      *TranspositionTable
	eval    *Evaluator
	tm      *TimeManager

	stopFlag *atomic.Bool
	maxNodes uint64
	aborted  bool

	stats Stats
	pv    PVTable
}

// NewSearcher creates a searcher sharing tt, eval and the stop flag.
func NewSearcher(tt *TranspositionTable, eval *Evaluator, stop *atomic.Bool) *Searcher {
	return &Searcher{tt: tt, eval: eval, stopFlag: stop, tm: NewTimeManager()}
}

// Reset prepares the searcher for a new root position.
func (s *Searcher) Reset(root *board.Board, history *History, tm *TimeManager, maxNodes uint64) {
	s.board = *root
	s.history = history
	s.tm = tm
	s.maxNodes = maxNodes
	s.aborted = false
	s.stats = Stats{}
}

// Stats returns the counters accumulated since Reset.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// Aborted reports whether the last SearchDepth was cut short.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

// PV returns the principal variation of the last completed SearchDepth.
func (s *Searcher) PV() []board.Move {
	n := s.pv.length[0]
	out := make([]board.Move, n)
	copy(out, s.pv.moves[0][:n])
	return out
}

// SearchDepth runs a full-window search of the root to depth.
func (s *Searcher) SearchDepth(depth int) (board.Move, float64) {
	score := s.negamax(depth, 0, -Infinity, Infinity, true)
	if s.aborted || s.pv.length[0] == 0 {
		return board.NoMove, score
	}
	return s.pv.moves[0][0], score
}

// shouldStop is polled at every node.
func (s *Searcher) shouldStop() bool {
	if s.aborted {
		return true
	}
	if s.stopFlag.Load() || s.tm.ShouldStop() || (s.maxNodes > 0 && s.stats.Nodes >= s.maxNodes) {
		s.aborted = true
	}
	return s.aborted
}

// isDraw covers repetition, the fifty-move rule and dead material.
func (s *Searcher) isDraw() bool {
	return s.board.HalfMoveClock() >= 100 ||
		s.board.IsInsufficientMaterial() ||
		s.history.IsRepetition()
}

func (s *Searcher) negamax(depth, ply int, alpha, beta float64, nullAllowed bool) float64 {
	s.stats.Nodes++
	s.pv.length[ply] = ply
	if s.shouldStop() {
		return 0
	}
	b := &s.board

	status := referee.CheckBoardStatus(b)
	if status.Checkmate {
		return -MateScore + float64(ply)
	}
	if status.Stalemate {
		return drawScore
	}
	if ply > 0 && s.isDraw() {
		return drawScore
	}
	if depth <= 0 || ply >= MaxPly {
		return s.eval.Evaluate(b)
	}
	inCheck := status.InCheck[b.SideToMove()]

	hash := b.Hash()
	ttMove := board.NoMove
	s.stats.TTProbes++
	if entry, ok := s.tt.Probe(hash); ok {
		s.stats.TTHits++
		ttMove = entry.BestMove
		if ply > 0 && int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(entry.Score, ply)
			if entry.Flag == TTExact ||
				(entry.Flag == TTLowerBound && score >= beta) ||
				(entry.Flag == TTUpperBound && score <= alpha) {
				s.stats.TTCutoffs++
				return score
			}
		}
	}

	if nullAllowed && ply > 0 && !inCheck && depth >= nullMoveMinDepth && b.HasNonPawnMaterial(b.SideToMove()) {
		u := b.ApplyNullMove()
		s.history.Push(b.Hash())
		score := -s.negamax(depth-1-nullMoveReduction, ply+1, -beta, -beta+nullWindow, false)
		s.history.Pop()
		b.UndoNullMove(u)
		if s.aborted {
			return 0
		}
		if score >= beta {
			s.stats.NullCutoffs++
			if score > MateBound {
				score = beta
			}
			return score
		}
	}

	moves := movegen.GenerateLegalMoves(b).Slice()
	if len(moves) == 0 {
		return s.eval.Evaluate(b)
	}
	orderMoves(moves, ttMove)

	origAlpha := alpha
	bestScore := -Infinity
	bestMove := board.NoMove

	for i, m := range moves {
		u := b.ApplyMove(m)
		s.history.Push(b.Hash())
		score := -s.negamax(depth-1, ply+1, -beta, -alpha, true)
		s.history.Pop()
		b.UndoMove(m, u)

		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.pv.update(ply, m)
			}
		}
		if alpha >= beta {
			s.stats.BetaCutoffs++
			if i == 0 {
				s.stats.FirstMoveCutoffs++
			}
			break
		}
	}

	flag := TTExact
	switch {
	case bestScore >= beta:
		flag = TTLowerBound
	case bestScore <= origAlpha:
		flag = TTUpperBound
	}
	s.tt.Store(hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	s.stats.TTStores++

	return bestScore
}
