package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/movegen"
)

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth    int
	Score    float64
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// Result is the outcome of a search. A position without legal moves yields
// NoMove with a zero score.
type Result struct {
	Move  board.Move
	Score float64
	Depth int // deepest completed iteration
	PV    []board.Move
	Stats Stats
	Time  time.Duration
}

// Engine runs iterative deepening searches. It is single-threaded: one
// Search at a time, with Stop callable from any goroutine.
type Engine struct {
	tt       *TranspositionTable
	eval     *Evaluator
	searcher *Searcher
	stopFlag atomic.Bool
	log      zerolog.Logger

	// OnInfo is called after every completed iteration.
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l.With().Str("component", "engine").Logger() }
}

// NewEngine creates an engine with a ttSizeMB megabyte transposition table.
func NewEngine(ttSizeMB int, opts ...Option) *Engine {
	e := &Engine{
		tt:   NewTranspositionTable(ttSizeMB),
		eval: NewEvaluator(1),
		log:  zerolog.Nop(),
	}
	e.searcher = NewSearcher(e.tt, e.eval, &e.stopFlag)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TT returns the engine's transposition table.
func (e *Engine) TT() *TranspositionTable {
	return e.tt
}

// Search finds the best move for b. history holds the hashes of the game so
// far ending with b's hash; it may be nil. Neither b nor history is modified.
// When a deadline expires mid-iteration the result of the last completed
// depth is returned.
func (e *Engine) Search(b *board.Board, history *History, limits Limits) Result {
	start := time.Now()
	e.stopFlag.Store(false)
	e.tt.NewSearch()

	root := *b
	var hist *History
	if history == nil {
		hist = NewHistory(root.Hash())
	} else {
		hist = history.Clone()
		if hist.Last() != root.Hash() {
			hist.Push(root.Hash())
		}
	}

	rootMoves := movegen.GenerateLegalMoves(&root)
	if rootMoves.Len() == 0 {
		e.log.Info().Str("fen", root.FEN()).Msg("no legal moves at root")
		return Result{Move: board.NoMove, Time: time.Since(start)}
	}

	tm := NewTimeManager()
	ply := (root.FullMoveNumber()-1)*2 + int(root.SideToMove())
	tm.Init(limits, root.SideToMove(), ply)

	maxDepth := MaxPly
	if limits.Depth > 0 && limits.Depth < MaxPly {
		maxDepth = limits.Depth
	}

	e.searcher.Reset(&root, hist, tm, limits.Nodes)
	ttBefore := e.tt.Stats()

	var best Result
	for depth := 1; depth <= maxDepth; depth++ {
		move, score := e.searcher.SearchDepth(depth)
		if e.searcher.Aborted() || move.IsNull() {
			break
		}
		best = Result{Move: move, Score: score, Depth: depth, PV: e.searcher.PV()}

		stats := e.searcher.Stats()
		e.log.Debug().
			Int("depth", depth).
			Float64("score", score).
			Uint64("nodes", stats.Nodes).
			Uint64("beta_cutoffs", stats.BetaCutoffs).
			Uint64("tt_hits", stats.TTHits).
			Uint64("tt_stores", stats.TTStores).
			Dur("elapsed", time.Since(start)).
			Str("pv", pvString(best.PV)).
			Msg("iteration complete")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    stats.Nodes,
				Time:     time.Since(start),
				PV:       best.PV,
				HashFull: e.tt.HashFull(),
			})
		}

		if score > MateBound || score < -MateBound {
			break
		}
		if tm.PastOptimum() {
			break
		}
	}

	if best.Move.IsNull() {
		// Not even depth 1 finished in time.
		best = Result{Move: rootMoves.Get(0), Score: e.eval.Evaluate(&root)}
	}

	best.Stats = e.searcher.Stats()
	ttAfter := e.tt.Stats()
	best.Stats.TTCollisions = ttAfter.Collisions - ttBefore.Collisions
	best.Time = time.Since(start)

	e.log.Info().
		Str("move", best.Move.Notation()).
		Str("score", ScoreToString(best.Score)).
		Int("depth", best.Depth).
		Uint64("nodes", best.Stats.Nodes).
		Dur("elapsed", best.Time).
		Msg("search finished")
	return best
}

// Stop asks a running search to return as soon as possible.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear empties the transposition table and the pawn cache.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.eval.Clear()
}

// Resize replaces the transposition table with one of sizeMB megabytes.
func (e *Engine) Resize(sizeMB int) {
	e.tt = NewTranspositionTable(sizeMB)
	e.searcher = NewSearcher(e.tt, e.eval, &e.stopFlag)
}

// Evaluate returns the static evaluation of b from the side to move.
func (e *Engine) Evaluate(b *board.Board) float64 {
	return e.eval.Evaluate(b)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score float64) bool {
	return score > MateBound || score < -MateBound
}

// MateIn returns the signed number of moves to mate for a mate score.
func MateIn(score float64) int {
	if score > MateBound {
		return (int(MateScore-score) + 1) / 2
	}
	return -(int(MateScore+score) + 1) / 2
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score float64) string {
	if score > MateBound {
		return fmt.Sprintf("Mate in %d", MateIn(score))
	}
	if score < -MateBound {
		return fmt.Sprintf("Mated in %d", -MateIn(score))
	}
	return fmt.Sprintf("%.2f", score/100)
}

func pvString(pv []board.Move) string {
	s := ""
	for i, m := range pv {
		if i > 0 {
			s += " "
		}
		s += m.Notation()
	}
	return s
}
