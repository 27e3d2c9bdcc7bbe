package movegen

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Counters are perft statistics. Everything except Nodes describes the
// moves played at the last ply. Checks include checkmates.
type Counters struct {
	Nodes      uint64 `json:"nodes"`
	Captures   uint64 `json:"captures"`
	EnPassant  uint64 `json:"en_passant"`
	Castles    uint64 `json:"castles"`
	Promotions uint64 `json:"promotions"`
	Checks     uint64 `json:"checks"`
	Checkmates uint64 `json:"checkmates"`
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.Nodes += o.Nodes
	c.Captures += o.Captures
	c.EnPassant += o.EnPassant
	c.Castles += o.Castles
	c.Promotions += o.Promotions
	c.Checks += o.Checks
	c.Checkmates += o.Checkmates
}

func (c *Counters) count(m board.Move) {
	c.Nodes++
	r := m.Result
	if r.Has(board.Capture) {
		c.Captures++
	}
	if r.Has(board.EnPassant) {
		c.EnPassant++
	}
	if r.Has(board.Castling) {
		c.Castles++
	}
	if r.Has(board.Promotion) {
		c.Promotions++
	}
	if r.Has(board.Check) {
		c.Checks++
	}
	if r.Has(board.Checkmate) {
		c.Checkmates++
	}
}

// String formats the counters on one line.
func (c Counters) String() string {
	return fmt.Sprintf("nodes=%d captures=%d ep=%d castles=%d promotions=%d checks=%d mates=%d",
		c.Nodes, c.Captures, c.EnPassant, c.Castles, c.Promotions, c.Checks, c.Checkmates)
}

// Perft walks the legal move tree to depth plies, mutating b in place with
// apply/undo pairs, and returns the leaf counters. b is restored on return.
func Perft(b *board.Board, depth int) Counters {
	var c Counters
	if depth <= 0 {
		c.Nodes = 1
		return c
	}
	perft(b, depth, &c)
	return c
}

func perft(b *board.Board, depth int, c *Counters) {
	moves := GenerateLegalMoves(b)
	if depth == 1 {
		for _, m := range moves.Slice() {
			c.count(m)
		}
		return
	}
	for _, m := range moves.Slice() {
		u := b.ApplyMove(m)
		perft(b, depth-1, c)
		b.UndoMove(m, u)
	}
}

// DivideEntry is the perft result below one root move.
type DivideEntry struct {
	Move     string   `json:"move"`
	Counters Counters `json:"counters"`
}

// Divide runs perft below each root move in parallel, at most workers at a
// time. Every worker owns a copy of the board. Entries are sorted by move
// notation; the total is their sum.
func Divide(ctx context.Context, b *board.Board, depth, workers int) ([]DivideEntry, Counters, error) {
	var total Counters
	if depth < 1 {
		return nil, total, fmt.Errorf("movegen: divide depth %d < 1", depth)
	}

	root := GenerateLegalMoves(b).Slice()
	entries := make([]DivideEntry, len(root))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, m := range root {
		i, m := i, m
		worker := *b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var c Counters
			if depth == 1 {
				c.count(m)
			} else {
				worker.ApplyMove(m)
				perft(&worker, depth-1, &c)
			}
			entries[i] = DivideEntry{Move: m.Notation(), Counters: c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, total, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Move < entries[j].Move })
	for _, e := range entries {
		total.Add(e.Counters)
	}
	return entries, total, nil
}
