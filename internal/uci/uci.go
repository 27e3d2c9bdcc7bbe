// Package uci is the text front end: the UCI line protocol for chess GUIs,
// plus a few debugging commands and an interactive shell, all dispatched
// onto a game.Game.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/movegen"
	"github.com/hailam/chesscore/internal/storage"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	game  *game.Game
	cfg   config.Config
	store *storage.Storage // optional perft cache
	log   zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	searchDone chan struct{} // closed when the running search has printed bestmove
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithStorage enables the perft result cache.
func WithStorage(s *storage.Storage) Option {
	return func(u *UCI) { u.store = s }
}

// WithLogger sets the logger. Logs must not go to the protocol output.
func WithLogger(l zerolog.Logger) Option {
	return func(u *UCI) { u.log = l.With().Str("component", "uci").Logger() }
}

// New creates a new UCI protocol handler writing responses to out.
func New(g *game.Game, cfg config.Config, out io.Writer, opts ...Option) *UCI {
	u := &UCI{game: g, cfg: cfg, out: out, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(u)
	}
	g.Engine().OnInfo = u.sendInfo
	return u
}

// Run reads commands from r until "quit" or end of input. A search still
// running at end of input is allowed to finish.
func (u *UCI) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !u.Execute(scanner.Text()) {
			return nil
		}
	}
	u.wait()
	return scanner.Err()
}

// Execute handles one command line. It returns false after "quit".
func (u *UCI) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]
	u.log.Debug().Str("cmd", cmd).Strs("args", args).Msg("command")

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "stop":
		u.handleStop()
	case "quit", "exit":
		u.handleStop()
		return false
	case "setoption":
		u.handleSetOption(args)
	// Debug commands
	case "d":
		b := u.game.Board()
		u.printf("%s\nFen: %s\nKey: %016X\n", b.String(), b.FEN(), b.Hash())
	case "fen":
		u.println(u.game.FEN())
	case "perft":
		u.handlePerft(args)
	case "move":
		u.handleMove(args)
	case "undo":
		u.handleUndo()
	case "player":
		u.handlePlayer(args)
	case "status":
		u.println(u.game.Status().String())
	case "eval":
		u.handleEval()
	case "help":
		u.println(helpText)
	default:
		u.printf("info string unknown command: %s\n", cmd)
	}
	return true
}

const helpText = `commands:
  uci | isready | ucinewgame | quit
  position (startpos | fen <fen>) [moves <m1> ...]
  go [depth N] [nodes N] [movetime ms] [wtime ms] [btime ms] [winc ms] [binc ms] [movestogo N] [infinite]
  stop
  setoption name Hash value <MB> | setoption name Clear Hash
  d | fen | status | eval
  move <m> | undo | player (white|black) (interactive|engine|external) [depth N]
  perft <depth>`

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	u.printf("option name Hash type spin default %d min 1 max 65536\n", u.cfg.HashMB)
	u.println("option name Clear Hash type button")
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.game.Engine().Clear()
	_ = u.game.SetPosition("startpos", nil)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		u.printf("info string unknown position type %q\n", args[0])
		return
	}

	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	if err := u.game.SetPosition(fen, moves); err != nil {
		u.printf("info string %v\n", err)
		u.log.Warn().Err(err).Str("fen", fen).Msg("position rejected")
	}
}

// parseLimits parses "go" command arguments. Without any limit the
// configured default depth and move time apply.
func (u *UCI) parseLimits(args []string) engine.Limits {
	var limits engine.Limits
	ms := func(i int) time.Duration {
		n, _ := strconv.Atoi(args[i])
		return time.Duration(n) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		hasValue := i+1 < len(args)
		switch args[i] {
		case "depth":
			if hasValue {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if hasValue {
				limits.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if hasValue {
				limits.MoveTime = ms(i + 1)
				i++
			}
		case "wtime":
			if hasValue {
				limits.Time[board.White] = ms(i + 1)
				i++
			}
		case "btime":
			if hasValue {
				limits.Time[board.Black] = ms(i + 1)
				i++
			}
		case "winc":
			if hasValue {
				limits.Inc[board.White] = ms(i + 1)
				i++
			}
		case "binc":
			if hasValue {
				limits.Inc[board.Black] = ms(i + 1)
				i++
			}
		case "movestogo":
			if hasValue {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "infinite":
			limits.Infinite = true
		}
	}

	if limits == (engine.Limits{}) {
		limits.Depth = u.cfg.DefaultDepth
		limits.MoveTime = u.cfg.MoveTime
	}
	return limits
}

// handleGo starts a search in the background. The result is printed as
// "bestmove", or "bestmove 0000" when there is no legal move.
func (u *UCI) handleGo(args []string) {
	u.handleStop()
	limits := u.parseLimits(args)

	done := make(chan struct{})
	u.searchDone = done

	go func() {
		defer close(done)

		res := u.game.Search(limits)
		u.printf("bestmove %s\n", res.Move.Notation())
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	if engine.IsMateScore(info.Score) {
		parts = append(parts, fmt.Sprintf("score mate %d", engine.MateIn(info.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", int(info.Score)))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.Notation()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove. The
// stop is repeated until the search ends, since a search that had not yet
// started when the first one arrived clears the flag.
func (u *UCI) handleStop() {
	if u.searchDone == nil {
		return
	}
	u.game.Stop()
	for {
		select {
		case <-u.searchDone:
			u.searchDone = nil
			return
		case <-time.After(5 * time.Millisecond):
			u.game.Stop()
		}
	}
}

// wait blocks until a running search has printed its result.
func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	u.handleStop()
	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(strings.Join(value, ""))
		if err != nil {
			u.printf("info string invalid Hash value %q\n", strings.Join(value, " "))
			return
		}
		cfg := u.cfg
		cfg.HashMB = mb
		if err := cfg.Validate(); err != nil {
			u.printf("info string %v\n", err)
			return
		}
		u.cfg = cfg
		u.game.Engine().Resize(mb)
		u.log.Info().Int("hash_mb", mb).Msg("hash resized")
	case "clear hash":
		u.game.Engine().Clear()
	default:
		u.printf("info string unknown option %q\n", strings.Join(name, " "))
	}
}

// handlePerft runs perft divide on the current position, reusing a cached
// result when one exists.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.printf("info string invalid perft depth %q\n", args[0])
			return
		}
		depth = d
	}
	u.handleStop()

	b := u.game.Board()
	rec, cached, err := RunPerft(context.Background(), &b, depth, u.cfg, u.store)
	if err != nil {
		u.printf("info string perft: %v\n", err)
		return
	}

	for _, e := range rec.Divide {
		u.printf("%s: %d\n", e.Move, e.Counters.Nodes)
	}
	u.println("")
	u.printf("Nodes: %d\n", rec.Counters.Nodes)
	u.printf("Counters: %s\n", rec.Counters)
	if cached {
		u.println("Cached: true")
	} else {
		u.printf("Time: %v\n", rec.Elapsed)
		if rec.Elapsed > 0 {
			u.printf("NPS: %.0f\n", float64(rec.Counters.Nodes)/rec.Elapsed.Seconds())
		}
	}
}

// RunPerft runs divide on b to depth, consulting and filling store when it
// is non-nil and caching is enabled. cached reports a cache hit.
func RunPerft(ctx context.Context, b *board.Board, depth int, cfg config.Config, store *storage.Storage) (rec storage.PerftRecord, cached bool, err error) {
	fen := b.FEN()
	useCache := store != nil && !cfg.DisableCache
	if useCache {
		rec, err = store.GetPerft(fen, depth)
		if err == nil {
			return rec, true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return rec, false, err
		}
	}

	start := time.Now()
	entries, total, err := movegen.Divide(ctx, b, depth, cfg.PerftWorkers)
	if err != nil {
		return rec, false, err
	}
	rec = storage.PerftRecord{FEN: fen, Depth: depth, Counters: total, Divide: entries, Elapsed: time.Since(start)}
	if useCache {
		if err := store.PutPerft(rec); err != nil {
			return rec, false, err
		}
	}
	return rec, false, nil
}

// handleMove plays a move and, when the side now to move is an engine
// player, lets it answer.
func (u *UCI) handleMove(args []string) {
	if len(args) != 1 {
		u.println("usage: move <from><to>[promotion]")
		return
	}
	u.handleStop()
	m, err := u.game.ApplyMove(args[0])
	if err != nil {
		u.printf("error: %v\n", err)
		return
	}
	u.printf("played %s\n", m.Notation())

	reply, ok, err := u.game.Advance()
	switch {
	case errors.Is(err, game.ErrGameOver):
	case err != nil:
		u.printf("error: %v\n", err)
	case ok:
		u.printf("engine plays %s\n", reply.Notation())
	}
	if st := u.game.Status(); st.Over() || st.InCheck[st.Side] {
		u.println(st.String())
	}
}

func (u *UCI) handleUndo() {
	u.handleStop()
	m, err := u.game.UndoMove()
	if err != nil {
		u.printf("error: %v\n", err)
		return
	}
	u.printf("undid %s\n", m.Notation())
}

// handleEval prints the static evaluation from the side to move. The
// engine's pawn cache belongs to the search, so a running search is
// stopped first.
func (u *UCI) handleEval() {
	u.handleStop()
	b := u.game.Board()
	u.printf("eval %s\n", engine.ScoreToString(u.game.Engine().Evaluate(&b)))
}

// handlePlayer sets who moves for one colour, e.g. "player black engine depth 4".
func (u *UCI) handlePlayer(args []string) {
	if len(args) < 2 {
		u.println("usage: player (white|black) (interactive|engine|external) [depth N]")
		return
	}
	var c board.Color
	switch strings.ToLower(args[0]) {
	case "white", "w":
		c = board.White
	case "black", "b":
		c = board.Black
	default:
		u.printf("error: unknown colour %q\n", args[0])
		return
	}
	kind, err := game.ParsePlayerKind(args[1])
	if err != nil {
		u.printf("error: %v\n", err)
		return
	}
	limits := u.parseLimits(args[2:])
	u.game.SetPlayer(c, game.NewPlayer(kind, limits))
	u.printf("%s is %s\n", strings.ToLower(c.String()), kind)
}
