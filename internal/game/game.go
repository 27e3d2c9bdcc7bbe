// Package game is the direct-call façade used by front ends: it owns the
// current board, the moves played so far and the repetition history, and
// asks the engine for moves.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/movegen"
	"github.com/hailam/chesscore/internal/referee"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrGameOver      = errors.New("game is over")
)

// PlayerKind says who chooses moves for one side.
type PlayerKind int

const (
	Interactive     PlayerKind = iota // moves arrive through ApplyMove
	LocalEngine                       // moves come from the built-in engine
	ExternalProcess                   // moves arrive through ApplyMove from another program
)

func (k PlayerKind) String() string {
	switch k {
	case LocalEngine:
		return "engine"
	case ExternalProcess:
		return "external"
	}
	return "interactive"
}

// ParsePlayerKind accepts the names produced by PlayerKind.String.
func ParsePlayerKind(s string) (PlayerKind, error) {
	switch strings.ToLower(s) {
	case "interactive", "human":
		return Interactive, nil
	case "engine", "computer":
		return LocalEngine, nil
	case "external":
		return ExternalProcess, nil
	}
	return Interactive, fmt.Errorf("unknown player kind %q", s)
}

// Player describes one side of the game.
type Player struct {
	ID     string
	Kind   PlayerKind
	Limits engine.Limits // used when Kind is LocalEngine
}

// NewPlayer creates a player with a fresh ID.
func NewPlayer(kind PlayerKind, limits engine.Limits) Player {
	return Player{ID: uuid.New().String(), Kind: kind, Limits: limits}
}

// DrawReason says why a game ended drawn.
type DrawReason int

const (
	NoDraw DrawReason = iota
	DrawStalemate
	DrawRepetition
	DrawFiftyMove
	DrawInsufficientMaterial
)

func (d DrawReason) String() string {
	switch d {
	case DrawStalemate:
		return "stalemate"
	case DrawRepetition:
		return "threefold repetition"
	case DrawFiftyMove:
		return "fifty-move rule"
	case DrawInsufficientMaterial:
		return "insufficient material"
	}
	return "none"
}

// Status is the referee's view of the position plus the draw rules that
// depend on game history.
type Status struct {
	referee.Status
	Draw DrawReason
}

// Over reports whether the game has ended.
func (s Status) Over() bool {
	return s.Checkmate || s.Draw != NoDraw
}

func (s Status) String() string {
	if s.Draw != NoDraw && s.Draw != DrawStalemate {
		return "draw by " + s.Draw.String()
	}
	return s.Status.String()
}

// played is one applied move and what is needed to take it back.
type played struct {
	move board.Move
	undo board.Undo
}

// Game holds one game in progress.
type Game struct {
	ID string

	board   board.Board
	moves   []played
	history *engine.History
	players [2]Player
	engine  *engine.Engine
	log     zerolog.Logger
}

// New creates a game at the standard start position. Both sides default to
// Interactive players.
func New(eng *engine.Engine, log zerolog.Logger) *Game {
	g := &Game{
		ID:     uuid.New().String(),
		engine: eng,
		players: [2]Player{
			NewPlayer(Interactive, engine.Limits{}),
			NewPlayer(Interactive, engine.Limits{}),
		},
	}
	g.log = log.With().Str("component", "game").Str("game", g.ID).Logger()
	g.reset(*board.MustParseFEN(board.StartFEN))
	return g
}

func (g *Game) reset(b board.Board) {
	g.board = b
	g.moves = g.moves[:0]
	g.history = engine.NewHistory(b.Hash())
}

// SetPlayer assigns the player for colour c.
func (g *Game) SetPlayer(c board.Color, p Player) {
	g.players[c] = p
}

// Player returns the player for colour c.
func (g *Game) Player(c board.Color) Player {
	return g.players[c]
}

// Engine returns the engine backing LocalEngine players.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// SetPosition loads fen, or the start position for "" and "startpos", then
// plays moves in order. On error the game is left unchanged.
func (g *Game) SetPosition(fen string, moves []string) error {
	if fen == "" || fen == "startpos" {
		fen = board.StartFEN
	}
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
	}

	saved := *g
	saved.moves = append([]played(nil), g.moves...)
	g.moves = nil
	g.reset(*b)
	for _, mv := range moves {
		if _, err := g.ApplyMove(mv); err != nil {
			*g = saved
			return err
		}
	}
	g.log.Debug().Str("fen", g.FEN()).Int("moves", len(moves)).Msg("position set")
	return nil
}

// ApplyMove validates notation against the current position and plays it.
// Illegal moves wrap ErrIllegalMove and name the referee's reason.
func (g *Game) ApplyMove(notation string) (board.Move, error) {
	if len(notation) < 2 {
		return board.NoMove, fmt.Errorf("%w: move %q", board.ErrInvalidNotation, notation)
	}
	from, err := board.ParseSquare(notation[:2])
	if err != nil {
		return board.NoMove, err
	}
	m, err := board.ParseMove(notation, g.board.PieceOn(from))
	if err != nil {
		return board.NoMove, err
	}
	if m.Piece == board.NoPiece {
		return board.NoMove, fmt.Errorf("%w: %s: no piece on %s", ErrIllegalMove, notation, from)
	}
	v, ok := movegen.LegalMove(&g.board, m)
	if !ok {
		return v, fmt.Errorf("%w: %s (%s)", ErrIllegalMove, notation, v.Result)
	}
	g.play(v)
	return v, nil
}

func (g *Game) play(m board.Move) {
	u := g.board.ApplyMove(m)
	g.moves = append(g.moves, played{move: m, undo: u})
	g.history.Push(g.board.Hash())
}

// UndoMove takes back the last move.
func (g *Game) UndoMove() (board.Move, error) {
	n := len(g.moves)
	if n == 0 {
		return board.NoMove, ErrNothingToUndo
	}
	last := g.moves[n-1]
	g.board.UndoMove(last.move, last.undo)
	g.moves = g.moves[:n-1]
	g.history.Pop()
	return last.move, nil
}

// Search asks the engine for the best move in the current position without
// playing it.
func (g *Game) Search(limits engine.Limits) engine.Result {
	return g.engine.Search(&g.board, g.history, limits)
}

// Advance lets a LocalEngine player on move choose and play a move. It
// returns false when the side to move is not an engine player.
func (g *Game) Advance() (board.Move, bool, error) {
	p := g.players[g.board.SideToMove()]
	if p.Kind != LocalEngine {
		return board.NoMove, false, nil
	}
	if st := g.Status(); st.Over() {
		return board.NoMove, false, fmt.Errorf("%w: %s", ErrGameOver, st)
	}
	res := g.Search(p.Limits)
	if res.Move.IsNull() {
		return board.NoMove, false, ErrGameOver
	}
	g.play(res.Move)
	g.log.Info().Str("move", res.Move.Notation()).Str("player", p.ID).Msg("engine move")
	return res.Move, true, nil
}

// Stop interrupts a running Search.
func (g *Game) Stop() {
	g.engine.Stop()
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.board.FEN()
}

// Board returns a copy of the current position.
func (g *Game) Board() board.Board {
	return g.board
}

// Moves returns the moves played since the last SetPosition.
func (g *Game) Moves() []string {
	out := make([]string, len(g.moves))
	for i, p := range g.moves {
		out[i] = p.move.Notation()
	}
	return out
}

// Status reports checkmate, stalemate and the history-dependent draws.
func (g *Game) Status() Status {
	s := Status{Status: referee.CheckBoardStatus(&g.board)}
	switch {
	case s.Checkmate:
	case s.Stalemate:
		s.Draw = DrawStalemate
	case g.history.IsRepetition():
		s.Draw = DrawRepetition
	case g.board.HalfMoveClock() >= 100:
		s.Draw = DrawFiftyMove
	case g.board.IsInsufficientMaterial():
		s.Draw = DrawInsufficientMaterial
	}
	return s
}
