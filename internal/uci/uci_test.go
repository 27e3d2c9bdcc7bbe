package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

func newUCI(t *testing.T, opts ...Option) (*UCI, *game.Game, *bytes.Buffer) {
	t.Helper()
	g := game.New(engine.NewEngine(1), zerolog.Nop())
	var out bytes.Buffer
	cfg := config.Default()
	cfg.HashMB = 1
	cfg.DefaultDepth = 2
	return New(g, cfg, &out, opts...), g, &out
}

func run(t *testing.T, u *UCI, script string) {
	t.Helper()
	if err := u.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func bestMove(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			return rest
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}

func TestHandshake(t *testing.T) {
	u, _, out := newUCI(t)
	run(t, u, "uci\nisready\n")
	for _, want := range []string{"id name ChessCore", "option name Hash type spin", "uciok", "readyok"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPositionAndGo(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string // expected bestmove, "" for any legal move
		info   string
	}{
		{"startpos", "position startpos moves e2e4 e7e5\ngo depth 2\n", "", "info depth 2"},
		{"mate in one", "position fen 6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1\ngo depth 3\n", "a1a8", "score mate 1"},
		{"stalemate", "position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\ngo depth 3\n", "0000", ""},
		{"default limits", "position startpos\ngo\n", "", "info depth 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, g, out := newUCI(t)
			run(t, u, tt.script)
			got := bestMove(t, out.String())
			if tt.want != "" && got != tt.want {
				t.Fatalf("bestmove = %s, want %s\n%s", got, tt.want, out)
			}
			if tt.want == "" {
				if _, err := g.ApplyMove(got); err != nil {
					t.Fatalf("bestmove %s is not legal: %v", got, err)
				}
			}
			if tt.info != "" && !strings.Contains(out.String(), tt.info) {
				t.Errorf("output missing %q:\n%s", tt.info, out)
			}
		})
	}
}

func TestStopInfinite(t *testing.T) {
	u, _, out := newUCI(t)
	done := make(chan error, 1)
	go func() {
		done <- u.Run(strings.NewReader("position startpos\ngo infinite\nstop\n"))
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("stop did not end an infinite search")
	}
	bestMove(t, out.String())
}

func TestPositionErrors(t *testing.T) {
	u, g, out := newUCI(t)
	run(t, u, "position startpos moves e2e4\nposition startpos moves e2e5\nposition fen xyz\nposition sideways\n")
	s := out.String()
	if !strings.Contains(s, "illegal move") || !strings.Contains(s, "invalid FEN") || !strings.Contains(s, "unknown position type") {
		t.Fatalf("missing errors:\n%s", s)
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if g.FEN() != want {
		t.Fatalf("rejected positions changed the game: %s", g.FEN())
	}
}

func TestSetOption(t *testing.T) {
	u, g, out := newUCI(t)
	run(t, u, "setoption name Hash value 0\nsetoption name Hash value 2\nsetoption name Clear Hash\nsetoption name Bogus value 1\n")
	s := out.String()
	if !strings.Contains(s, "HashMB must be at least 1") {
		t.Errorf("invalid hash accepted:\n%s", s)
	}
	if !strings.Contains(s, `unknown option "Bogus"`) {
		t.Errorf("unknown option not reported:\n%s", s)
	}
	if u.cfg.HashMB != 2 {
		t.Errorf("HashMB = %d, want 2", u.cfg.HashMB)
	}
	if size := g.Engine().TT().Size(); size != 32768 {
		t.Errorf("TT size after resize to 2MB = %d, want 32768", size)
	}
}

func TestParseLimits(t *testing.T) {
	u, _, _ := newUCI(t)
	l := u.parseLimits(strings.Fields("wtime 60000 btime 30000 winc 1000 binc 500 movestogo 20 nodes 999"))
	if l.Time[board.White] != time.Minute || l.Time[board.Black] != 30*time.Second {
		t.Errorf("times = %v", l.Time)
	}
	if l.Inc[board.White] != time.Second || l.Inc[board.Black] != 500*time.Millisecond {
		t.Errorf("incs = %v", l.Inc)
	}
	if l.MovesToGo != 20 || l.Nodes != 999 || l.Depth != 0 {
		t.Errorf("limits = %+v", l)
	}
	if l := u.parseLimits(nil); l.Depth != 2 {
		t.Errorf("default depth = %d, want 2", l.Depth)
	}
}

func TestPerftCommand(t *testing.T) {
	store, err := storage.Open(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	u, _, out := newUCI(t, WithStorage(store))
	run(t, u, "position startpos\nperft 2\n")
	s := out.String()
	if !strings.Contains(s, "Nodes: 400") || !strings.Contains(s, "e2e4: 20") {
		t.Fatalf("perft output:\n%s", s)
	}
	if strings.Contains(s, "Cached: true") {
		t.Fatal("first run reported a cache hit")
	}

	out.Reset()
	run(t, u, "perft 2\n")
	if !strings.Contains(out.String(), "Cached: true") || !strings.Contains(out.String(), "Nodes: 400") {
		t.Fatalf("second run not served from cache:\n%s", out)
	}

	if _, err := store.GetPerft(board.StartFEN, 2); err != nil {
		t.Fatalf("result not stored: %v", err)
	}
}

func TestShellCommands(t *testing.T) {
	u, g, out := newUCI(t)
	run(t, u, "player black engine depth 1\nmove e2e4\nfen\nstatus\nundo\nundo\nundo\nbogus\n")
	s := out.String()
	for _, want := range []string{"black is engine", "played e2e4", "engine plays", "in progress", "error: nothing to undo", "unknown command: bogus"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if g.FEN() != board.StartFEN {
		t.Errorf("after undoing both moves: %s", g.FEN())
	}
}

func TestEvalStopsSearch(t *testing.T) {
	u, _, out := newUCI(t)
	done := make(chan error, 1)
	go func() {
		done <- u.Run(strings.NewReader("position startpos\ngo infinite\neval\neval\n"))
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("eval did not end the infinite search")
	}
	s := out.String()
	best, eval := strings.Index(s, "bestmove "), strings.Index(s, "eval ")
	if best < 0 || eval < 0 {
		t.Fatalf("missing bestmove or eval:\n%s", s)
	}
	if eval < best {
		t.Fatalf("eval printed while the search was running:\n%s", s)
	}
	if strings.Count(s, "eval ") != 2 {
		t.Fatalf("want two eval lines:\n%s", s)
	}
}
