package uci

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// RunShell runs an interactive console on the terminal with line editing
// and history. It accepts the same commands as Run.
func (u *UCI) RunShell(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chesscore> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	u.outMu.Lock()
	u.out = rl.Stdout()
	u.outMu.Unlock()

	u.println("ChessCore shell. Type 'help' for commands.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				u.handleStop()
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			u.handleStop()
			return nil
		}
		if err != nil {
			return err
		}
		if !u.Execute(strings.TrimSpace(line)) {
			return nil
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("position",
			readline.PcItem("startpos", readline.PcItem("moves")),
			readline.PcItem("fen"),
		),
		readline.PcItem("go",
			readline.PcItem("depth"),
			readline.PcItem("movetime"),
			readline.PcItem("nodes"),
			readline.PcItem("infinite"),
		),
		readline.PcItem("player",
			readline.PcItem("white", readline.PcItem("engine"), readline.PcItem("interactive")),
			readline.PcItem("black", readline.PcItem("engine"), readline.PcItem("interactive")),
		),
		readline.PcItem("setoption", readline.PcItem("name", readline.PcItem("Hash"), readline.PcItem("Clear"))),
		readline.PcItem("move"),
		readline.PcItem("undo"),
		readline.PcItem("perft"),
		readline.PcItem("status"),
		readline.PcItem("eval"),
		readline.PcItem("fen"),
		readline.PcItem("stop"),
		readline.PcItem("ucinewgame"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
