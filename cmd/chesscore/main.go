package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"golang.org/x/term"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/logging"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	cfg := config.Default()
	flag.IntVar(&cfg.HashMB, "hash", cfg.HashMB, "transposition table size in MB")
	flag.IntVar(&cfg.DefaultDepth, "depth", cfg.DefaultDepth, "search depth for a bare \"go\"")
	flag.DurationVar(&cfg.MoveTime, "movetime", cfg.MoveTime, "time limit for a bare \"go\" (0 = depth only)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "database directory (default: platform data dir)")
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: trace, debug, info, warn, error, disabled")
	flag.IntVar(&cfg.PerftWorkers, "workers", cfg.PerftWorkers, "parallel perft workers")
	flag.BoolVar(&cfg.DisableCache, "nocache", cfg.DisableCache, "do not cache perft results")
	shell := flag.Bool("shell", false, "force the interactive shell even when stdin is not a terminal")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	flag.Parse()

	interactive := *shell || term.IsTerminal(int(os.Stdin.Fd()))
	cfg.LogPretty = term.IsTerminal(int(os.Stderr.Fd()))
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Logs go to stderr so stdout stays protocol-clean.
	log := logging.New(cfg.LogLevel, os.Stderr, cfg.LogPretty)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("CPU profiling enabled")
	}

	var opts []uci.Option
	opts = append(opts, uci.WithLogger(log))
	if !cfg.DisableCache {
		store, err := storage.Open(cfg.DataDir, log)
		if err != nil {
			log.Warn().Err(err).Msg("perft cache unavailable")
		} else {
			defer store.Close()
			opts = append(opts, uci.WithStorage(store))
		}
	}

	eng := engine.NewEngine(cfg.HashMB, engine.WithLogger(log))
	g := game.New(eng, log)
	protocol := uci.New(g, cfg, os.Stdout, opts...)

	var err error
	if interactive {
		err = protocol.RunShell(historyFile())
	} else {
		err = protocol.Run(os.Stdin)
	}
	if err != nil {
		log.Error().Err(err).Msg("input loop failed")
	}
}

// historyFile returns "" when there is no data directory, which disables
// shell history.
func historyFile() string {
	path, err := storage.HistoryFile()
	if err != nil {
		return ""
	}
	return path
}
