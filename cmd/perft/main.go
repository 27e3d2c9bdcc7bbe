// Command perft counts leaf nodes below a position, split by root move, and
// caches results in the data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/logging"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	cfg := config.Default()
	fen := flag.String("fen", board.StartFEN, "position to count from")
	depth := flag.Int("depth", 4, "perft depth")
	flag.IntVar(&cfg.PerftWorkers, "workers", cfg.PerftWorkers, "parallel workers")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "database directory (default: platform data dir)")
	flag.BoolVar(&cfg.DisableCache, "nocache", cfg.DisableCache, "ignore and do not write the cache")
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")
	divide := flag.Bool("divide", false, "print per-move counts")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, os.Stderr, true)

	b, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("bad position")
	}
	if *depth < 1 {
		log.Fatal().Int("depth", *depth).Msg("depth must be at least 1")
	}

	var store *storage.Storage
	if !cfg.DisableCache {
		if store, err = storage.Open(cfg.DataDir, log); err != nil {
			log.Warn().Err(err).Msg("cache unavailable, counting without it")
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec, cached, err := uci.RunPerft(ctx, b, *depth, cfg, store)
	if err != nil {
		log.Error().Err(err).Msg("perft failed")
		return
	}

	if *divide {
		for _, e := range rec.Divide {
			fmt.Printf("%s: %d\n", e.Move, e.Counters.Nodes)
		}
		fmt.Println()
	}
	fmt.Printf("depth %d: %s\n", rec.Depth, rec.Counters)
	log.Info().
		Bool("cached", cached).
		Dur("elapsed", rec.Elapsed).
		Uint64("nodes", rec.Counters.Nodes).
		Msg("perft complete")
}
