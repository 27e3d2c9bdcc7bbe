// Command magicgen searches for magic multipliers and prints them as Go
// tables ready to paste into internal/board/magic.go.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/logging"
)

func main() {
	seed := flag.Uint64("seed", 0, "PRNG seed (0 = default)")
	attempts := flag.Int("attempts", 1<<24, "candidate budget per square (0 = unbounded)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall time limit")
	tight := flag.Bool("tight", false, "use the minimal shift per square instead of the baked fixed shift")
	workers := flag.Int("workers", 8, "squares searched in parallel")
	logLevel := flag.String("log", "info", "log level")
	flag.Parse()

	log := logging.New(*logLevel, os.Stderr, true)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	search := board.MagicSearch{Seed: *seed, MaxAttempts: *attempts}
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, class := range []board.SliderClass{board.RookClass, board.BishopClass} {
		var magics [64]uint64
		var shifts [64]uint8

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(*workers)
		for sq := board.A1; sq <= board.H8; sq++ {
			sq := sq
			g.Go(func() error {
				_, shift := board.BakedMagic(class, sq)
				if *tight {
					shift = uint8(64 - board.RelevantMask(class, sq).PopCount())
				}
				start := time.Now()
				magic, tried, err := search.FindMagic(gctx, class, sq, shift)
				if err != nil {
					return err
				}
				if err := board.ValidateMagic(class, sq, magic, shift); err != nil {
					return err
				}
				magics[sq], shifts[sq] = magic, shift
				log.Debug().
					Str("class", class.String()).
					Str("square", sq.String()).
					Int("attempts", tried).
					Dur("elapsed", time.Since(start)).
					Msg("magic found")
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatal().Err(err).Str("class", class.String()).Msg("magic search failed")
		}

		fmt.Fprintf(out, "var %sMagicNumbers = [64]uint64{\n", class)
		for sq := 0; sq < 64; sq++ {
			if sq%4 == 0 {
				fmt.Fprint(out, "\t")
			}
			fmt.Fprintf(out, "0x%016X,", magics[sq])
			if sq%4 == 3 {
				fmt.Fprintln(out)
			} else {
				fmt.Fprint(out, " ")
			}
		}
		fmt.Fprintln(out, "}")
		if *tight {
			fmt.Fprintf(out, "\nvar %sShifts = %#v\n", class, shifts)
		}
		fmt.Fprintln(out)
		log.Info().Str("class", class.String()).Msg("table complete")
	}
}
