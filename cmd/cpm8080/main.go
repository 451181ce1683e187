// Command cpm8080 runs CP/M .COM programs, such as the TST8080, 8080PRE,
// CPUTEST and 8080EXM CPU exercisers, on the emulated 8080.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/thelolagemann/go-invaders/internal/cpm"
	"github.com/thelolagemann/go-invaders/pkg/log"
	"golang.org/x/term"
)

func main() {
	logLevel := flag.String("log-level", "info", "The log level. Can be debug, info, warn or error")
	limit := flag.Uint64("limit", 0, "Stop a program after this many instructions (0 for no limit)")
	debug := flag.Bool("debug", false, "Trace every instruction (requires -log-level debug)")
	raw := flag.Bool("raw", false, "Put the terminal in raw mode so programs see single keystrokes")
	args := flag.String("args", "", "The command tail passed to each program")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] program.com...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.WithLevel(*logLevel)
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(logger, flag.Args(), *raw, *debug, *limit, *args))
}

func run(logger log.Logger, programs []string, raw, debug bool, limit uint64, args string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fd := int(os.Stdin.Fd())
	if raw && term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			logger.Errorf("unable to set raw mode: %v", err)
		} else {
			defer func() {
				_ = term.Restore(fd, state)
			}()
		}
	}

	failed := 0
	for _, path := range programs {
		opts := []cpm.Opt{
			cpm.WithLogger(logger),
			cpm.WithOutput(os.Stdout),
			cpm.WithInstructionLimit(limit),
			cpm.WithArgs(args),
		}
		// the console is drained for the life of a program, so only a
		// single program may own it
		if len(programs) == 1 {
			opts = append(opts, cpm.WithInput(os.Stdin))
		}
		if debug {
			opts = append(opts, cpm.Debug())
		}

		m, err := cpm.Open(path, opts...)
		if err != nil {
			logger.Errorf("%v", err)
			failed++
			continue
		}

		res, err := m.Run(ctx)
		fmt.Println()
		if err != nil {
			logger.Errorf("%s: %v", path, err)
			failed++
			if ctx.Err() != nil {
				break
			}
			continue
		}
		logger.Infof("%s: %d instructions, %d cycles in %s (%.2f MHz)", filepath.Base(path),
			res.Instructions, res.Cycles, res.Elapsed, float64(res.Cycles)/res.Elapsed.Seconds()/1e6)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
