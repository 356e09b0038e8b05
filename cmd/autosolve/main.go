// autosolve solves every puzzle in a collection and writes a YAML report.
//
//	autosolve [flags] <collection.yaml> [report.yaml]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/automatic"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/puzzles"
	"github.com/exasolitaire/solitaire/store"
)

func main() {
	// Relative data paths are taken relative to the executable.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}
	cfg.AdjustRelativePaths(exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	args := cfg.Args()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: autosolve [flags] <collection.yaml> [report.yaml]")
		os.Exit(2)
	}

	c, err := puzzles.LoadCollection(cfg, args[0])
	if err != nil {
		log.Fatal().Err(err).Str("collection", args[0]).Msg("could-not-load-collection")
	}

	var st *store.Store
	if path := cfg.GetString(config.ConfigStorePath); path != "" {
		st, err = store.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("could-not-open-solution-store")
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := automatic.NewRunner(cfg, st).Run(ctx, c)
	if err != nil {
		log.Err(err).Msg("autosolve-interrupted")
	}

	records := make([]puzzles.SolutionRecord, len(results))
	for i, res := range results {
		records[i] = res.Record()
	}

	out := os.Stdout
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-create-report")
		}
		defer f.Close()
		out = f
	}
	if err := puzzles.WriteReport(out, records); err != nil {
		log.Fatal().Err(err).Msg("could-not-write-report")
	}

	summary := automatic.Summarize(results)
	fmt.Fprintln(os.Stderr, summary.String())
	if err := summary.WriteHistogram(os.Stderr); err != nil {
		log.Err(err).Msg("could-not-draw-histogram")
	}
}
