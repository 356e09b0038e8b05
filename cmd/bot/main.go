package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/bot"
	"github.com/exasolitaire/solitaire/config"
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
	log.Info().Interface("config", cfg.SanitizedSettings()).Str("exPath", exPath).Msg("loaded-config")

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
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

	b := bot.NewBot(cfg, st)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigBotChannel), b); err != nil {
		log.Err(err).Msg("bot-exited")
		return
	}
	log.Info().Msg("server gracefully shutting down")
}
