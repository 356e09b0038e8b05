// request asks a running solve service for a solution:
//
//	request [flags] '<layout>'
//
// The request goes over NATS unless --lambda-function names a function to
// invoke directly.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/bot"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/move"
)

type solveClient interface {
	RequestSolve(ctx context.Context, req bot.SolveRequest) ([]move.Move, error)
}

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	args := cfg.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: request [flags] '<layout>'")
		os.Exit(2)
	}

	ctx := context.Background()
	var client solveClient
	if fn := cfg.GetString(config.ConfigLambdaFunction); fn != "" {
		lc, err := bot.NewLambdaClient(ctx, fn)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-configure-aws")
		}
		client = lc
	} else {
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
		}
		defer nc.Close()
		c := bot.NewClient(nc, cfg.GetString(config.ConfigBotChannel))
		// leave the service room to answer before we give up
		c.SetTimeout(time.Duration(cfg.GetInt(config.ConfigSolveTimeLimit)+20) * time.Second)
		client = c
	}

	req := bot.SolveRequest{
		ID:         fmt.Sprintf("req-%d", time.Now().UnixNano()),
		Layout:     args[0],
		TimeLimit:  cfg.GetInt(config.ConfigSolveTimeLimit),
		DepthLimit: cfg.GetInt(config.ConfigDepthLimit),
	}
	start := time.Now()
	moves, err := client.RequestSolve(ctx, req)
	if err != nil {
		log.Err(err).Str("id", req.ID).Msg("request-failed")
		os.Exit(1)
	}
	log.Info().Int("moves", len(moves)).Dur("elapsed", time.Since(start)).Msg("solved")
	fmt.Println(move.FormatMoves(moves))
}
