package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/bot"
	"github.com/exasolitaire/solitaire/config"
)

var cfg *config.Config
var nc *nats.Conn

// HardTimeLimit caps a single invocation, in seconds. It stays under the
// usual function timeout so a reply can still be sent.
const HardTimeLimit = 170

// requestTimeLimit is the time the solver may spend on evt.
func requestTimeLimit(evt bot.LambdaEvent) int {
	if evt.TimeLimit > 0 && evt.TimeLimit < HardTimeLimit {
		return evt.TimeLimit
	}
	return HardTimeLimit
}

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (string, error) {
	logger := log.With().Str("id", evt.ID).Logger()

	req := evt.SolveRequest
	req.TimeLimit = requestTimeLimit(evt)
	logger.Info().Int("time-limit", req.TimeLimit).Str("layout", evt.Layout).Msg("solve-request")

	ctx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeLimit)*time.Second)
	defer cancel()

	resp := bot.NewBot(cfg, nil).Solve(ctx, req)
	data, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	if evt.ReplyChannel != "" && nc != nil {
		logger.Info().Msg("solve-done-sending-via-nats")
		err = retry.Do(
			func() error {
				// Only the acknowledgement matters, not its contents.
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				return err
			},
			retry.Attempts(5),
			retry.OnRetry(func(n uint, err error) {
				logger.Err(err).Uint("n", n).Msg("did-not-receive-ack-try-again")
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	return string(data), nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg = config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	cfg.AdjustRelativePaths(exPath)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	nc, err = nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
