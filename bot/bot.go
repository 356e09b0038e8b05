package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/notation"
	"github.com/exasolitaire/solitaire/solver"
	"github.com/exasolitaire/solitaire/store"
)

// Bot answers solve requests. It is safe for concurrent use; every request
// gets its own solver.
type Bot struct {
	config *config.Config
	store  *store.Store
}

// NewBot returns a bot. st may be nil.
func NewBot(cfg *config.Config, st *store.Store) *Bot {
	return &Bot{config: cfg, store: st}
}

func errorResponse(id, message string, err error) *SolveResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &SolveResponse{ID: id, Moves: []string{}, Error: msg}
}

func movesResponse(id string, moves []string, nodes uint64, cached bool) *SolveResponse {
	return &SolveResponse{ID: id, Moves: moves, Nodes: nodes, Cached: cached}
}

// Handle decodes a JSON request and solves it.
func (bot *Bot) Handle(ctx context.Context, data []byte) *SolveResponse {
	req := SolveRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("", "could not parse request", err)
	}
	return bot.Solve(ctx, req)
}

func (bot *Bot) options(req SolveRequest) solver.Options {
	opts := bot.config.SolverOptions()
	// a request may tighten the configured limits but not loosen them
	if req.TimeLimit > 0 {
		opts.TimeLimit = min(opts.TimeLimit, time.Duration(req.TimeLimit)*time.Second)
	}
	if req.DepthLimit > 0 {
		opts.DepthLimit = min(opts.DepthLimit, req.DepthLimit)
	}
	return opts
}

// Solve answers a request.
func (bot *Bot) Solve(ctx context.Context, req SolveRequest) *SolveResponse {
	logger := log.With().Str("id", req.ID).Logger()
	parsed, err := notation.Parse(req.Layout)
	if err != nil {
		return errorResponse(req.ID, "could not parse layout", err)
	}
	b := parsed.Board
	if !b.IsPlayableComposition() {
		return errorResponse(req.ID, "invalid layout", board.ErrInvalidComposition)
	}

	if bot.store != nil {
		sol, err := bot.store.Get(ctx, b)
		if err == nil {
			logger.Info().Msg("solution-from-store")
			return movesResponse(req.ID, formatMoves(sol.Moves), sol.Nodes, true)
		}
		if !errors.Is(err, store.ErrNotFound) {
			logger.Err(err).Msg("store-lookup-failed")
		}
	}

	s := solver.NewSolverWithOptions(bot.options(req))
	moves, err := s.Solve(ctx, b)
	nodes := s.Stats().Expanded
	if err != nil {
		resp := errorResponse(req.ID, "no solution", err)
		resp.Nodes = nodes
		return resp
	}
	if bot.store != nil {
		if err := bot.store.Put(ctx, b, moves, nodes); err != nil {
			logger.Err(err).Msg("store-put-failed")
		}
	}
	logger.Info().Int("moves", len(moves)).Uint64("nodes", nodes).Msg("solved")
	return movesResponse(req.ID, formatMoves(moves), nodes, false)
}

// Serve subscribes the bot on channel. Requests are handled one at a time
// in the subscription's goroutine.
func (bot *Bot) Serve(ctx context.Context, nc *nats.Conn, channel string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.Handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return nil, err
	}
	if err := nc.Flush(); err != nil {
		return nil, err
	}
	if err := nc.LastError(); err != nil {
		return nil, err
	}
	log.Info().Msgf("Listening on [%s]", channel)
	return sub, nil
}

// Main connects to NATS and serves until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()
	if _, err := bot.Serve(ctx, nc, channel); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info().Msg("bot-draining")
	return nc.Drain()
}
