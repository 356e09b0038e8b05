package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/move"
)

var ErrBotResponse = errors.New("bot returned an error")

const DefaultRequestTimeout = 200 * time.Second

// requester is the part of *nats.Conn the client needs.
type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

type Client struct {
	nc       requester
	channel  string
	timeout  time.Duration
	attempts uint
	delay    time.Duration
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return newClient(nc, channel)
}

func newClient(nc requester, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: DefaultRequestTimeout, attempts: 3,
		delay: 100 * time.Millisecond}
}

func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *Client) SetAttempts(n uint) {
	c.attempts = max(n, 1)
}

func formatMoves(moves []move.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}

// RequestSolve sends req to the bot and returns its moves. Transport
// failures are retried with backoff; an error answer from the bot is not.
func (c *Client) RequestSolve(ctx context.Context, req SolveRequest) ([]move.Move, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var resp SolveResponse
	err = retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			msg, err := c.nc.RequestWithContext(rctx, c.channel, data)
			if err != nil {
				return err
			}
			log.Debug().Msgf("res: %v", string(msg.Data))
			resp = SolveResponse{}
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Msg("solve-request-failed-try-again")
		}),
	)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.Join(ErrBotResponse, errors.New(resp.Error))
	}
	return resp.ParsedMoves()
}
