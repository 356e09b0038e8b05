package bot

import (
	"github.com/exasolitaire/solitaire/move"
)

// SolveRequest asks for a layout to be solved. Limits of zero mean the
// service's configured limits.
type SolveRequest struct {
	ID         string `json:"id,omitempty"`
	Layout     string `json:"layout"`
	TimeLimit  int    `json:"time_limit,omitempty"` // seconds
	DepthLimit int    `json:"depth_limit,omitempty"`
}

type SolveResponse struct {
	ID     string   `json:"id,omitempty"`
	Moves  []string `json:"moves"`
	Error  string   `json:"error,omitempty"`
	Nodes  uint64   `json:"nodes"`
	Cached bool     `json:"cached,omitempty"`
}

// ParsedMoves decodes the moves of a successful response.
func (r *SolveResponse) ParsedMoves() ([]move.Move, error) {
	moves := make([]move.Move, 0, len(r.Moves))
	for _, s := range r.Moves {
		m, err := move.ParseMove(s)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// LambdaEvent is the payload of a serverless solve invocation. When
// ReplyChannel is set the response is also published there.
type LambdaEvent struct {
	SolveRequest
	ReplyChannel string `json:"reply_channel,omitempty"`
}
