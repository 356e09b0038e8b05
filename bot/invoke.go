package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/move"
)

var ErrFunctionFailed = errors.New("solve function failed")

// invoker is the part of *lambda.Client the invoke client needs.
type invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient sends solve requests straight to the serverless solve
// function instead of going through NATS.
type LambdaClient struct {
	api      invoker
	function string
}

// NewLambdaClient uses the default AWS credential chain.
func NewLambdaClient(ctx context.Context, function string) (*LambdaClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &LambdaClient{api: lambda.NewFromConfig(cfg), function: function}, nil
}

// RequestSolve invokes the function synchronously and returns its moves.
func (c *LambdaClient) RequestSolve(ctx context.Context, req SolveRequest) ([]move.Move, error) {
	payload, err := json.Marshal(LambdaEvent{SolveRequest: req})
	if err != nil {
		return nil, err
	}
	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.function),
		Payload:      payload,
	})
	if err != nil {
		return nil, err
	}
	if out.FunctionError != nil {
		log.Debug().Str("payload", string(out.Payload)).Msg("function-error")
		return nil, fmt.Errorf("%w: %s: %s", ErrFunctionFailed, aws.ToString(out.FunctionError),
			functionErrorMessage(out.Payload))
	}
	// the handler returns the encoded response as a string
	var body string
	if err := json.Unmarshal(out.Payload, &body); err != nil {
		return nil, err
	}
	var resp SolveResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.Join(ErrBotResponse, errors.New(resp.Error))
	}
	return resp.ParsedMoves()
}

func functionErrorMessage(payload []byte) string {
	var e struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(payload, &e); err != nil || e.ErrorMessage == "" {
		return string(payload)
	}
	return e.ErrorMessage
}
