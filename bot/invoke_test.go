package bot

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFunction runs the bot in-process the way the deployed function does.
type fakeFunction struct {
	bot   *Bot
	names []string
}

func (f *fakeFunction) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.names = append(f.names, aws.ToString(params.FunctionName))
	var evt LambdaEvent
	if err := json.Unmarshal(params.Payload, &evt); err != nil {
		return nil, err
	}
	resp := f.bot.Solve(ctx, evt.SolveRequest)
	if resp.Error != "" {
		payload, _ := json.Marshal(map[string]string{"errorMessage": resp.Error, "errorType": "errorString"})
		return &lambda.InvokeOutput{FunctionError: aws.String("Unhandled"), Payload: payload}, nil
	}
	body, _ := json.Marshal(resp)
	payload, _ := json.Marshal(string(body))
	return &lambda.InvokeOutput{Payload: payload}, nil
}

func TestLambdaClient(t *testing.T) {
	fn := &fakeFunction{bot: testBot(t, nil)}
	c := &LambdaClient{api: fn, function: "solitaire-solver"}

	moves, err := c.RequestSolve(context.Background(), SolveRequest{ID: "x", Layout: oneMove})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "9:1>4:5", moves[0].String())
	assert.Equal(t, []string{"solitaire-solver"}, fn.names)
}

func TestLambdaClientFunctionError(t *testing.T) {
	c := &LambdaClient{api: &fakeFunction{bot: testBot(t, nil)}, function: "solitaire-solver"}
	_, err := c.RequestSolve(context.Background(), SolveRequest{Layout: "HT8 -"})
	assert.ErrorIs(t, err, ErrFunctionFailed)
	assert.Contains(t, err.Error(), "invalid layout")
}
