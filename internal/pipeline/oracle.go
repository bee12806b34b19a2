package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

// oracleCaller is the narrow surface the passes use to talk to the model.
// The pipeline fills in model name, token limits and rate limiting so that
// individual passes only describe prompts and documents.
type oracleCaller interface {
	call(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
}

// rateLimitedOracle wraps the raw client with a token bucket and accumulates
// usage across every call made during a run.
type rateLimitedOracle struct {
	client    anthropic.Client
	limiter   *rate.Limiter
	model     string
	maxTokens int64

	mu    sync.Mutex
	usage anthropic.TokenUsage
}

func newRateLimitedOracle(client anthropic.Client, model string, maxTokens int64, rps float64) *rateLimitedOracle {
	if rps <= 0 {
		rps = 1
	}
	return &rateLimitedOracle{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (o *rateLimitedOracle) call(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "pipeline: rate limiter wait")
	}

	if req.Model == "" {
		req.Model = o.model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = o.maxTokens
	}

	resp, err := o.client.CreateMessage(ctx, req)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.usage.Add(resp.Usage)
	o.mu.Unlock()

	zap.L().Debug("oracle: message complete",
		zap.String("model", req.Model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return resp, nil
}

func (o *rateLimitedOracle) totalUsage() anthropic.TokenUsage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.usage
}
