package llm

import (
	"context"
	"sync"
)

// UsageTracker wraps a Provider and accumulates token usage across calls.
// One tracker is scoped to one conversation.
type UsageTracker struct {
	provider Provider
	mu       sync.Mutex
	input    int
	output   int
	calls    int
}

// NewUsageTracker wraps the given provider with usage accounting.
func NewUsageTracker(provider Provider) *UsageTracker {
	return &UsageTracker{provider: provider}
}

func (u *UsageTracker) Name() string {
	return u.provider.Name()
}

func (u *UsageTracker) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := u.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.input += resp.InputTokens
	u.output += resp.OutputTokens
	u.calls++
	u.mu.Unlock()

	return resp, nil
}

// Usage returns the accumulated call count and token totals.
func (u *UsageTracker) Usage() (calls, inputTokens, outputTokens int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls, u.input, u.output
}

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var priceTable = map[string]modelPricing{
	"claude-sonnet-4-5-20250929": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-4-5-20251001":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"gpt-4o":                     {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.60},
}

// EstimateCost returns the estimated cost in USD for the given model and
// token counts. Returns 0 if the model is not in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*pricing.InputPerMillion +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMillion
}
