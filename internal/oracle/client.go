package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fieldops/intake/internal/llm"
	"github.com/fieldops/intake/internal/schema"
)

const (
	// Extraction and completeness lean deterministic for consistent
	// field capture; guidance runs hot to vary question phrasing.
	extractTemperature  = 0.1
	checkTemperature    = 0.1
	guidanceTemperature = 0.7
	summaryTemperature  = 0.2

	transportAttempts = 3
	transportDelay    = 500 * time.Millisecond
)

// LLMOracle implements Oracle on top of an llm.Provider.
type LLMOracle struct {
	provider llm.Provider
}

// NewLLMOracle creates an oracle backed by the given provider.
func NewLLMOracle(provider llm.Provider) *LLMOracle {
	return &LLMOracle{provider: provider}
}

func (o *LLMOracle) Extract(ctx context.Context, history []Turn) (*Extraction, error) {
	content, err := o.complete(ctx, extractionSystemPrompt, renderHistory(history), extractTemperature, true)
	if err != nil {
		return nil, err
	}

	parsed, err := parseJSONObject(content)
	if err != nil {
		return nil, err
	}

	var result Extraction
	if err := validateShape(parsed, "extraction", extractionSchema.Validate, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (o *LLMOracle) CheckCompleteness(ctx context.Context, state map[string]any) (*CompletenessReport, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding belief state: %w", err)
	}

	user := "Booking information collected so far:\n" + string(stateJSON)
	content, err := o.complete(ctx, completenessSystemPrompt, user, checkTemperature, true)
	if err != nil {
		return nil, err
	}

	parsed, err := parseJSONObject(content)
	if err != nil {
		return nil, err
	}

	var report CompletenessReport
	if err := validateShape(parsed, "completeness", completenessSchema.Validate, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (o *LLMOracle) PlanGuidance(ctx context.Context, state map[string]any, targetField string, missingCritical []string) (*GuidanceDraft, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding belief state: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking information collected so far:\n%s\n\n", stateJSON)
	fmt.Fprintf(&sb, "Target field to ask for: %s\n", targetField)
	if f, ok := schema.ByName(targetField); ok {
		if f.Hint != "" {
			fmt.Fprintf(&sb, "Expected answer: %s\n", f.Hint)
		}
		if f.Tier == schema.TierLow {
			sb.WriteString("This field is optional; skipping is allowed.\n")
		}
	}
	if len(missingCritical) > 0 {
		fmt.Fprintf(&sb, "Still missing critical fields: %s\n", strings.Join(missingCritical, ", "))
	}

	content, err := o.complete(ctx, guidanceSystemPrompt, sb.String(), guidanceTemperature, true)
	if err != nil {
		return nil, err
	}

	parsed, err := parseJSONObject(content)
	if err != nil {
		return nil, err
	}

	var draft GuidanceDraft
	if err := validateShape(parsed, "guidance", guidanceSchema.Validate, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Summarize produces a short plain-text closing summary of a confirmed
// booking. Not part of the core Oracle contract; a failed summary never
// blocks the booking.
func (o *LLMOracle) Summarize(ctx context.Context, booking map[string]any) (string, error) {
	bookingJSON, err := json.Marshal(booking)
	if err != nil {
		return "", fmt.Errorf("encoding booking: %w", err)
	}

	system := "You are a professional HVAC booking agent. Write a brief, friendly plain-text summary (2-3 sentences) of the confirmed booking below. No markdown, no JSON."
	return o.complete(ctx, system, string(bookingJSON), summaryTemperature, false)
}

// complete performs one chat completion with bounded retry on transient
// transport faults. Malformed content is never retried here; the caller
// classifies it per cycle.
func (o *LLMOracle) complete(ctx context.Context, system, user string, temperature float64, jsonMode bool) (string, error) {
	req := llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: temperature,
		JSONMode:    jsonMode,
	}

	var content string
	err := retry.Do(
		func() error {
			resp, err := o.provider.Complete(ctx, req)
			if err != nil {
				return err
			}
			content = resp.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(transportAttempts),
		retry.Delay(transportDelay),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("oracle call failed: %w", err)
	}
	return content, nil
}

// isTransient reports whether err is a transport-class fault worth
// retrying: connection and timeout errors, plus rate-limit and
// server-side HTTP statuses. API rejections and malformed content are
// not retried.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	return false
}
