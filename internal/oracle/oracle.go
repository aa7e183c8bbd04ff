// Package oracle defines the language-understanding capability the
// dialogue engine consumes, and its LLM-backed implementation. The
// engine only ever sees the Oracle interface, so tests can substitute a
// deterministic stand-in.
package oracle

import (
	"context"
	"errors"
)

// Turn is a single exchange in the conversation history. The first turn
// of a conversation may carry only the user's answer.
type Turn struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
}

// Extraction is the candidate field set interpreted from the full
// conversation history. Ephemeral per turn.
type Extraction struct {
	Fields           map[string]any `json:"fields"`
	Confidence       float64        `json:"confidence"`
	SuggestedMissing []string       `json:"suggested_missing"`
}

// CompletenessReport is the oracle's view of what is still missing.
type CompletenessReport struct {
	MissingFields []string `json:"missing_fields"`
	IsComplete    bool     `json:"is_complete"`
	NextQuestion  string   `json:"next_question"`
}

// GuidanceDraft is a phrased follow-up question for a target field. The
// strategy selection itself is local policy; the oracle only words the
// question.
type GuidanceDraft struct {
	Question         string `json:"question"`
	ExpectedResponse string `json:"expected_response"`
}

// Oracle is the single injected capability contract with three
// operations, all synchronous request/response over conversation text.
type Oracle interface {
	// Extract interprets the full turn history into candidate field values.
	Extract(ctx context.Context, history []Turn) (*Extraction, error)
	// CheckCompleteness reports which fields are missing from the given
	// belief state and whether the conversation can terminate.
	CheckCompleteness(ctx context.Context, state map[string]any) (*CompletenessReport, error)
	// PlanGuidance phrases the next question for the given target field.
	PlanGuidance(ctx context.Context, state map[string]any, targetField string, missingCritical []string) (*GuidanceDraft, error)
}

// ErrMalformed marks a malformed-response fault: the oracle answered but
// the content did not conform to the expected JSON shape. Such faults
// are recoverable no-ops for the calling cycle and are never retried at
// this layer.
var ErrMalformed = errors.New("malformed oracle response")

// IsMalformed reports whether err is a malformed-response fault. Any
// other non-nil oracle error is a fatal conversation fault (transport
// retries already exhausted).
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
