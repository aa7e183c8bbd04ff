package dialogue

import (
	"context"
	"testing"

	"github.com/fieldops/intake/internal/oracle"
)

// fakeOracle is a deterministic Oracle for tests. Nil hooks get benign
// defaults: empty extraction, empty report, empty draft.
type fakeOracle struct {
	extractFn func(history []oracle.Turn) (*oracle.Extraction, error)
	checkFn   func(state map[string]any) (*oracle.CompletenessReport, error)
	planFn    func(state map[string]any, target string, missing []string) (*oracle.GuidanceDraft, error)

	extractCalls int
	checkCalls   int
	planCalls    int
}

func (f *fakeOracle) Extract(_ context.Context, history []oracle.Turn) (*oracle.Extraction, error) {
	f.extractCalls++
	if f.extractFn != nil {
		return f.extractFn(history)
	}
	return &oracle.Extraction{Fields: map[string]any{}}, nil
}

func (f *fakeOracle) CheckCompleteness(_ context.Context, state map[string]any) (*oracle.CompletenessReport, error) {
	f.checkCalls++
	if f.checkFn != nil {
		return f.checkFn(state)
	}
	return &oracle.CompletenessReport{}, nil
}

func (f *fakeOracle) PlanGuidance(_ context.Context, state map[string]any, target string, missing []string) (*oracle.GuidanceDraft, error) {
	f.planCalls++
	if f.planFn != nil {
		return f.planFn(state, target, missing)
	}
	return &oracle.GuidanceDraft{}, nil
}

// stateWith builds a belief state holding the given fields.
func stateWith(t *testing.T, fields map[string]any) *State {
	t.Helper()
	s := NewState()
	s.Merge(fields)
	if s.Len() != len(fields) {
		t.Fatalf("test fixture rejected by Merge: wanted %d fields, kept %d", len(fields), s.Len())
	}
	return s
}

// criticalFields is a full critical tier.
func criticalFields() map[string]any {
	return map[string]any{
		"service_type":    "ac_repair",
		"problem_summary": "AC blowing warm air",
		"contact_name":    "Jane Doe",
		"contact_phone":   "416-555-0133",
	}
}

// highFields is a full high tier.
func highFields() map[string]any {
	return map[string]any{
		"property_type": "detached_house",
		"address":       "12 Maple St",
		"city":          "Toronto",
		"province":      "ON",
	}
}

func mergeMaps(ms ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
