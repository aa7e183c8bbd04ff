package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fieldops/intake/internal/oracle"
)

func TestDecideGreetsOnFirstTurn(t *testing.T) {
	g := decide(NewState(), 1)

	if g.Strategy != StrategyGreet {
		t.Fatalf("Strategy = %v, want greet", g.Strategy)
	}
	if g.Field != "service_type" {
		t.Errorf("Field = %q, want service_type", g.Field)
	}
	if !strings.HasPrefix(g.Question, "Hi!") {
		t.Errorf("greeting question missing opener: %q", g.Question)
	}
}

func TestDecideNoGreetWhenCriticalKnown(t *testing.T) {
	s := stateWith(t, map[string]any{"service_type": "cleaning"})

	g := decide(s, 1)
	if g.Strategy != StrategyCritical {
		t.Errorf("Strategy = %v, want critical (any known critical field suppresses the greeting)", g.Strategy)
	}
	if g.Field != "problem_summary" {
		t.Errorf("Field = %q, want problem_summary (next unresolved in declaration order)", g.Field)
	}
}

func TestDecideNoGreetAfterFirstTurn(t *testing.T) {
	if g := decide(NewState(), 2); g.Strategy != StrategyCritical {
		t.Errorf("Strategy = %v, want critical on turn 2", g.Strategy)
	}
}

func TestDecideTierOrder(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]any
		wantStrat Strategy
		wantField string
	}{
		{
			"critical done asks high",
			criticalFields(),
			StrategyHigh, "property_type",
		},
		{
			"high done asks medium",
			mergeMaps(criticalFields(), highFields()),
			StrategyMedium, "preferred_timeslots",
		},
		{
			"medium done asks low even though state is complete",
			mergeMaps(criticalFields(), highFields(),
				map[string]any{"preferred_timeslots": []string{"tomorrow"}, "severity": "high"}),
			StrategyOptional, "equipment_brand",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := decide(stateWith(t, tt.fields), 5)
			if g.Strategy != tt.wantStrat || g.Field != tt.wantField {
				t.Errorf("decide = (%v, %q), want (%v, %q)", g.Strategy, g.Field, tt.wantStrat, tt.wantField)
			}
		})
	}
}

func TestDecideSkipsSkippedFields(t *testing.T) {
	s := stateWith(t, mergeMaps(criticalFields(), highFields(),
		map[string]any{"severity": "high", "preferred_timeslots": []string{"weekend"}}))
	s.Skip("equipment_brand")

	g := decide(s, 6)
	if g.Field != "access_notes" {
		t.Errorf("Field = %q, want access_notes (skipped fields are never re-asked)", g.Field)
	}
}

func TestDecideConfirmWhenAllResolved(t *testing.T) {
	s := stateWith(t, mergeMaps(criticalFields(), highFields(),
		map[string]any{"severity": "high", "preferred_timeslots": []string{"weekend"}}))
	for _, name := range []string{"equipment_brand", "access_notes", "constraints"} {
		s.Skip(name)
	}

	g := decide(s, 7)
	if g.Strategy != StrategyConfirm {
		t.Fatalf("Strategy = %v, want confirm", g.Strategy)
	}
	if g.Field != "" {
		t.Errorf("confirm guidance should carry no target field, got %q", g.Field)
	}
}

func TestPlanUsesOraclePhrasing(t *testing.T) {
	fo := &fakeOracle{
		planFn: func(state map[string]any, target string, missing []string) (*oracle.GuidanceDraft, error) {
			if target != "service_type" {
				t.Errorf("target = %q, want service_type", target)
			}
			if len(missing) != 4 {
				t.Errorf("missingCritical = %v, want all four critical fields", missing)
			}
			return &oracle.GuidanceDraft{Question: "What brings you in today?"}, nil
		},
	}

	g := NewPlanner(fo).Plan(context.Background(), NewState(), 1, "")
	if g.Question != "What brings you in today?" {
		t.Errorf("Question = %q, want the oracle's phrasing", g.Question)
	}
	if g.Strategy != StrategyGreet || g.Field != "service_type" {
		t.Errorf("oracle phrasing must not change the decision: (%v, %q)", g.Strategy, g.Field)
	}
}

func TestPlanKeepsTemplateWhenOracleDraftEmpty(t *testing.T) {
	fo := &fakeOracle{} // default draft has no question
	g := NewPlanner(fo).Plan(context.Background(), NewState(), 2, "")

	if g.Question == "" {
		t.Fatal("empty question presented to the user")
	}
}

func TestPlanFallsBackToCheckerHint(t *testing.T) {
	fo := &fakeOracle{
		planFn: func(map[string]any, string, []string) (*oracle.GuidanceDraft, error) {
			return nil, errors.New("oracle down")
		},
	}

	g := NewPlanner(fo).Plan(context.Background(), NewState(), 2, "Could you tell me the service you need?")
	if g.Question != "Could you tell me the service you need?" {
		t.Errorf("Question = %q, want the checker hint", g.Question)
	}
}

func TestPlanOptionalFallbackMentionsSkip(t *testing.T) {
	fo := &fakeOracle{
		planFn: func(map[string]any, string, []string) (*oracle.GuidanceDraft, error) {
			return nil, errors.New("oracle down")
		},
	}
	s := stateWith(t, mergeMaps(criticalFields(), highFields(),
		map[string]any{"severity": "high", "preferred_timeslots": []string{"weekend"}}))

	// The checker hint never phrases the skip option, so optional-field
	// questions must stay on the template.
	g := NewPlanner(fo).Plan(context.Background(), s, 6, "Anything else?")
	if !strings.Contains(strings.ToLower(g.Question), "skip") {
		t.Errorf("optional question must mention skip, got %q", g.Question)
	}
}

func TestPlanConfirmSkipsOracle(t *testing.T) {
	fo := &fakeOracle{
		planFn: func(map[string]any, string, []string) (*oracle.GuidanceDraft, error) {
			t.Fatal("PlanGuidance called for the terminal confirm strategy")
			return nil, nil
		},
	}
	s := stateWith(t, mergeMaps(criticalFields(), highFields(),
		map[string]any{"severity": "high", "preferred_timeslots": []string{"weekend"},
			"equipment_brand": "Carrier", "access_notes": "side gate", "constraints": []string{"weekday only"}}))

	if g := NewPlanner(fo).Plan(context.Background(), s, 8, ""); g.Strategy != StrategyConfirm {
		t.Errorf("Strategy = %v, want confirm", g.Strategy)
	}
}
