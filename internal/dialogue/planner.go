package dialogue

import (
	"context"
	"log"

	"github.com/fieldops/intake/internal/oracle"
	"github.com/fieldops/intake/internal/schema"
)

// Strategy is the discrete guidance state chosen for a turn. The six
// strategies form a closed set with an explicit transition function;
// the choice is recomputed fresh from the belief state every turn.
type Strategy int

const (
	// StrategyGreet opens the conversation: no critical field is known
	// yet and this is the first turn.
	StrategyGreet Strategy = iota
	// StrategyCritical fills the remaining critical fields in order.
	StrategyCritical
	// StrategyHigh fills the high-tier fields once critical is done.
	StrategyHigh
	// StrategyMedium fills the medium-tier fields.
	StrategyMedium
	// StrategyOptional offers the low-tier fields, skippable.
	StrategyOptional
	// StrategyConfirm is terminal: the state is complete, summarize and
	// confirm.
	StrategyConfirm
)

func (s Strategy) String() string {
	switch s {
	case StrategyGreet:
		return "greet"
	case StrategyCritical:
		return "critical"
	case StrategyHigh:
		return "high"
	case StrategyMedium:
		return "medium"
	case StrategyOptional:
		return "optional"
	case StrategyConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Guidance is the planner's decision for one turn: exactly one target
// field (empty for the terminal confirm strategy) and the question to
// present. Ephemeral; recomputed every turn.
type Guidance struct {
	Strategy Strategy
	Field    string
	Question string
	Hint     string
}

// decide picks the strategy and target field from the current belief
// state. Pure function evaluated fresh every turn: preconditions are
// checked top-down, tier order critical→high→medium→low, fixed
// declaration order within a tier, one field per question, never two
// tiers in one question. Confirm is reached only when no askable field
// remains unresolved.
func decide(s *State, turn int) Guidance {
	if target, ok := firstUnresolved(s, schema.TierCritical); ok {
		strat := StrategyCritical
		if turn == 1 && countPresent(s, schema.TierCritical) == 0 {
			strat = StrategyGreet
		}
		return guidanceFor(strat, target)
	}

	if target, ok := firstUnresolved(s, schema.TierHigh); ok {
		return guidanceFor(StrategyHigh, target)
	}

	if target, ok := firstUnresolved(s, schema.TierMedium); ok {
		return guidanceFor(StrategyMedium, target)
	}

	if target, ok := firstUnresolved(s, schema.TierLow); ok {
		return guidanceFor(StrategyOptional, target)
	}

	return Guidance{Strategy: StrategyConfirm}
}

func firstUnresolved(s *State, tier schema.Tier) (schema.Field, bool) {
	for _, f := range schema.PromptedInTier(tier) {
		if !s.Resolved(f.Name) {
			return f, true
		}
	}
	return schema.Field{}, false
}

func countPresent(s *State, tier schema.Tier) int {
	n := 0
	for _, f := range schema.PromptedInTier(tier) {
		if s.Has(f.Name) {
			n++
		}
	}
	return n
}

func guidanceFor(strat Strategy, f schema.Field) Guidance {
	question := f.Question
	if strat == StrategyGreet {
		question = "Hi! I can help you book an HVAC service. " + question
	}
	return Guidance{
		Strategy: strat,
		Field:    f.Name,
		Question: question,
		Hint:     f.Hint,
	}
}

// Planner decides the next question. Target selection is local policy;
// the oracle is consulted only to phrase the question more naturally,
// and any oracle fault falls back to the canned per-field template so
// planning never stalls the loop.
type Planner struct {
	oracle oracle.Oracle
}

// NewPlanner creates a Planner backed by the given oracle.
func NewPlanner(o oracle.Oracle) *Planner {
	return &Planner{oracle: o}
}

// Plan returns the guidance for the current turn. checkerHint is the
// completeness checker's suggested follow-up from the previous cycle;
// it substitutes for the canned template when the guidance oracle
// fails, except for optional fields whose question must offer the skip
// option. For the terminal confirm strategy no oracle call is made.
func (p *Planner) Plan(ctx context.Context, s *State, turn int, checkerHint string) Guidance {
	g := decide(s, turn)
	if g.Strategy == StrategyConfirm {
		return g
	}

	draft, err := p.oracle.PlanGuidance(ctx, s.Snapshot(), g.Field, missingCritical(s))
	if err != nil {
		log.Printf("guidance phrasing fell back to template for %s: %v", g.Field, err)
		if checkerHint != "" && g.Strategy != StrategyOptional {
			g.Question = checkerHint
		}
		return g
	}

	if draft.Question != "" {
		g.Question = draft.Question
	}
	if draft.ExpectedResponse != "" {
		g.Hint = draft.ExpectedResponse
	}
	return g
}

func missingCritical(s *State) []string {
	var out []string
	for _, f := range schema.PromptedInTier(schema.TierCritical) {
		if !s.Has(f.Name) {
			out = append(out, f.Name)
		}
	}
	return out
}
