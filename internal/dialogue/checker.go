package dialogue

import (
	"context"
	"log"

	"github.com/fieldops/intake/internal/oracle"
	"github.com/fieldops/intake/internal/schema"
)

// Completeness is the checker's verdict for the current belief state.
type Completeness struct {
	// Missing lists unresolved askable fields, ordered by tier then
	// declaration order.
	Missing []string
	// Complete is true when every critical and high field is present and
	// at least one medium field (severity or a time slot) is present.
	// Low-tier fields never block completion.
	Complete bool
	// Hint is an optional oracle-suggested follow-up question. Empty when
	// the oracle was unavailable.
	Hint string
}

// checkLocal computes completeness from tier policy alone. This is the
// authoritative rule; the oracle only contributes phrasing hints.
func checkLocal(s *State) Completeness {
	var c Completeness

	for _, tier := range []schema.Tier{schema.TierCritical, schema.TierHigh, schema.TierMedium, schema.TierLow} {
		for _, f := range schema.PromptedInTier(tier) {
			if !s.Resolved(f.Name) {
				c.Missing = append(c.Missing, f.Name)
			}
		}
	}

	c.Complete = allPresent(s, schema.TierCritical) &&
		allPresent(s, schema.TierHigh) &&
		(s.Has("severity") || s.Has("preferred_timeslots"))

	return c
}

func allPresent(s *State, tier schema.Tier) bool {
	for _, f := range schema.PromptedInTier(tier) {
		if !s.Has(f.Name) {
			return false
		}
	}
	return true
}

// Checker combines the local tier policy with the oracle's
// completeness call. Oracle faults degrade to the local result rather
// than propagating, so the conversation loop can always continue.
type Checker struct {
	oracle oracle.Oracle
}

// NewChecker creates a Checker backed by the given oracle.
func NewChecker(o oracle.Oracle) *Checker {
	return &Checker{oracle: o}
}

// Check returns the completeness verdict for the state. The complete
// flag and missing list come from local tier policy; the oracle
// contributes the follow-up hint. err is non-nil only for faults the
// caller must count (malformed responses and fatal transport faults);
// the returned Completeness is usable either way.
func (c *Checker) Check(ctx context.Context, s *State) (Completeness, error) {
	local := checkLocal(s)

	report, err := c.oracle.CheckCompleteness(ctx, s.Snapshot())
	if err != nil {
		log.Printf("completeness check degraded to local policy: %v", err)
		return local, err
	}

	local.Hint = report.NextQuestion
	return local, nil
}
