package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fieldops/intake/internal/oracle"
	"github.com/fieldops/intake/internal/schema"
)

// Status is the terminal status of a conversation.
type Status string

const (
	// StatusCompleted means the completeness policy was satisfied and the
	// user confirmed the booking.
	StatusCompleted Status = "completed"
	// StatusAborted means the user cancelled, either with a cancellation
	// token or by declining the final confirmation. Nothing is persisted.
	StatusAborted Status = "aborted_by_user"
	// StatusIterationCap means the asking-cycle ceiling was reached before
	// the completeness policy was satisfied; whatever was collected is
	// used. A liveness guarantee over a correctness guarantee.
	StatusIterationCap Status = "completed_via_iteration_cap"
)

const (
	// maxCycles is the hard ceiling on asking-cycles per conversation.
	maxCycles = 10
	// maxConsecutiveFaults aborts an unproductive conversation even
	// though maxCycles also bounds it.
	maxConsecutiveFaults = 3
)

// cancelTokens end the conversation immediately when given as a literal
// answer, regardless of strategy.
var cancelTokens = map[string]bool{
	"quit":   true,
	"exit":   true,
	"cancel": true,
}

// skipToken marks an optional field as declined.
const skipToken = "skip"

// Prompter is the user-facing collaborator: it presents one question
// and blocks for the human's reply. There is no deadline on how long
// the human may take.
type Prompter interface {
	Ask(question, hint string) (string, error)
}

// Result is the terminal snapshot handed to the presentation and
// persistence collaborators.
type Result struct {
	Status  Status
	Booking map[string]any
	Turns   []oracle.Turn
}

// Controller drives one conversation through the dialogue loop. One
// controller instance owns one conversation's state and history;
// independent conversations use independent controllers.
type Controller struct {
	oracle   oracle.Oracle
	planner  *Planner
	checker  *Checker
	prompter Prompter

	state   *State
	history []oracle.Turn
}

// NewController creates a controller for a single conversation.
func NewController(o oracle.Oracle, prompter Prompter) *Controller {
	return &Controller{
		oracle:   o,
		planner:  NewPlanner(o),
		checker:  NewChecker(o),
		prompter: prompter,
		state:    NewState(),
	}
}

// Run drives the conversation to a terminal state. It returns a Result
// with StatusAborted and no booking when the user cancels, and an error
// only for fatal conversation faults (oracle unreachable after retries,
// prompter failure, or an unproductive run of faulted cycles). Faults
// abort the conversation, never the process.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	consecutiveFaults := 0
	checkerHint := ""

	for cycle := 1; cycle <= maxCycles; cycle++ {
		g := c.planner.Plan(ctx, c.state, cycle, checkerHint)

		if g.Strategy == StrategyConfirm {
			return c.terminal(StatusCompleted), nil
		}

		answer, err := c.prompter.Ask(g.Question, g.Hint)
		if err != nil {
			return nil, fmt.Errorf("reading answer: %w", err)
		}
		answer = strings.TrimSpace(answer)

		if cancelTokens[strings.ToLower(answer)] {
			return &Result{Status: StatusAborted, Turns: c.history}, nil
		}

		// A "skip" reply to an optional-field question resolves the field
		// locally; no oracle round-trip for this cycle.
		if g.Strategy == StrategyOptional && strings.EqualFold(answer, skipToken) {
			c.state.Skip(g.Field)
			continue
		}

		c.history = append(c.history, oracle.Turn{Question: g.Question, Answer: answer})

		faulted, err := c.interpret(ctx)
		if err != nil {
			return nil, err
		}

		if !faulted {
			// The checker degrades to local tier policy on oracle faults,
			// so its verdict is always usable; the fault still counts
			// toward the unproductive-cycle cap.
			comp, checkErr := c.checker.Check(ctx, c.state)
			checkerHint = comp.Hint
			faulted = checkErr != nil
		}

		if faulted {
			consecutiveFaults++
			if consecutiveFaults >= maxConsecutiveFaults {
				return nil, fmt.Errorf("conversation aborted after %d consecutive oracle faults", consecutiveFaults)
			}
			continue
		}
		consecutiveFaults = 0
	}

	// Ceiling reached: finish with whatever has accumulated.
	return c.terminal(StatusIterationCap), nil
}

// interpret runs the extraction on the full history and merges the
// candidate fields. A malformed oracle response makes the cycle a
// no-op; a fatal transport fault is returned as an error.
func (c *Controller) interpret(ctx context.Context) (faulted bool, err error) {
	extraction, err := c.oracle.Extract(ctx, c.history)
	if err != nil {
		if oracle.IsMalformed(err) {
			log.Printf("extraction fault, cycle treated as no-op: %v", err)
			return true, nil
		}
		return false, fmt.Errorf("extracting booking information: %w", err)
	}

	c.state.Merge(extraction.Fields)
	return false, nil
}

// terminal builds the result for a DONE transition.
func (c *Controller) terminal(status Status) *Result {
	return &Result{
		Status:  status,
		Booking: c.state.Snapshot(),
		Turns:   c.history,
	}
}

// State exposes the belief state for presentation collaborators
// (confirmation table rendering).
func (c *Controller) State() *State { return c.state }

// MissingSummary lists unresolved fields by label, for the iteration-cap
// message shown to the user.
func MissingSummary(booking map[string]any) []string {
	var out []string
	for _, f := range schema.Fields {
		if !f.Prompted || !f.Required {
			continue
		}
		if _, ok := booking[f.Name]; !ok {
			out = append(out, f.Label)
		}
	}
	return out
}
