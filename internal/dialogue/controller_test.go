package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fieldops/intake/internal/oracle"
)

// scriptedPrompter replays a fixed answer sequence and records the
// questions it was asked.
type scriptedPrompter struct {
	t       *testing.T
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Ask(question, hint string) (string, error) {
	p.asked = append(p.asked, question)
	if len(p.asked) > len(p.answers) {
		p.t.Fatalf("prompter asked %d questions, scripted only %d; last question: %q",
			len(p.asked), len(p.answers), question)
	}
	return p.answers[len(p.asked)-1], nil
}

// seqExtractor returns scripted extraction results in order.
func seqExtractor(results ...func() (*oracle.Extraction, error)) func([]oracle.Turn) (*oracle.Extraction, error) {
	i := 0
	return func([]oracle.Turn) (*oracle.Extraction, error) {
		if i >= len(results) {
			return &oracle.Extraction{Fields: map[string]any{}}, nil
		}
		r := results[i]
		i++
		return r()
	}
}

func extractFields(fields map[string]any) func() (*oracle.Extraction, error) {
	return func() (*oracle.Extraction, error) {
		return &oracle.Extraction{Fields: fields, Confidence: 0.9}, nil
	}
}

func extractFault(err error) func() (*oracle.Extraction, error) {
	return func() (*oracle.Extraction, error) { return nil, err }
}

func TestRunHappyPath(t *testing.T) {
	fo := &fakeOracle{
		extractFn: seqExtractor(
			extractFields(criticalFields()),
			extractFields(mergeMaps(highFields(),
				map[string]any{"severity": "high", "preferred_timeslots": []string{"tomorrow morning"}})),
		),
	}
	p := &scriptedPrompter{t: t, answers: []string{
		"My AC is blowing warm air. I'm Jane Doe, 416-555-0133, AC repair please.",
		"Detached house at 12 Maple St, Toronto, ON. It's pretty urgent, tomorrow morning works.",
		"skip",
		"skip",
		"skip",
	}}

	res, err := NewController(fo, p).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", res.Status, StatusCompleted)
	}
	if res.Booking["service_type"] != "ac_repair" || res.Booking["city"] != "Toronto" {
		t.Errorf("booking missing merged fields: %v", res.Booking)
	}
	if len(res.Turns) != 2 {
		t.Errorf("Turns = %d, want 2 (skip replies bypass the oracle)", len(res.Turns))
	}
	if fo.extractCalls != 2 {
		t.Errorf("extract calls = %d, want 2", fo.extractCalls)
	}
	// Three optional-field questions, all skipped locally.
	if len(p.asked) != 5 {
		t.Errorf("questions asked = %d, want 5", len(p.asked))
	}
}

func TestRunCancelToken(t *testing.T) {
	for _, token := range []string{"quit", "EXIT", " cancel "} {
		t.Run(strings.TrimSpace(token), func(t *testing.T) {
			fo := &fakeOracle{}
			p := &scriptedPrompter{t: t, answers: []string{token}}

			res, err := NewController(fo, p).Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Status != StatusAborted {
				t.Errorf("Status = %q, want %q", res.Status, StatusAborted)
			}
			if len(res.Booking) != 0 {
				t.Errorf("aborted result carries booking data: %v", res.Booking)
			}
			if fo.extractCalls != 0 {
				t.Error("cancellation should short-circuit before the oracle")
			}
		})
	}
}

func TestRunSkipNotReAsked(t *testing.T) {
	fo := &fakeOracle{
		extractFn: seqExtractor(
			extractFields(mergeMaps(criticalFields(), highFields(),
				map[string]any{"severity": "low", "preferred_timeslots": []string{"weekend"}})),
		),
	}
	p := &scriptedPrompter{t: t, answers: []string{
		"everything in one go",
		"skip", // equipment_brand
		"skip", // access_notes
		"skip", // constraints
	}}

	res, err := NewController(fo, p).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q", res.Status, StatusCompleted)
	}

	// Each optional field asked exactly once.
	seen := map[string]int{}
	for _, q := range p.asked[1:] {
		seen[q]++
	}
	for q, n := range seen {
		if n > 1 {
			t.Errorf("question re-asked %d times: %q", n, q)
		}
	}
}

func TestRunIterationCap(t *testing.T) {
	fo := &fakeOracle{} // extraction never yields a field
	answers := make([]string, maxCycles)
	for i := range answers {
		answers[i] = "I'm not sure"
	}
	p := &scriptedPrompter{t: t, answers: answers}

	res, err := NewController(fo, p).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusIterationCap {
		t.Errorf("Status = %q, want %q", res.Status, StatusIterationCap)
	}
	if len(p.asked) != maxCycles {
		t.Errorf("asked %d questions, want exactly %d", len(p.asked), maxCycles)
	}
}

func TestRunSingleMalformedCycleIsNoOp(t *testing.T) {
	malformed := fmt.Errorf("parsing extraction: %w", oracle.ErrMalformed)
	fo := &fakeOracle{
		extractFn: seqExtractor(
			extractFault(malformed),
			extractFields(mergeMaps(criticalFields(), highFields(),
				map[string]any{"severity": "high", "preferred_timeslots": []string{"tomorrow"}})),
		),
	}
	p := &scriptedPrompter{t: t, answers: []string{
		"garbled turn", "everything", "skip", "skip", "skip",
	}}

	res, err := NewController(fo, p).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v (a single malformed response must not abort)", err)
	}
	if res.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", res.Status, StatusCompleted)
	}
}

func TestRunAbortsAfterConsecutiveMalformed(t *testing.T) {
	fo := &fakeOracle{
		extractFn: func([]oracle.Turn) (*oracle.Extraction, error) {
			return nil, fmt.Errorf("parsing extraction: %w", oracle.ErrMalformed)
		},
	}
	p := &scriptedPrompter{t: t, answers: []string{"a", "b", "c", "d"}}

	_, err := NewController(fo, p).Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite an unproductive run of faulted cycles")
	}
	if !strings.Contains(err.Error(), "consecutive") {
		t.Errorf("err = %v, want the consecutive-fault abort", err)
	}
	if fo.extractCalls != maxConsecutiveFaults {
		t.Errorf("extract calls = %d, want %d", fo.extractCalls, maxConsecutiveFaults)
	}
}

func TestRunCheckerFaultsCountTowardAbort(t *testing.T) {
	fo := &fakeOracle{
		checkFn: func(map[string]any) (*oracle.CompletenessReport, error) {
			return nil, errors.New("oracle down")
		},
	}
	p := &scriptedPrompter{t: t, answers: []string{"a", "b", "c", "d"}}

	_, err := NewController(fo, p).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "consecutive") {
		t.Errorf("err = %v, want the consecutive-fault abort", err)
	}
}

func TestRunTransportFaultIsFatal(t *testing.T) {
	transport := errors.New("connection refused after 3 attempts")
	fo := &fakeOracle{
		extractFn: func([]oracle.Turn) (*oracle.Extraction, error) {
			return nil, transport
		},
	}
	p := &scriptedPrompter{t: t, answers: []string{"hello"}}

	_, err := NewController(fo, p).Run(context.Background())
	if !errors.Is(err, transport) {
		t.Errorf("err = %v, want the transport fault wrapped", err)
	}
	if fo.extractCalls != 1 {
		t.Errorf("extract calls = %d, want 1 (no second cycle after a fatal fault)", fo.extractCalls)
	}
}

func TestRunPrompterError(t *testing.T) {
	fo := &fakeOracle{}
	failing := prompterFunc(func(string, string) (string, error) {
		return "", errors.New("stdin closed")
	})

	if _, err := NewController(fo, failing).Run(context.Background()); err == nil {
		t.Error("Run succeeded despite the prompter failing")
	}
}

type prompterFunc func(question, hint string) (string, error)

func (f prompterFunc) Ask(q, h string) (string, error) { return f(q, h) }

func TestMissingSummary(t *testing.T) {
	booking := mergeMaps(criticalFields(), map[string]any{"city": "Toronto"})

	got := MissingSummary(booking)
	want := []string{"Property Type", "Street Address", "Province"}
	if len(got) != len(want) {
		t.Fatalf("MissingSummary = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MissingSummary[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
