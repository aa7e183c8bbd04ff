package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/fieldops/intake/internal/config"
	"github.com/fieldops/intake/internal/db"
	"github.com/fieldops/intake/internal/dialogue"
	"github.com/fieldops/intake/internal/llm"
	"github.com/fieldops/intake/internal/oracle"
	"github.com/fieldops/intake/internal/records"
	"github.com/fieldops/intake/internal/schema"
	"github.com/fieldops/intake/internal/vectordb"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an HVAC service through a conversation",
	Long: `Starts an interactive conversation that collects everything needed for
an HVAC service booking. Answer in your own words; say "skip" to pass
on optional questions, or "quit" to cancel.`,
	RunE: runBook,
}

func init() {
	rootCmd.AddCommand(bookCmd)
}

// terminalPrompter asks one question at a time on the terminal.
type terminalPrompter struct{}

func (terminalPrompter) Ask(question, hint string) (string, error) {
	fmt.Printf("\n%s\n", question)
	if hint != "" {
		fmt.Printf("  (%s)\n", hint)
	}

	prompt := promptui.Prompt{Label: "You"}
	answer, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return answer, nil
}

func runBook(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	usage := llm.NewUsageTracker(&spinnerProvider{provider: provider})
	llmOracle := oracle.NewLLMOracle(usage)

	ctx := cmd.Context()
	controller := dialogue.NewController(llmOracle, terminalPrompter{})

	result, err := controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("conversation failed: %w", err)
	}

	switch result.Status {
	case dialogue.StatusAborted:
		fmt.Println("\nBooking cancelled. Nothing was saved.")
		return nil
	case dialogue.StatusIterationCap:
		fmt.Println("\nThat's enough questions; I'll book with what we have.")
		if missing := dialogue.MissingSummary(result.Booking); len(missing) > 0 {
			fmt.Printf("Still missing: %s. Our dispatcher may follow up.\n", strings.Join(missing, ", "))
		}
	}

	fmt.Println("\nHere is your booking:")
	fmt.Print(renderBookingTable(result.Booking))

	confirm := promptui.Prompt{
		Label:     "Save this booking",
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			fmt.Println("Booking cancelled. Nothing was saved.")
			return nil
		}
		return fmt.Errorf("confirmation: %w", err)
	}

	// The closing summary is a nicety; a failed call never blocks
	// the booking.
	summary, sumErr := llmOracle.Summarize(ctx, result.Booking)
	if sumErr != nil {
		summary = ""
		if verbose {
			fmt.Fprintf(os.Stderr, "summary unavailable: %v\n", sumErr)
		}
	}

	if err := persistBooking(ctx, cfg, result, string(result.Status), summary); err != nil {
		return err
	}

	if summary != "" {
		fmt.Printf("\n%s\n", summary)
	} else {
		fmt.Println("\nYour booking is confirmed. A technician will be in touch.")
	}

	if verbose {
		calls, in, out := usage.Usage()
		cost := llm.EstimateCost(cfg.Model, in, out)
		fmt.Fprintf(os.Stderr, "\nmodel usage: %d calls, %d in / %d out tokens", calls, in, out)
		if cost > 0 {
			fmt.Fprintf(os.Stderr, " (~$%.4f)", cost)
		}
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

// persistBooking writes the confirmed booking everywhere it belongs:
// the JSONL journal first as the durable record, then the database, then
// the search index. Journal failure aborts; the later sinks only warn.
func persistBooking(ctx context.Context, cfg *config.Config, result *dialogue.Result, status, summary string) error {
	journal := records.NewJournal(cfg.RecordsFile)
	if err := journal.Append(records.NewRecord(result.Booking)); err != nil {
		return fmt.Errorf("writing booking journal: %w", err)
	}
	fmt.Printf("\nBooking recorded in %s\n", journal.Path())

	database, err := db.Open(dbPathFor(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: opening database: %v\n", err)
		return nil
	}
	defer database.Close()

	turns := make([]records.Turn, len(result.Turns))
	for i, t := range result.Turns {
		turns[i] = records.Turn{Question: t.Question, Answer: t.Answer}
	}

	store := records.NewStore(database)
	id, err := store.Save(ctx, records.Booking{
		Status:  status,
		Data:    result.Booking,
		Summary: summary,
		Turns:   turns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: saving booking to database: %v\n", err)
		return nil
	}

	if search := openSearchIndex(ctx, cfg); search != nil {
		doc := vectordb.Document{
			ID:      id,
			Content: vectordb.BookingContent(result.Booking),
			Metadata: vectordb.DocumentMetadata{
				BookingID:    id,
				ServiceType:  stringValue(result.Booking, "service_type"),
				PropertyType: stringValue(result.Booking, "property_type"),
				City:         stringValue(result.Booking, "city"),
				Severity:     stringValue(result.Booking, "severity"),
				CreatedAt:    time.Now().UTC(),
			},
		}
		if err := search.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: indexing booking: %v\n", err)
		} else if err := persistSearchIndex(ctx, cfg, search); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: saving search index: %v\n", err)
		}
	}
	return nil
}

// renderBookingTable lists the collected fields with display labels, in
// schema order.
func renderBookingTable(booking map[string]any) string {
	var sb strings.Builder
	for _, f := range schema.Fields {
		raw, ok := booking[f.Name]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", f.Label+":", displayValue(f, raw)))
	}
	return sb.String()
}

func displayValue(f schema.Field, raw any) string {
	switch f.Name {
	case "service_type":
		if s, ok := raw.(string); ok {
			return schema.ServiceTypeLabel(s)
		}
	case "property_type":
		if s, ok := raw.(string); ok {
			return schema.PropertyTypeLabel(s)
		}
	}
	switch v := raw.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringValue(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
