package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldops/intake/internal/db"
	"github.com/fieldops/intake/internal/progress"
	"github.com/fieldops/intake/internal/records"
	"github.com/fieldops/intake/internal/schema"
	"github.com/fieldops/intake/internal/vectordb"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect recorded bookings",
}

var (
	recordsService string
	recordsCity    string
	recordsLimit   int
)

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent bookings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(dbPathFor(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := records.NewStore(database)
		bookings, err := store.List(cmd.Context(), records.ListFilter{
			ServiceType: recordsService,
			City:        recordsCity,
			Limit:       recordsLimit,
		})
		if err != nil {
			return fmt.Errorf("listing bookings: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings recorded yet.")
			return nil
		}
		for _, b := range bookings {
			fmt.Printf("%s  %s  %-28s %s\n",
				b.ID,
				b.CreatedAt.Format("2006-01-02 15:04"),
				schema.ServiceTypeLabel(b.ServiceType),
				stringValue(b.Data, "city"),
			)
		}
		return nil
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one booking with its conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(dbPathFor(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		booking, err := records.NewStore(database).GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("booking %s: %w", args[0], err)
		}

		fmt.Printf("Booking %s (%s, %s)\n\n", booking.ID, booking.Status, booking.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Print(renderBookingTable(booking.Data))
		if booking.Summary != "" {
			fmt.Printf("\n%s\n", booking.Summary)
		}
		if len(booking.Turns) > 0 {
			fmt.Println("\nTranscript:")
			for i, t := range booking.Turns {
				fmt.Printf("  %d. Q: %s\n     A: %s\n", i+1, t.Question, t.Answer)
			}
		}
		return nil
	},
}

var recordsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bookings semantically",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		search := openSearchIndex(cmd.Context(), cfg)
		if search == nil {
			return fmt.Errorf("semantic search requires an embedding provider; check embedding_provider in %s", cfgFile)
		}

		var filter *vectordb.SearchFilter
		if recordsService != "" {
			filter = &vectordb.SearchFilter{ServiceType: &recordsService}
		}
		if recordsCity != "" {
			if filter == nil {
				filter = &vectordb.SearchFilter{}
			}
			filter.City = &recordsCity
		}

		results, err := search.Search(cmd.Context(), strings.Join(args, " "), recordsLimit, filter)
		if err != nil {
			return fmt.Errorf("searching bookings: %w", err)
		}

		fmt.Print(vectordb.FormatResults(results))
		return nil
	},
}

var recordsReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the semantic search index from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		search, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}

		database, err := db.Open(dbPathFor(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := records.NewStore(database)
		ctx := cmd.Context()

		bookings, err := allBookings(ctx, store)
		if err != nil {
			return err
		}
		if len(bookings) == 0 {
			fmt.Println("No bookings to index.")
			return nil
		}

		reporter := progress.NewReporter("Indexing bookings")
		reporter.Start(len(bookings))
		for i, b := range bookings {
			doc := vectordb.Document{
				ID:      b.ID,
				Content: vectordb.BookingContent(b.Data),
				Metadata: vectordb.DocumentMetadata{
					BookingID:    b.ID,
					ServiceType:  b.ServiceType,
					PropertyType: stringValue(b.Data, "property_type"),
					City:         stringValue(b.Data, "city"),
					Severity:     stringValue(b.Data, "severity"),
					CreatedAt:    b.CreatedAt,
				},
			}
			if err := search.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
				return fmt.Errorf("indexing booking %s: %w", b.ID, err)
			}
			reporter.Update(i+1, b.ID)
		}
		reporter.Finish()

		if err := persistSearchIndex(ctx, cfg, search); err != nil {
			return fmt.Errorf("saving search index: %w", err)
		}
		fmt.Printf("Indexed %d booking(s).\n", len(bookings))
		return nil
	},
}

// allBookings pages through the store until exhausted.
func allBookings(ctx context.Context, store *records.Store) ([]*records.Booking, error) {
	const page = 200
	var out []*records.Booking
	for offset := 0; ; offset += page {
		batch, err := store.List(ctx, records.ListFilter{Limit: page, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("listing bookings: %w", err)
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
	}
}

func init() {
	recordsCmd.PersistentFlags().StringVar(&recordsService, "service", "", "filter by service type")
	recordsCmd.PersistentFlags().StringVar(&recordsCity, "city", "", "filter by city")
	recordsCmd.PersistentFlags().IntVar(&recordsLimit, "limit", 20, "maximum results")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsSearchCmd)
	recordsCmd.AddCommand(recordsReindexCmd)
	rootCmd.AddCommand(recordsCmd)
}
