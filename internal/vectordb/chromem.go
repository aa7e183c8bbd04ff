package vectordb

import (
	"context"
	"fmt"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/fieldops/intake/internal/embeddings"
)

const collectionName = "bookings"

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedder:   embedder,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	if count := s.collection.Count(); limit > count && count > 0 {
		limit = count
	} else if count == 0 {
		return nil, nil
	}

	where := buildWhereClause(filter)

	results, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}

	return searchResults, nil
}

func (s *ChromemStore) DeleteByBookingID(ctx context.Context, bookingID string) error {
	where := map[string]string{"booking_id": bookingID}
	return s.collection.Delete(ctx, where, nil)
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/chromem.gob.gz", true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	err := s.db.ImportFromFile(dir+"/chromem.gob.gz", "")
	if err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// BookingContent renders the searchable text for a booking from its
// flat field values.
func BookingContent(data map[string]any) string {
	var parts []string
	for _, name := range []string{"service_type", "problem_summary", "property_type", "city", "severity", "equipment_brand"} {
		if v, ok := data[name].(string); ok && v != "" {
			parts = append(parts, strings.ReplaceAll(v, "_", " "))
		}
	}
	// Timeslots arrive as []string from a live conversation but as
	// []any after a JSON round-trip through the store.
	switch slots := data["preferred_timeslots"].(type) {
	case []string:
		if len(slots) > 0 {
			parts = append(parts, strings.Join(slots, ", "))
		}
	case []any:
		items := make([]string, 0, len(slots))
		for _, item := range slots {
			if s, ok := item.(string); ok && s != "" {
				items = append(items, s)
			}
		}
		if len(items) > 0 {
			parts = append(parts, strings.Join(items, ", "))
		}
	}
	return strings.Join(parts, " | ")
}

// metadataToMap converts DocumentMetadata to a flat map[string]string for chromem.
func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"booking_id":    m.BookingID,
		"service_type":  m.ServiceType,
		"property_type": m.PropertyType,
		"city":          m.City,
		"severity":      m.Severity,
		"created_at":    m.CreatedAt.Format(time.RFC3339),
	}
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	createdAt, _ := time.Parse(time.RFC3339, m["created_at"])

	return DocumentMetadata{
		BookingID:    m["booking_id"],
		ServiceType:  m["service_type"],
		PropertyType: m["property_type"],
		City:         m["city"],
		Severity:     m["severity"],
		CreatedAt:    createdAt,
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.ServiceType != nil {
		where["service_type"] = *filter.ServiceType
	}
	if filter.City != nil {
		where["city"] = *filter.City
	}
	if filter.Severity != nil {
		where["severity"] = *filter.Severity
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
