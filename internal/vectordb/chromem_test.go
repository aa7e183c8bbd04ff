package vectordb

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

// mockEmbedder returns deterministic embeddings based on text content.
// It produces a simple hash-based vector for reproducible tests.
type mockEmbedder struct {
	dims int
}

func newMockEmbedder(dims int) *mockEmbedder {
	return &mockEmbedder{dims: dims}
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

// deterministicVector produces a normalized vector from text. Similar
// texts produce similar vectors because shared characters contribute to
// the same positions.
func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func bookingDocs() []Document {
	return []Document{
		{
			ID:      "b1",
			Content: "ac repair | unit blowing warm air upstairs | detached house | Toronto | high",
			Metadata: DocumentMetadata{
				BookingID:   "b1",
				ServiceType: "ac_repair",
				City:        "Toronto",
				Severity:    "high",
				CreatedAt:   time.Now(),
			},
		},
		{
			ID:      "b2",
			Content: "furnace maintenance | annual tune up before winter | townhouse | Ottawa | low",
			Metadata: DocumentMetadata{
				BookingID:   "b2",
				ServiceType: "furnace_maintenance",
				City:        "Ottawa",
				Severity:    "low",
				CreatedAt:   time.Now(),
			},
		},
	}
}

func setupChromem(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := store.AddDocuments(context.Background(), bookingDocs()); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	return store
}

func TestChromemStoreAddAndSearch(t *testing.T) {
	store := setupChromem(t)

	results, err := store.Search(context.Background(), "ac repair unit blowing warm air", 5, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Document.ID != "b1" {
		t.Errorf("top result = %s, want b1", results[0].Document.ID)
	}
	if results[0].Document.Metadata.City != "Toronto" {
		t.Errorf("metadata lost: %+v", results[0].Document.Metadata)
	}
}

func TestChromemStoreSearchFilter(t *testing.T) {
	store := setupChromem(t)

	city := "Ottawa"
	results, err := store.Search(context.Background(), "maintenance", 5, &SearchFilter{City: &city})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Document.Metadata.City != "Ottawa" {
			t.Errorf("filter leaked: %+v", r.Document.Metadata)
		}
	}
}

func TestChromemStoreEmptySearch(t *testing.T) {
	store, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	results, err := store.Search(context.Background(), "anything", 5, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
}

func TestChromemStoreDeleteByBookingID(t *testing.T) {
	store := setupChromem(t)

	if err := store.DeleteByBookingID(context.Background(), "b1"); err != nil {
		t.Fatalf("DeleteByBookingID: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Count = %d, want 1", store.Count())
	}
}

func TestChromemStorePersistAndLoad(t *testing.T) {
	store := setupChromem(t)
	dir := t.TempDir()

	if err := store.Persist(context.Background(), dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	fresh, err := NewChromemStore(newMockEmbedder(64))
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := fresh.Load(context.Background(), dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.Count() != 2 {
		t.Errorf("Count after load = %d, want 2", fresh.Count())
	}
}

func TestBookingContent(t *testing.T) {
	content := BookingContent(map[string]any{
		"service_type":        "ac_repair",
		"problem_summary":     "not cooling",
		"city":                "Toronto",
		"preferred_timeslots": []string{"tomorrow morning"},
	})

	for _, want := range []string{"ac repair", "not cooling", "Toronto", "tomorrow morning"} {
		if !strings.Contains(content, want) {
			t.Errorf("content %q missing %q", content, want)
		}
	}
}

func TestBookingContentAfterJSONRoundTrip(t *testing.T) {
	// Stored bookings come back from encoding/json as map[string]any
	// with []any lists, not []string.
	raw, err := json.Marshal(map[string]any{
		"service_type":        "ac_repair",
		"preferred_timeslots": []string{"tomorrow morning", "friday afternoon"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	content := BookingContent(data)
	for _, want := range []string{"ac repair", "tomorrow morning", "friday afternoon"} {
		if !strings.Contains(content, want) {
			t.Errorf("content %q missing %q", content, want)
		}
	}
}
