// Package records persists confirmed bookings: an append-only JSONL
// journal as the durable record of truth, and a SQLite store that keeps
// the queryable copy with the full conversation transcript.
package records

import "time"

// Record is one line of the booking journal. The shape is fixed: the
// flat booking data and a capture timestamp, nothing else.
type Record struct {
	BookingData map[string]any `json:"booking_data"`
	Timestamp   string         `json:"timestamp"`
}

// NewRecord stamps booking data with the current UTC time.
func NewRecord(booking map[string]any) Record {
	return Record{
		BookingData: booking,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// Turn is one exchange of a stored conversation transcript.
type Turn struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
}

// Booking is a stored booking row with its metadata.
type Booking struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Status      string         `json:"status"`
	ServiceType string         `json:"service_type,omitempty"`
	Data        map[string]any `json:"data"`
	Summary     string         `json:"summary,omitempty"`
	Turns       []Turn         `json:"turns,omitempty"`
}
