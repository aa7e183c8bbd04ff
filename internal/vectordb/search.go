package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No matching bookings found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d booking(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Booking %d (similarity: %.4f) ---\n", i+1, r.Similarity))

		md := r.Document.Metadata
		if md.BookingID != "" {
			sb.WriteString(fmt.Sprintf("ID: %s\n", md.BookingID))
		}
		if md.ServiceType != "" {
			sb.WriteString(fmt.Sprintf("Service: %s\n", md.ServiceType))
		}
		if md.City != "" {
			sb.WriteString(fmt.Sprintf("City: %s\n", md.City))
		}
		if md.Severity != "" {
			sb.WriteString(fmt.Sprintf("Severity: %s\n", md.Severity))
		}
		if !md.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("Booked: %s\n", md.CreatedAt.Format("2006-01-02 15:04")))
		}

		sb.WriteString("\n")
		sb.WriteString(r.Document.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
