// Package vectordb provides semantic search over stored bookings. Each
// confirmed booking is indexed as a single document so past service
// requests can be found by meaning rather than exact field match.
package vectordb

import "time"

// Document represents one booking's searchable text.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured booking attributes for filtering.
type DocumentMetadata struct {
	BookingID    string
	ServiceType  string
	PropertyType string
	City         string
	Severity     string
	CreatedAt    time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter allows narrowing search results by metadata fields.
type SearchFilter struct {
	ServiceType *string
	City        *string
	Severity    *string
}
