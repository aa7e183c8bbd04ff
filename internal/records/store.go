package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/intake/internal/db"
)

// Store provides the queryable booking copy in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts a booking with its transcript. If b.ID is empty a UUID
// is generated; the assigned ID is returned.
func (s *Store) Save(ctx context.Context, b Booking) (string, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	data, err := json.Marshal(b.Data)
	if err != nil {
		return "", fmt.Errorf("marshalling booking data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (
			id, status, service_type, property_type, severity, city,
			contact_name, data, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Status,
		stringField(b.Data, "service_type"),
		stringField(b.Data, "property_type"),
		stringField(b.Data, "severity"),
		stringField(b.Data, "city"),
		stringField(b.Data, "contact_name"),
		string(data),
		b.Summary,
	)
	if err != nil {
		return "", fmt.Errorf("inserting booking: %w", err)
	}

	for i, turn := range b.Turns {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO booking_turns (booking_id, seq, question, answer)
			VALUES (?, ?, ?, ?)`,
			b.ID, i+1, turn.Question, turn.Answer,
		)
		if err != nil {
			return "", fmt.Errorf("inserting turn %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing booking: %w", err)
	}
	return b.ID, nil
}

// GetByID retrieves a booking with its transcript.
func (s *Store) GetByID(ctx context.Context, id string) (*Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, status, service_type, data, summary
		FROM bookings WHERE id = ?`, id)

	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer FROM booking_turns
		WHERE booking_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("querying transcript: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Question, &t.Answer); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		b.Turns = append(b.Turns, t)
	}
	return b, rows.Err()
}

// ListFilter controls which bookings List returns.
type ListFilter struct {
	ServiceType string
	City        string
	Since       *time.Time
	Limit       int
	Offset      int
}

// List returns bookings matching the filter, newest first, without
// transcripts.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	var conds []string
	var args []any

	if filter.ServiceType != "" {
		conds = append(conds, "service_type = ?")
		args = append(args, filter.ServiceType)
	}
	if filter.City != "" {
		conds = append(conds, "city = ? COLLATE NOCASE")
		args = append(args, filter.City)
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format("2006-01-02 15:04:05"))
	}

	query := `SELECT id, created_at, status, service_type, data, summary FROM bookings`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	var created string
	var data string

	err := row.Scan(&b.ID, &created, &b.Status, &b.ServiceType, &data, &b.Summary)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning booking: %w", err)
	}

	if t, err := time.Parse("2006-01-02 15:04:05", created); err == nil {
		b.CreatedAt = t.UTC()
	} else if t, err := time.Parse(time.RFC3339, created); err == nil {
		b.CreatedAt = t.UTC()
	}

	if err := json.Unmarshal([]byte(data), &b.Data); err != nil {
		return nil, fmt.Errorf("decoding booking data: %w", err)
	}
	return &b, nil
}

func stringField(data map[string]any, name string) string {
	if v, ok := data[name].(string); ok {
		return v
	}
	return ""
}
