package sqlite

import (
	"fmt"
	"time"

	"logicsim/internal/domain"
)

// ============================================================================
// Time Conversion Helpers
// ============================================================================

// timeLayout is a fixed-width UTC layout so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timeToText converts a time to its stored UTC text form
func timeToText(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// textToTime parses a stored timestamp
func textToTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// ============================================================================
// Scheme Row Scanner
// ============================================================================

// schemeColumns lists the columns read for a scheme.
// CRITICAL: order must match schemeRow.scanArgs().
const schemeColumns = `id, name, format, document, node_count, connection_count, created_at, updated_at`

// schemeListColumns is schemeColumns with the document replaced by an empty blob
const schemeListColumns = `id, name, format, x'', node_count, connection_count, created_at, updated_at`

// schemeRow holds all columns from a scheme query for scanning
type schemeRow struct {
	ID              string
	Name            string
	Format          string
	Document        []byte
	NodeCount       int
	ConnectionCount int
	CreatedAt       string
	UpdatedAt       string
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *schemeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Name,
		&r.Format,
		&r.Document,
		&r.NodeCount,
		&r.ConnectionCount,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// toDomain converts the row into a domain.Scheme
func (r *schemeRow) toDomain() (*domain.Scheme, error) {
	created, err := textToTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := textToTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Scheme{
		ID:              r.ID,
		Name:            r.Name,
		Format:          r.Format,
		Document:        r.Document,
		NodeCount:       r.NodeCount,
		ConnectionCount: r.ConnectionCount,
		CreatedAt:       created,
		UpdatedAt:       updated,
	}, nil
}
