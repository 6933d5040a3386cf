package postgres

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// nullStr converts an optional text field to its SQL representation.
// A nil pointer produces SQL NULL rather than an empty string.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// strPtr converts a scanned nullable column back to the wire shape.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// parseDecimal parses a numeric column scanned as text.
// Postgres NUMERIC values come back as strings through lib/pq; parsing
// them with decimal avoids float rounding on money values.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}
