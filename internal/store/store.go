// Package store is the persistence layer for customers and invoices. It is
// an explicit state container: one instance wraps the SQLite handle and is
// passed by reference to the API layer.
//
// Reads degrade to safe defaults (empty pages) with the fault logged; write
// faults always propagate to the caller.
package store

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/kskeerthana/billing-management/internal/logger"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a customer write would violate
	// the case-insensitive email uniqueness invariant.
	ErrDuplicateEmail = errors.New("a customer with this email already exists")
)

// timeLayout is the string form timestamps take in storage. The fixed
// nanosecond width keeps lexicographic ordering of stored values identical
// to chronological ordering, which ORDER BY created_at relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store provides keyed access to the customer and invoice collections.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// New wraps a database handle in a Store.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, log: logger.WithComponent("store")}
}

// ListOptions control search, sort and pagination for list views.
type ListOptions struct {
	Query    string
	Sort     string
	Order    string
	Page     int
	PageSize int
}

func (o ListOptions) limitOffset() (limit, offset int) {
	size := o.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	return size, (page - 1) * size
}

// orderClause maps a requested sort key against a whitelist, falling back
// to creation time descending.
func orderClause(sort, order string, allowed map[string]string) string {
	column, ok := allowed[sort]
	if !ok {
		column = "created_at"
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	return " ORDER BY " + column + " " + order
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime turns a stored timestamp back into a time.Time. Malformed
// values are logged and come back zero rather than failing the read.
func (s *Store) parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		// Imported backups may carry trimmed-precision RFC3339 values.
		t, err = time.Parse(time.RFC3339Nano, raw)
	}
	if err != nil {
		s.log.Error().Err(err).Str("value", raw).Msg("malformed stored timestamp")
		return time.Time{}
	}
	return t
}
