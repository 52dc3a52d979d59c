// Package store persists ledger entries in a document store. The catalogue
// and the query service only see the EntryStore interface; the Mongo
// implementation backs production and an in-memory implementation backs
// tests.
package store

import (
	"context"

	"github.com/dkapoor/ledgerlens/internal/domain"
)

// SortOrder matches the wire contract: 1 ascending, -1 descending.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// PageQuery describes one page of the full collection.
type PageQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize applies the defaults the HTTP layer documents: page 1, limit 50,
// sort by spreadsheet row ascending, unknown sort keys replaced by the row
// number.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 50
	}
	if q.SortBy == "" || (q.SortBy != domain.FieldExcelRowNumber && !domain.IsField(q.SortBy)) {
		q.SortBy = domain.FieldExcelRowNumber
	}
	if q.SortOrder != Descending {
		q.SortOrder = Ascending
	}
	return q
}

// EntryStore is the persistence seam for ledger entries. Entries are
// insert-only; a new upload appends in bulk and there is no per-row update
// path.
type EntryStore interface {
	// InsertBatch appends a chunk of rows. It returns the number of rows
	// actually written; a partial write is reported, not rolled back.
	InsertBatch(ctx context.Context, entries []domain.Entry) (int, error)

	// Count returns the total number of persisted entries.
	Count(ctx context.Context) (int64, error)

	// All returns every entry ordered by excelRowNumber ascending. Catalogue
	// operations aggregate over this scan so the normalization policy lives
	// in one place.
	All(ctx context.Context) ([]domain.Entry, error)

	// Page returns one sorted page plus the total count.
	Page(ctx context.Context, q PageQuery) ([]domain.Entry, int64, error)
}
