package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/dkapoor/ledgerlens/internal/domain"
)

// Memory is an in-memory EntryStore. It backs the test suite and small
// single-process deployments; data is lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed replaces the whole collection. Test helper.
func (m *Memory) Seed(entries []domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]domain.Entry(nil), entries...)
}

func (m *Memory) InsertBatch(ctx context.Context, entries []domain.Entry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return len(entries), nil
}

func (m *Memory) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

func (m *Memory) All(ctx context.Context) ([]domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]domain.Entry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExcelRowNumber < out[j].ExcelRowNumber
	})
	return out, nil
}

func (m *Memory) Page(ctx context.Context, q PageQuery) ([]domain.Entry, int64, error) {
	q = q.Normalize()

	m.mu.RLock()
	out := append([]domain.Entry(nil), m.entries...)
	m.mu.RUnlock()

	SortEntries(out, q.SortBy, q.SortOrder)

	total := int64(len(out))
	start := (q.Page - 1) * q.Limit
	if start >= len(out) {
		return []domain.Entry{}, total, nil
	}
	end := start + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

// SortEntries sorts in place by a wire field name. Numeric-looking values on
// the sort key compare numerically so row numbers and amounts order sanely.
func SortEntries(entries []domain.Entry, sortBy string, order SortOrder) {
	less := func(a, b *domain.Entry) bool {
		if sortBy == domain.FieldExcelRowNumber {
			return a.ExcelRowNumber < b.ExcelRowNumber
		}
		av, bv := a.Field(sortBy), b.Field(sortBy)
		af, aerr := strconv.ParseFloat(av, 64)
		bf, berr := strconv.ParseFloat(bv, 64)
		if aerr == nil && berr == nil {
			return af < bf
		}
		return av < bv
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if order == Descending {
			return less(&entries[j], &entries[i])
		}
		return less(&entries[i], &entries[j])
	})
}

var _ EntryStore = (*Memory)(nil)
