// Package query serves the direct table endpoints: pagination, combined
// filtering, text search and summary statistics. Unlike the catalogue, these
// are parameter-driven and never touch the classifier.
package query

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/normalize"
	"github.com/dkapoor/ledgerlens/internal/store"
)

const (
	defaultLimit   = 100
	searchLimitCap = 1000
	filterLimitCap = 5000
)

// defaultSearchColumns are scanned when a combined filter carries search text
// without naming columns.
var defaultSearchColumns = []string{
	domain.FieldZvolvWID,
	domain.FieldWID,
	domain.FieldVendorName,
	domain.FieldInitiatorName,
	domain.FieldL1Name,
	domain.FieldL2Name,
	domain.FieldDocumentNumber,
}

// Pagination describes one page of a result set.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// PageResult is the envelope for paged rows.
type PageResult struct {
	Data       []domain.Entry `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Filters combines every supported filter dimension. Nil amount bounds mean
// the bound is absent; a one-sided range stays one-sided.
type Filters struct {
	SearchText      string   `json:"searchText"`
	SearchColumns   []string `json:"searchColumns"`
	MinAmount       *float64 `json:"minAmount"`
	MaxAmount       *float64 `json:"maxAmount"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	DateField       string   `json:"dateField"`
	InitiatorStatus string   `json:"initiatorStatus"`
	L1Status        string   `json:"l1Status"`
	L2Status        string   `json:"l2Status"`
	Limit           int64    `json:"limit"`
	Page            int64    `json:"page"`
	SortBy          string   `json:"sortBy"`
	SortOrder       int      `json:"sortOrder"`
}

// Stats is the dataset summary.
type Stats struct {
	TotalEntries int64              `json:"totalEntries"`
	AmountStats  AmountSummary      `json:"amountStats"`
	UniqueCounts UniqueCountSummary `json:"uniqueCounts"`
}

type AmountSummary struct {
	TotalAmount float64 `json:"totalAmount"`
	AvgAmount   float64 `json:"avgAmount"`
	MaxAmount   float64 `json:"maxAmount"`
	MinAmount   float64 `json:"minAmount"`
}

type UniqueCountSummary struct {
	Vendors int64 `json:"vendors"`
}

// Service answers direct queries over the entry store.
type Service struct {
	store store.EntryStore
}

func NewService(st store.EntryStore) *Service {
	return &Service{store: st}
}

// Columns returns the table columns in spreadsheet order.
func (s *Service) Columns() []string {
	cols := append([]string(nil), domain.Fields...)
	return append(cols, domain.FieldExcelRowNumber)
}

// Paginate returns one page of entries straight from the store.
func (s *Service) Paginate(ctx context.Context, page, limit int64, sortBy string, sortOrder int) (*PageResult, error) {
	q := store.PageQuery{Page: int(page), Limit: int(limit), SortBy: sortBy, SortOrder: store.SortOrder(sortOrder)}
	q = q.Normalize()
	rows, total, err := s.store.Page(ctx, q)
	if err != nil {
		return nil, err
	}
	return envelope(rows, total, int64(q.Page), int64(q.Limit)), nil
}

// Filter applies every populated dimension of f and returns one page of the
// matches. Amount bounds compare against the normalized numeric amount, so
// the scan happens here rather than in the store.
func (s *Service) Filter(ctx context.Context, f Filters) (*PageResult, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	match := buildPredicate(f)
	matched := make([]domain.Entry, 0, len(entries))
	for i := range entries {
		if match(&entries[i]) {
			matched = append(matched, entries[i])
		}
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = domain.FieldExcelRowNumber
	}
	order := store.SortOrder(f.SortOrder)
	if order != store.Descending {
		order = store.Ascending
	}
	store.SortEntries(matched, sortBy, order)

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := clampLimit(f.Limit, filterLimitCap)

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return envelope(matched[start:end], total, page, limit), nil
}

// Search scans the named columns (or every text column) for a literal,
// case-insensitive substring. Regex metacharacters in the needle have no
// special meaning.
func (s *Service) Search(ctx context.Context, text string, columns []string, limit int64) ([]domain.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.Entry{}, nil
	}
	if len(columns) == 0 {
		columns = domain.Fields
	}
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, searchLimitCap)
	needle := strings.ToLower(text)

	matched := make([]domain.Entry, 0)
	for i := range entries {
		if entryMatchesText(&entries[i], needle, columns) {
			matched = append(matched, entries[i])
			if int64(len(matched)) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// FilterByAmount returns entries whose normalized amount falls inside the
// inclusive range. Unparseable amounts never match.
func (s *Service) FilterByAmount(ctx context.Context, min, max *float64, limit int64) ([]domain.Entry, error) {
	return s.collect(ctx, limit, func(e *domain.Entry) bool {
		return amountInRange(e, min, max)
	})
}

// FilterByDate returns entries whose date field falls inside the inclusive
// range. Entries with unparseable dates never match.
func (s *Service) FilterByDate(ctx context.Context, start, end, dateField string, limit int64) ([]domain.Entry, error) {
	if dateField != domain.FieldPostingDate {
		dateField = domain.FieldDocumentDate
	}
	startT, hasStart := normalize.Date(start)
	endT, hasEnd := normalize.Date(end)
	if hasEnd {
		endT = endT.Add(24*time.Hour - time.Nanosecond)
	}
	return s.collect(ctx, limit, func(e *domain.Entry) bool {
		return dateInRange(e.Field(dateField), startT, hasStart, endT, hasEnd)
	})
}

// FilterByStatus matches exact status values, case-insensitively, on any
// combination of the three workflow fields.
func (s *Service) FilterByStatus(ctx context.Context, initiator, l1, l2 string, limit int64) ([]domain.Entry, error) {
	return s.collect(ctx, limit, func(e *domain.Entry) bool {
		if initiator != "" && !strings.EqualFold(strings.TrimSpace(e.InitiatorStatus), initiator) {
			return false
		}
		if l1 != "" && !strings.EqualFold(strings.TrimSpace(e.L1ApproverStatus), l1) {
			return false
		}
		if l2 != "" && !strings.EqualFold(strings.TrimSpace(e.L2ApproverStatus), l2) {
			return false
		}
		return true
	})
}

// Statistics summarizes the whole dataset: entry count, amount stats over
// parseable amounts, and the distinct vendor count.
func (s *Service) Statistics(ctx context.Context) (*Stats, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{TotalEntries: int64(len(entries))}

	vendors := make(map[string]struct{})
	validCount := 0
	for i := range entries {
		if name := normalize.Key(entries[i].JournalEntryVendorName); name != "" {
			vendors[name] = struct{}{}
		}
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		if validCount == 0 {
			stats.AmountStats.MaxAmount = v
			stats.AmountStats.MinAmount = v
		}
		validCount++
		stats.AmountStats.TotalAmount += v
		if v > stats.AmountStats.MaxAmount {
			stats.AmountStats.MaxAmount = v
		}
		if v < stats.AmountStats.MinAmount {
			stats.AmountStats.MinAmount = v
		}
	}
	if validCount > 0 {
		stats.AmountStats.AvgAmount = stats.AmountStats.TotalAmount / float64(validCount)
	}
	stats.UniqueCounts.Vendors = int64(len(vendors))
	return stats, nil
}

func (s *Service) collect(ctx context.Context, limit int64, match func(*domain.Entry) bool) ([]domain.Entry, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, filterLimitCap)
	matched := make([]domain.Entry, 0)
	for i := range entries {
		if match(&entries[i]) {
			matched = append(matched, entries[i])
			if int64(len(matched)) >= limit {
				break
			}
		}
	}
	return matched, nil
}

func buildPredicate(f Filters) func(*domain.Entry) bool {
	needle := strings.ToLower(strings.TrimSpace(f.SearchText))
	columns := f.SearchColumns
	if len(columns) == 0 {
		columns = defaultSearchColumns
	}
	startT, hasStart := normalize.Date(f.StartDate)
	endT, hasEnd := normalize.Date(f.EndDate)
	if hasEnd {
		endT = endT.Add(24*time.Hour - time.Nanosecond)
	}
	dateField := f.DateField
	if dateField != domain.FieldPostingDate {
		dateField = domain.FieldDocumentDate
	}

	return func(e *domain.Entry) bool {
		if needle != "" && !entryMatchesText(e, needle, columns) {
			return false
		}
		if f.MinAmount != nil || f.MaxAmount != nil {
			if !amountInRange(e, f.MinAmount, f.MaxAmount) {
				return false
			}
		}
		if hasStart || hasEnd {
			if !dateInRange(e.Field(dateField), startT, hasStart, endT, hasEnd) {
				return false
			}
		}
		if f.InitiatorStatus != "" && !strings.EqualFold(strings.TrimSpace(e.InitiatorStatus), f.InitiatorStatus) {
			return false
		}
		if f.L1Status != "" && !strings.EqualFold(strings.TrimSpace(e.L1ApproverStatus), f.L1Status) {
			return false
		}
		if f.L2Status != "" && !strings.EqualFold(strings.TrimSpace(e.L2ApproverStatus), f.L2Status) {
			return false
		}
		return true
	}
}

func entryMatchesText(e *domain.Entry, needle string, columns []string) bool {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(e.Field(col)), needle) {
			return true
		}
	}
	return false
}

func amountInRange(e *domain.Entry, min, max *float64) bool {
	v, ok := normalize.Amount(e.JournalEntryAmount)
	if !ok {
		return false
	}
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func dateInRange(raw string, start time.Time, hasStart bool, end time.Time, hasEnd bool) bool {
	d, ok := normalize.Date(raw)
	if !ok {
		return false
	}
	if hasStart && d.Before(start) {
		return false
	}
	if hasEnd && d.After(end) {
		return false
	}
	return true
}

func clampLimit(limit, ceiling int64) int64 {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

func envelope(rows []domain.Entry, total, page, limit int64) *PageResult {
	if rows == nil {
		rows = []domain.Entry{}
	}
	totalPages := int64(0)
	if limit > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return &PageResult{
		Data: rows,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
