package catalogue

import (
	"context"
	"strings"
	"time"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/normalize"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func filterOperations() []*Operation {
	return []*Operation{
		{
			Name:    "getEntriesByVendor",
			Kind:    KindAggregate,
			Shape:   ShapeMonthCount,
			Summary: "monthly activity rollup for one vendor",
			Params: []Param{
				{Name: "vendor", Type: "string", Required: true},
			},
			Run: runEntriesByVendor,
		},
		{
			Name:    "getEntriesByAmount",
			Kind:    KindPreview,
			Shape:   ShapeAmountRange,
			Summary: "entries within an amount range, one-sided bounds allowed",
			Params: []Param{
				{Name: "min", Type: "number"},
				{Name: "max", Type: "number"},
			},
			Run: runEntriesByAmount,
		},
		{
			Name:    "getEntriesByDate",
			Kind:    KindAggregate,
			Shape:   ShapeVendorConc,
			Summary: "per-vendor rollup of entries within a date range",
			Params: []Param{
				{Name: "start", Type: "string", Required: true},
				{Name: "end", Type: "string", Required: true},
				{Name: "field", Type: "string", Default: domain.FieldDocumentDate, Domain: []string{domain.FieldDocumentDate, domain.FieldPostingDate}},
			},
			Run: runEntriesByDate,
		},
		{
			Name:    "getEntriesByStatus",
			Kind:    KindAggregate,
			Shape:   ShapeStatusFieldCount,
			Summary: "count of entries holding a status on a status field",
			Params: []Param{
				{Name: "field", Type: "string", Required: true, Domain: []string{domain.FieldInitiatorStatus, domain.FieldL1Status, domain.FieldL2Status}},
				{Name: "status", Type: "string", Required: true, Domain: []string{domain.StatusApproved, domain.StatusRejected, domain.StatusPending}},
			},
			Run: runEntriesByStatus,
		},
		{
			Name:    "getDocumentDetails",
			Kind:    KindPreview,
			Shape:   ShapeTable,
			Summary: "entries matching a document number",
			Params: []Param{
				{Name: "document", Type: "string", Required: true},
			},
			Run: runDocumentDetails,
		},
		{
			Name:    "getReversalDocuments",
			Kind:    KindPreview,
			Shape:   ShapeTable,
			Summary: "entries carrying a reversal document number",
			Run:     runReversalDocuments,
		},
		{
			Name:    "getDocumentsWithErrors",
			Kind:    KindAggregate,
			Shape:   ShapeErrorDist,
			Summary: "error messages grouped by frequency",
			Run:     runDocumentsWithErrors,
		},
		{
			Name:    "getDormantVendors",
			Kind:    KindPreview,
			Shape:   ShapeTable,
			Summary: "vendors with no activity in the last N months",
			Params: []Param{
				{Name: "months", Type: "int", Default: 6},
			},
			Run: runDormantVendors,
		},
	}
}

func previewRows(entries []domain.Entry) RangeResult {
	total := len(entries)
	if len(entries) > PreviewLimit {
		entries = entries[:PreviewLimit]
	}
	return RangeResult{Rows: entries, TotalCount: total}
}

func runEntriesByVendor(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	vendor := args.String("vendor", "")
	key := normalize.Key(vendor)
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	name := vendor
	for i := range entries {
		if normalize.Key(entries[i].JournalEntryVendorName) != key {
			continue
		}
		name = entries[i].JournalEntryVendorName
		m, ok := normalize.Month(entries[i].DocumentDate)
		if !ok {
			continue
		}
		amount, _ := normalize.Amount(entries[i].JournalEntryAmount)
		g.add(m, m, amount)
	}
	out := make([]VendorMonthFacet, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, VendorMonthFacet{VendorName: name, Month: gr.label, Count: gr.count, TotalAmount: gr.amount})
	}
	return out, nil
}

func runEntriesByAmount(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	min, hasMin := args.Float("min")
	max, hasMax := args.Float("max")
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Entry, 0)
	for i := range entries {
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		if hasMin && v < min {
			continue
		}
		if hasMax && v > max {
			continue
		}
		matched = append(matched, entries[i])
	}
	return previewRows(matched), nil
}

func runEntriesByDate(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	field := args.String("field", domain.FieldDocumentDate)
	start, okS := normalize.Date(args.String("start", ""))
	end, okE := normalize.Date(args.String("end", ""))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	// End bound is inclusive for the whole end day.
	if okE {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	g := newGrouper()
	for i := range entries {
		d, ok := normalize.Date(entries[i].Field(field))
		if !ok {
			continue
		}
		if okS && d.Before(start) {
			continue
		}
		if okE && d.After(end) {
			continue
		}
		name := entries[i].JournalEntryVendorName
		if name == "" {
			name = "Unknown"
		}
		amount, _ := normalize.Amount(entries[i].JournalEntryAmount)
		g.add(normalize.Key(name), name, amount)
	}
	out := make([]VendorAmount, 0, len(g.groups))
	for _, gr := range g.byCountDesc() {
		out = append(out, VendorAmount{VendorName: gr.label, TotalAmount: gr.amount, Count: gr.count})
	}
	return out, nil
}

func runEntriesByStatus(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	field := args.String("field", "")
	status := args.String("status", "")
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	count := 0
	for i := range entries {
		if strings.EqualFold(strings.TrimSpace(entries[i].Field(field)), status) {
			count++
		}
	}
	return []StatusFieldCount{{Field: field, Status: status, Count: count}}, nil
}

func runDocumentDetails(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	document := strings.TrimSpace(args.String("document", ""))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Entry, 0)
	for i := range entries {
		if strings.TrimSpace(entries[i].DocumentNumberOrErrorMessage) == document ||
			strings.TrimSpace(entries[i].ReversalDocumentNumber) == document {
			matched = append(matched, entries[i])
		}
	}
	return previewRows(matched), nil
}

func runReversalDocuments(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Entry, 0)
	for i := range entries {
		if strings.TrimSpace(entries[i].ReversalDocumentNumber) != "" {
			matched = append(matched, entries[i])
		}
	}
	return previewRows(matched), nil
}

// isErrorMessage distinguishes posting error text from document numbers in
// the shared DocumentNumberOrErrorMessage column. Document numbers are
// compact alphanumeric tokens; anything containing whitespace is a message.
func isErrorMessage(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && strings.ContainsAny(v, " \t")
}

func runDocumentsWithErrors(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		v := strings.TrimSpace(entries[i].DocumentNumberOrErrorMessage)
		if !isErrorMessage(v) {
			continue
		}
		g.add(v, v, 0)
	}
	out := make([]MessageCount, 0, len(g.groups))
	for _, gr := range g.byCountDesc() {
		out = append(out, MessageCount{Message: gr.label, Count: gr.count})
	}
	return out, nil
}

func runDormantVendors(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	months := args.Int("months", 6)
	if months <= 0 {
		months = 6
	}
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	type vendorActivity struct {
		name      string
		lastMonth string
		count     int
	}
	index := make(map[string]int)
	vendors := make([]vendorActivity, 0)
	latest := ""
	for i := range entries {
		name := entries[i].JournalEntryVendorName
		if name == "" {
			continue
		}
		m, ok := normalize.Month(entries[i].DocumentDate)
		if !ok {
			continue
		}
		if m > latest {
			latest = m
		}
		key := normalize.Key(name)
		j, seen := index[key]
		if !seen {
			j = len(vendors)
			index[key] = j
			vendors = append(vendors, vendorActivity{name: name})
		}
		vendors[j].count++
		if m > vendors[j].lastMonth {
			vendors[j].lastMonth = m
		}
	}
	if latest == "" {
		return DormantVendorResult{Vendors: []DormantVendor{}}, nil
	}
	// Cutoff is N months before the newest month seen in the data, so the
	// result does not depend on wall-clock time.
	cutoffTime, _ := time.Parse("2006-01", latest)
	cutoff := cutoffTime.AddDate(0, -months, 0).Format("2006-01")
	out := make([]DormantVendor, 0)
	for _, v := range vendors {
		if v.lastMonth < cutoff {
			out = append(out, DormantVendor{VendorName: v.name, LastMonth: v.lastMonth, Count: v.count})
		}
	}
	total := len(out)
	if len(out) > PreviewLimit {
		out = out[:PreviewLimit]
	}
	return DormantVendorResult{Vendors: out, TotalCount: total}, nil
}
