package catalogue

import (
	"context"

	"github.com/dkapoor/ledgerlens/internal/normalize"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func trendOperations() []*Operation {
	return []*Operation{
		{
			Name:    "vendorMonthlyTrend",
			Kind:    KindAggregate,
			Shape:   ShapeMonthCount,
			Summary: "monthly entry counts for one vendor",
			Params: []Param{
				{Name: "vendor", Type: "string", Required: true},
			},
			Run: runVendorMonthlyTrend,
		},
		{
			Name:    "amountMonthlyTrend",
			Kind:    KindAggregate,
			Shape:   ShapeMonthAmount,
			Summary: "total amount posted per month",
			Run:     runAmountMonthlyTrend,
		},
		{
			Name:    "creditDebitMonthlyTrend",
			Kind:    KindAggregate,
			Shape:   ShapeMonthTypeCount,
			Summary: "monthly entry counts split by credit and debit",
			Run:     runCreditDebitMonthlyTrend,
		},
		{
			Name:    "costCenterMonthlyTrend",
			Kind:    KindAggregate,
			Shape:   ShapeMonthCount,
			Summary: "monthly entry counts for one cost center",
			Params: []Param{
				{Name: "costCenter", Type: "string", Required: true},
			},
			Run: runCostCenterMonthlyTrend,
		},
		{
			Name:    "getMonthOverMonthComparison",
			Kind:    KindAggregate,
			Shape:   ShapeMonthSummary,
			Summary: "entry count and total amount for each month, adjacent months comparable",
			Run:     runMonthOverMonth,
		},
		{
			Name:    "getYearOverYearComparison",
			Kind:    KindAggregate,
			Shape:   ShapeYearOverYear,
			Summary: "entry count and total amount per year",
			Run:     runYearOverYear,
		},
	}
}

// monthOf buckets an entry's document date into YYYY-MM. Entries whose date
// cannot be parsed are excluded from trend buckets entirely.
func monthOf(raw string) (string, bool) {
	return normalize.Month(raw)
}

func runVendorMonthlyTrend(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	vendor := normalize.Key(args.String("vendor", ""))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		if normalize.Key(entries[i].JournalEntryVendorName) != vendor {
			continue
		}
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		g.add(m, m, 0)
	}
	out := make([]MonthCount, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, MonthCount{Month: gr.label, Count: gr.count})
	}
	return out, nil
}

func runAmountMonthlyTrend(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		g.add(m, m, v)
	}
	out := make([]MonthAmount, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, MonthAmount{Month: gr.label, TotalAmount: gr.amount})
	}
	return out, nil
}

func runCreditDebitMonthlyTrend(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	type bucket struct {
		month, typ string
	}
	g := newGrouper()
	meta := make(map[string]bucket)
	for i := range entries {
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		t := entries[i].JournalEntryType
		if t == "" {
			t = "Unknown"
		}
		key := m + "\x00" + t
		g.add(key, key, 0)
		meta[key] = bucket{month: m, typ: t}
	}
	out := make([]MonthTypeCount, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		b := meta[gr.key]
		out = append(out, MonthTypeCount{Month: b.month, Type: b.typ, Count: gr.count})
	}
	return out, nil
}

func runCostCenterMonthlyTrend(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	center := normalize.Key(args.String("costCenter", ""))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		if normalize.Key(entries[i].JournalEntryCostCenter) != center {
			continue
		}
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		g.add(m, m, 0)
	}
	out := make([]MonthCount, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, MonthCount{Month: gr.label, Count: gr.count})
	}
	return out, nil
}

func runMonthOverMonth(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		amount, _ := normalize.Amount(entries[i].JournalEntryAmount)
		g.add(m, m, amount)
	}
	out := make([]MonthSummary, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, MonthSummary{Month: gr.label, TotalAmount: gr.amount, Count: gr.count})
	}
	return out, nil
}

func runYearOverYear(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		m, ok := monthOf(entries[i].DocumentDate)
		if !ok {
			continue
		}
		year := m[:4]
		amount, _ := normalize.Amount(entries[i].JournalEntryAmount)
		g.add(year, year, amount)
	}
	out := make([]YearSummary, 0, len(g.groups))
	for _, gr := range g.byKeyAsc() {
		out = append(out, YearSummary{Year: gr.label, TotalAmount: gr.amount, Count: gr.count})
	}
	return out, nil
}
