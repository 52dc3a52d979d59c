package catalogue

import (
	"context"
	"math"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/normalize"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func statsOperations() []*Operation {
	return []*Operation{
		{
			Name:    "amountStats",
			Kind:    KindAggregate,
			Shape:   ShapeStats,
			Summary: "total, average, max and min entry amounts",
			Run:     runAmountStats,
		},
		{
			Name:    "getVendorAverageTransaction",
			Kind:    KindAggregate,
			Shape:   ShapeStats,
			Summary: "transaction count, total and average amount for one vendor",
			Params: []Param{
				{Name: "vendor", Type: "string", Required: true},
			},
			Run: runVendorAverageTransaction,
		},
		{
			Name:    "getVendorConcentration",
			Kind:    KindAggregate,
			Shape:   ShapeVendorConc,
			Summary: "vendors ranked by share of total spend",
			Params: []Param{
				{Name: "limit", Type: "int", Default: 10},
			},
			Run: runVendorConcentration,
		},
		{
			Name:    "detectAmountOutliers",
			Kind:    KindPreview,
			Shape:   ShapeTable,
			Summary: "entries whose amount deviates from the mean by more than N standard deviations",
			Params: []Param{
				{Name: "deviations", Type: "number", Default: float64(2)},
			},
			Run: runDetectAmountOutliers,
		},
	}
}

// validAmounts returns the parseable amounts of a slice of entries. Entries
// whose amount field cannot be normalized are excluded from every statistic
// rather than counted as zero.
func validAmounts(entries []domain.Entry) []float64 {
	out := make([]float64, 0, len(entries))
	for i := range entries {
		if v, ok := normalize.Amount(entries[i].JournalEntryAmount); ok {
			out = append(out, v)
		}
	}
	return out
}

func runAmountStats(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	amounts := validAmounts(entries)
	if len(amounts) == 0 {
		return AmountStats{}, nil
	}
	stats := AmountStats{MaxAmount: amounts[0], MinAmount: amounts[0]}
	for _, v := range amounts {
		stats.TotalAmount += v
		if v > stats.MaxAmount {
			stats.MaxAmount = v
		}
		if v < stats.MinAmount {
			stats.MinAmount = v
		}
	}
	stats.AvgAmount = stats.TotalAmount / float64(len(amounts))
	return stats, nil
}

func runVendorAverageTransaction(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	vendor := args.String("vendor", "")
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	key := normalize.Key(vendor)
	out := VendorStats{VendorName: vendor}
	for i := range entries {
		if normalize.Key(entries[i].JournalEntryVendorName) != key {
			continue
		}
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		out.Count++
		out.TotalAmount += v
	}
	if out.Count > 0 {
		out.AvgAmount = out.TotalAmount / float64(out.Count)
	}
	return out, nil
}

func runVendorConcentration(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	limit := args.Int("limit", 10)
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		name := entries[i].JournalEntryVendorName
		if name == "" {
			continue
		}
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		g.add(normalize.Key(name), name, v)
	}
	out := make([]VendorAmount, 0, limit)
	for _, gr := range truncateGroups(g.byAmountDesc(), limit) {
		out = append(out, VendorAmount{VendorName: gr.label, TotalAmount: gr.amount, Count: gr.count})
	}
	return out, nil
}

func runDetectAmountOutliers(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	deviations := 2.0
	if v, ok := args.Float("deviations"); ok && v > 0 {
		deviations = v
	}
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	amounts := validAmounts(entries)
	if len(amounts) < 2 {
		return RangeResult{Rows: []domain.Entry{}}, nil
	}
	var sum float64
	for _, v := range amounts {
		sum += v
	}
	mean := sum / float64(len(amounts))
	var variance float64
	for _, v := range amounts {
		d := v - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(amounts)))
	threshold := deviations * stddev

	matched := make([]domain.Entry, 0)
	for i := range entries {
		v, ok := normalize.Amount(entries[i].JournalEntryAmount)
		if !ok {
			continue
		}
		if math.Abs(v-mean) > threshold {
			matched = append(matched, entries[i])
		}
	}
	total := len(matched)
	if len(matched) > PreviewLimit {
		matched = matched[:PreviewLimit]
	}
	return RangeResult{Rows: matched, TotalCount: total}, nil
}
