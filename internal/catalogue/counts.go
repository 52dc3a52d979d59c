package catalogue

import (
	"context"
	"fmt"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func countOperations() []*Operation {
	return []*Operation{
		{
			Name:    "countAllEntries",
			Kind:    KindAggregate,
			Shape:   ShapeLabelCount,
			Summary: "total number of journal entries",
			Run:     runCountAllEntries,
		},
		{
			Name:    "countAllJournalEntryTypes",
			Kind:    KindAggregate,
			Shape:   ShapeEntryTypeDist,
			Summary: "credit vs debit breakdown by JournalEntryType",
			Run:     runCountAllJournalEntryTypes,
		},
		{
			Name:    "countByField",
			Kind:    KindAggregate,
			Shape:   ShapeFieldValueCount,
			Summary: "distinct-value counts for any entry field",
			Params: []Param{
				{Name: "field", Type: "string", Required: true},
			},
			Run: runCountByField,
		},
		{
			Name:    "topByField",
			Kind:    KindAggregate,
			Shape:   ShapeTopByField,
			Summary: "most frequent values of a field",
			Params: []Param{
				{Name: "field", Type: "string", Required: true},
				{Name: "limit", Type: "int", Default: 10},
			},
			Run: runTopByField,
		},
		{
			Name:    "topVendors",
			Kind:    KindAggregate,
			Shape:   ShapeVendorCount,
			Summary: "vendors with the most entries",
			Params: []Param{
				{Name: "limit", Type: "int", Default: 10},
			},
			Run: runTopVendors,
		},
		{
			Name:    "getCostCenterDistribution",
			Kind:    KindAggregate,
			Shape:   ShapeCenterDist,
			Summary: "entry counts per cost center",
			Run:     distributionRunner(domain.FieldCostCenter, 0),
		},
		{
			Name:    "getProfitCenterDistribution",
			Kind:    KindAggregate,
			Shape:   ShapeCenterDist,
			Summary: "entry counts per profit center",
			Run:     distributionRunner(domain.FieldProfitCenter, 0),
		},
		{
			Name:    "getBusinessAreaDistribution",
			Kind:    KindAggregate,
			Shape:   ShapeCenterDist,
			Summary: "entry counts per business area",
			Run:     distributionRunner(domain.FieldBusinessArea, 0),
		},
		{
			Name:    "topCostCenters",
			Kind:    KindAggregate,
			Shape:   ShapeCenterDist,
			Summary: "cost centers with the most entries",
			Params: []Param{
				{Name: "limit", Type: "int", Default: 10},
			},
			Run: limitedDistributionRunner(domain.FieldCostCenter),
		},
		{
			Name:    "topProfitCenters",
			Kind:    KindAggregate,
			Shape:   ShapeCenterDist,
			Summary: "profit centers with the most entries",
			Params: []Param{
				{Name: "limit", Type: "int", Default: 10},
			},
			Run: limitedDistributionRunner(domain.FieldProfitCenter),
		},
	}
}

func runCountAllEntries(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	total, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}
	return []LabelCount{{Label: "Total Entries", Count: int(total)}}, nil
}

func runCountAllJournalEntryTypes(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		t := entries[i].JournalEntryType
		if t == "" {
			t = "Unknown"
		}
		g.add(t, t, 0)
	}
	out := make([]TypeCount, 0, len(g.groups))
	for _, gr := range g.byCountDesc() {
		out = append(out, TypeCount{Type: gr.label, Count: gr.count})
	}
	return out, nil
}

func runCountByField(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	field := args.String("field", "")
	if !domain.IsField(field) {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		v := entries[i].Field(field)
		if v == "" {
			v = "Unknown"
		}
		g.add(v, v, 0)
	}
	out := make([]FieldValueCount, 0, len(g.groups))
	for _, gr := range g.byCountDesc() {
		out = append(out, FieldValueCount{Field: field, Value: gr.label, Count: gr.count})
	}
	return out, nil
}

func runTopByField(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	field := args.String("field", "")
	if !domain.IsField(field) {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	limit := args.Int("limit", 10)
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		v := entries[i].Field(field)
		if v == "" {
			continue
		}
		g.add(v, v, 0)
	}
	out := make([]ValueCount, 0, limit)
	for _, gr := range truncateGroups(g.byCountDesc(), limit) {
		out = append(out, ValueCount{Value: gr.label, Count: gr.count})
	}
	return out, nil
}

func runTopVendors(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	limit := args.Int("limit", 10)
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		v := entries[i].JournalEntryVendorName
		if v == "" {
			continue
		}
		g.add(v, v, 0)
	}
	out := make([]VendorCount, 0, limit)
	for _, gr := range truncateGroups(g.byCountDesc(), limit) {
		out = append(out, VendorCount{VendorName: gr.label, Count: gr.count})
	}
	return out, nil
}

func distributionRunner(field string, limit int) func(context.Context, store.EntryStore, Args) (any, error) {
	return func(ctx context.Context, st store.EntryStore, _ Args) (any, error) {
		return fieldDistribution(ctx, st, field, limit)
	}
}

func limitedDistributionRunner(field string) func(context.Context, store.EntryStore, Args) (any, error) {
	return func(ctx context.Context, st store.EntryStore, args Args) (any, error) {
		return fieldDistribution(ctx, st, field, args.Int("limit", 10))
	}
}

func fieldDistribution(ctx context.Context, st store.EntryStore, field string, limit int) ([]ValueCount, error) {
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		v := entries[i].Field(field)
		if v == "" {
			v = "Unknown"
		}
		g.add(v, v, 0)
	}
	out := make([]ValueCount, 0, len(g.groups))
	for _, gr := range truncateGroups(g.byCountDesc(), limit) {
		out = append(out, ValueCount{Value: gr.label, Count: gr.count})
	}
	return out, nil
}
