package catalogue

import (
	"context"
	"strings"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func approvalOperations() []*Operation {
	return []*Operation{
		{
			Name:    "getApprovalOverview",
			Kind:    KindAggregate,
			Shape:   ShapeApprovalOverview,
			Summary: "approved, rejected and pending counts for one approval level",
			Params: []Param{
				{Name: "level", Type: "string", Required: true, Domain: []string{"L1", "L2"}},
			},
			Run: runApprovalOverview,
		},
		{
			Name:    "getApprovalRates",
			Kind:    KindAggregate,
			Shape:   ShapeApprovalRate,
			Summary: "status percentages for one approval level",
			Params: []Param{
				{Name: "level", Type: "string", Default: "L1", Domain: []string{"L1", "L2"}},
			},
			Run: runApprovalRates,
		},
		{
			Name:    "getApproverWorkload",
			Kind:    KindAggregate,
			Shape:   ShapeApproverWorkload,
			Summary: "entry counts per approver at one level",
			Params: []Param{
				{Name: "level", Type: "string", Default: "L1", Domain: []string{"L1", "L2"}},
			},
			Run: runApproverWorkload,
		},
	}
}

func levelFields(level string) (statusField, nameField string) {
	if strings.EqualFold(level, "L2") {
		return domain.FieldL2Status, domain.FieldL2Name
	}
	return domain.FieldL1Status, domain.FieldL1Name
}

func canonicalStatus(raw string) string {
	s := strings.TrimSpace(raw)
	for _, known := range []string{domain.StatusApproved, domain.StatusRejected, domain.StatusPending} {
		if strings.EqualFold(s, known) {
			return known
		}
	}
	if s == "" {
		return domain.StatusPending
	}
	return s
}

// tallyStatuses counts entries per canonical status and returns the status
// order for output: the canonical three first so chart axes stay stable, then
// any other status present in the data in first-encountered order.
func tallyStatuses(entries []domain.Entry, statusField string) (map[string]int, []string) {
	canonical := []string{domain.StatusApproved, domain.StatusRejected, domain.StatusPending}
	counts := map[string]int{}
	var extra []string
	for i := range entries {
		s := canonicalStatus(entries[i].Field(statusField))
		if _, seen := counts[s]; !seen && s != domain.StatusApproved && s != domain.StatusRejected && s != domain.StatusPending {
			extra = append(extra, s)
		}
		counts[s]++
	}
	return counts, append(canonical, extra...)
}

func runApprovalOverview(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	statusField, _ := levelFields(args.String("level", "L1"))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	counts, order := tallyStatuses(entries, statusField)
	out := make([]StatusCount, 0, len(order))
	for _, s := range order {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out, nil
}

func runApprovalRates(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	statusField, _ := levelFields(args.String("level", "L1"))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	counts, order := tallyStatuses(entries, statusField)
	total := len(entries)
	out := make([]StatusRate, 0, len(order))
	for _, s := range order {
		rate := StatusRate{Status: s, Count: counts[s]}
		if total > 0 {
			rate.Percentage = float64(counts[s]) / float64(total) * 100
		}
		out = append(out, rate)
	}
	return out, nil
}

func runApproverWorkload(ctx context.Context, st store.EntryStore, args Args) (any, error) {
	_, nameField := levelFields(args.String("level", "L1"))
	entries, err := st.All(ctx)
	if err != nil {
		return nil, err
	}
	g := newGrouper()
	for i := range entries {
		name := strings.TrimSpace(entries[i].Field(nameField))
		if name == "" {
			continue
		}
		g.add(name, name, 0)
	}
	out := make([]ApproverCount, 0, len(g.groups))
	for _, gr := range g.byCountDesc() {
		out = append(out, ApproverCount{Approver: gr.label, Count: gr.count})
	}
	return out, nil
}
