package catalogue

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

func seedStore(entries []domain.Entry) *store.Memory {
	m := store.NewMemory()
	m.Seed(entries)
	return m
}

func mustRun(t *testing.T, c *Catalogue, st store.EntryStore, name string, raw map[string]any) any {
	t.Helper()
	op, ok := c.Lookup(name)
	if !ok {
		t.Fatalf("operation %q not registered", name)
	}
	args, err := op.ValidateArgs(raw)
	if err != nil {
		t.Fatalf("ValidateArgs(%q): %v", name, err)
	}
	result, err := op.Run(context.Background(), st, args)
	if err != nil {
		t.Fatalf("Run(%q): %v", name, err)
	}
	return result
}

func TestLookupUnknownOperation(t *testing.T) {
	c := New()
	if _, ok := c.Lookup("dropAllEntries"); ok {
		t.Fatal("unknown operation resolved")
	}
	if _, ok := c.Lookup(" topVendors "); !ok {
		t.Fatal("lookup should trim surrounding whitespace")
	}
}

func TestValidateArgs(t *testing.T) {
	c := New()

	t.Run("missing required", func(t *testing.T) {
		op, _ := c.Lookup("getApprovalOverview")
		if _, err := op.ValidateArgs(map[string]any{}); err == nil {
			t.Fatal("expected error for missing level")
		}
	})

	t.Run("domain violation", func(t *testing.T) {
		op, _ := c.Lookup("getApprovalOverview")
		if _, err := op.ValidateArgs(map[string]any{"level": "L3"}); err == nil {
			t.Fatal("expected error for level outside L1/L2")
		}
	})

	t.Run("domain value canonicalized", func(t *testing.T) {
		op, _ := c.Lookup("getEntriesByStatus")
		args, err := op.ValidateArgs(map[string]any{"field": "L1ApproverStatus", "status": "approved"})
		if err != nil {
			t.Fatalf("ValidateArgs: %v", err)
		}
		if got := args.String("status", ""); got != domain.StatusApproved {
			t.Fatalf("status = %q, want %q", got, domain.StatusApproved)
		}
	})

	t.Run("default filled", func(t *testing.T) {
		op, _ := c.Lookup("topVendors")
		args, err := op.ValidateArgs(map[string]any{})
		if err != nil {
			t.Fatalf("ValidateArgs: %v", err)
		}
		if got := args.Int("limit", 0); got != 10 {
			t.Fatalf("limit default = %d, want 10", got)
		}
	})
}

func TestCountAllJournalEntryTypes(t *testing.T) {
	st := seedStore([]domain.Entry{
		{JournalEntryType: "Debit"},
		{JournalEntryType: "Credit"},
		{JournalEntryType: "Debit"},
		{JournalEntryType: ""},
	})
	result := mustRun(t, New(), st, "countAllJournalEntryTypes", nil)
	rows := result.([]TypeCount)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Type != "Debit" || rows[0].Count != 2 {
		t.Fatalf("rows[0] = %+v, want Debit/2", rows[0])
	}
	if rows[2].Type != "Unknown" || rows[2].Count != 1 {
		t.Fatalf("rows[2] = %+v, want Unknown/1", rows[2])
	}
}

func TestDistributionOrderStableOnTies(t *testing.T) {
	// Alpha and Beta tie at two entries each; Alpha appears first in the
	// data so it must stay first across repeated runs.
	st := seedStore([]domain.Entry{
		{JournalEntryCostCenter: "Alpha"},
		{JournalEntryCostCenter: "Beta"},
		{JournalEntryCostCenter: "Gamma"},
		{JournalEntryCostCenter: "Alpha"},
		{JournalEntryCostCenter: "Beta"},
		{JournalEntryCostCenter: "Gamma"},
		{JournalEntryCostCenter: "Gamma"},
	})
	c := New()
	for run := 0; run < 3; run++ {
		rows := mustRun(t, c, st, "getCostCenterDistribution", nil).([]ValueCount)
		want := []ValueCount{{"Gamma", 3}, {"Alpha", 2}, {"Beta", 2}}
		for i, w := range want {
			if rows[i] != w {
				t.Fatalf("run %d: rows[%d] = %+v, want %+v", run, i, rows[i], w)
			}
		}
	}
}

func TestTopVendorsLimit(t *testing.T) {
	entries := make([]domain.Entry, 0)
	for i := 0; i < 5; i++ {
		for j := 0; j <= i; j++ {
			entries = append(entries, domain.Entry{JournalEntryVendorName: fmt.Sprintf("Vendor %d", i)})
		}
	}
	st := seedStore(entries)
	rows := mustRun(t, New(), st, "topVendors", map[string]any{"limit": float64(3)}).([]VendorCount)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].VendorName != "Vendor 4" || rows[0].Count != 5 {
		t.Fatalf("rows[0] = %+v, want Vendor 4/5", rows[0])
	}
}

func TestAmountStatsExcludesUnparseable(t *testing.T) {
	st := seedStore([]domain.Entry{
		{JournalEntryAmount: "1,000.00"},
		{JournalEntryAmount: "N/A"},
		{JournalEntryAmount: "(500)"},
		{JournalEntryAmount: ""},
		{JournalEntryAmount: "₹2,500"},
	})
	stats := mustRun(t, New(), st, "amountStats", nil).(AmountStats)
	if stats.TotalAmount != 3000 {
		t.Fatalf("TotalAmount = %v, want 3000", stats.TotalAmount)
	}
	if stats.AvgAmount != 1000 {
		t.Fatalf("AvgAmount = %v, want 1000 (three valid amounts)", stats.AvgAmount)
	}
	if stats.MinAmount != -500 || stats.MaxAmount != 2500 {
		t.Fatalf("min/max = %v/%v, want -500/2500", stats.MinAmount, stats.MaxAmount)
	}
}

func TestAmountMonthlyTrendAscendingMonths(t *testing.T) {
	st := seedStore([]domain.Entry{
		{DocumentDate: "2024-03-15", JournalEntryAmount: "300"},
		{DocumentDate: "2024-01-10", JournalEntryAmount: "100"},
		{DocumentDate: "2024-03-01", JournalEntryAmount: "50"},
		{DocumentDate: "not a date", JournalEntryAmount: "999"},
		{DocumentDate: "2024-02-28", JournalEntryAmount: "200"},
	})
	rows := mustRun(t, New(), st, "amountMonthlyTrend", nil).([]MonthAmount)
	want := []MonthAmount{
		{Month: "2024-01", TotalAmount: 100},
		{Month: "2024-02", TotalAmount: 200},
		{Month: "2024-03", TotalAmount: 350},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestMonthOverMonthCarriesCounts(t *testing.T) {
	st := seedStore([]domain.Entry{
		{DocumentDate: "2024-01-10", JournalEntryAmount: "100"},
		{DocumentDate: "2024-01-20", JournalEntryAmount: "not a number"},
		{DocumentDate: "2024-02-05", JournalEntryAmount: "200"},
	})
	rows := mustRun(t, New(), st, "getMonthOverMonthComparison", nil).([]MonthSummary)
	want := []MonthSummary{
		{Month: "2024-01", TotalAmount: 100, Count: 2},
		{Month: "2024-02", TotalAmount: 200, Count: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestEntriesByAmountOneSidedBounds(t *testing.T) {
	st := seedStore([]domain.Entry{
		{ExcelRowNumber: 2, JournalEntryAmount: "100"},
		{ExcelRowNumber: 3, JournalEntryAmount: "5,000"},
		{ExcelRowNumber: 4, JournalEntryAmount: "-250"},
		{ExcelRowNumber: 5, JournalEntryAmount: "bogus"},
	})
	c := New()

	t.Run("min only", func(t *testing.T) {
		r := mustRun(t, c, st, "getEntriesByAmount", map[string]any{"min": float64(100)}).(RangeResult)
		if r.TotalCount != 2 {
			t.Fatalf("TotalCount = %d, want 2", r.TotalCount)
		}
	})

	t.Run("max only", func(t *testing.T) {
		r := mustRun(t, c, st, "getEntriesByAmount", map[string]any{"max": float64(0)}).(RangeResult)
		if r.TotalCount != 1 || r.Rows[0].ExcelRowNumber != 4 {
			t.Fatalf("result = %+v, want the single negative entry", r)
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		r := mustRun(t, c, st, "getEntriesByAmount", map[string]any{"min": float64(100), "max": float64(100)}).(RangeResult)
		if r.TotalCount != 1 || r.Rows[0].ExcelRowNumber != 2 {
			t.Fatalf("result = %+v, want exactly the 100 entry", r)
		}
	})
}

func TestEntriesByAmountPreviewCap(t *testing.T) {
	entries := make([]domain.Entry, 120)
	for i := range entries {
		entries[i] = domain.Entry{ExcelRowNumber: i + 2, JournalEntryAmount: "10"}
	}
	st := seedStore(entries)
	r := mustRun(t, New(), st, "getEntriesByAmount", map[string]any{"min": float64(0)}).(RangeResult)
	if len(r.Rows) != PreviewLimit {
		t.Fatalf("got %d rows, want preview cap %d", len(r.Rows), PreviewLimit)
	}
	if r.TotalCount != 120 {
		t.Fatalf("TotalCount = %d, want the true total 120", r.TotalCount)
	}
}

func TestEntriesByDateInclusiveRange(t *testing.T) {
	st := seedStore([]domain.Entry{
		{DocumentDate: "2024-01-01", JournalEntryVendorName: "Acme", JournalEntryAmount: "100"},
		{DocumentDate: "2024-01-31", JournalEntryVendorName: "Acme", JournalEntryAmount: "200"},
		{DocumentDate: "2024-02-01", JournalEntryVendorName: "Acme", JournalEntryAmount: "400"},
	})
	rows := mustRun(t, New(), st, "getEntriesByDate", map[string]any{
		"start": "2024-01-01",
		"end":   "2024-01-31",
	}).([]VendorAmount)
	if len(rows) != 1 {
		t.Fatalf("got %d vendors, want 1", len(rows))
	}
	if rows[0].Count != 2 || rows[0].TotalAmount != 300 {
		t.Fatalf("rollup = %+v, want both January entries and neither February one", rows[0])
	}
}

func TestApprovalOverviewFixedStatusOrder(t *testing.T) {
	st := seedStore([]domain.Entry{
		{L1ApproverStatus: "Approved"},
		{L1ApproverStatus: "approved"},
		{L1ApproverStatus: "Rejected"},
		{L1ApproverStatus: ""},
	})
	rows := mustRun(t, New(), st, "getApprovalOverview", map[string]any{"level": "L1"}).([]StatusCount)
	want := []StatusCount{
		{Status: domain.StatusApproved, Count: 2},
		{Status: domain.StatusRejected, Count: 1},
		{Status: domain.StatusPending, Count: 1},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestApprovalOverviewKeepsNonCanonicalStatuses(t *testing.T) {
	st := seedStore([]domain.Entry{
		{L1ApproverStatus: "Approved"},
		{L1ApproverStatus: "On Hold"},
		{L1ApproverStatus: "On Hold"},
		{L1ApproverStatus: ""},
	})
	rows := mustRun(t, New(), st, "getApprovalOverview", map[string]any{"level": "L1"}).([]StatusCount)
	want := []StatusCount{
		{Status: domain.StatusApproved, Count: 1},
		{Status: domain.StatusRejected, Count: 0},
		{Status: domain.StatusPending, Count: 1},
		{Status: "On Hold", Count: 2},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	if total != 4 {
		t.Fatalf("counts sum to %d, want 4", total)
	}
}

func TestApprovalRatesPercentages(t *testing.T) {
	st := seedStore([]domain.Entry{
		{L2ApproverStatus: "Approved"},
		{L2ApproverStatus: "Approved"},
		{L2ApproverStatus: "Approved"},
		{L2ApproverStatus: "Rejected"},
	})
	rows := mustRun(t, New(), st, "getApprovalRates", map[string]any{"level": "L2"}).([]StatusRate)
	if rows[0].Percentage != 75 {
		t.Fatalf("Approved percentage = %v, want 75", rows[0].Percentage)
	}
	if rows[1].Percentage != 25 {
		t.Fatalf("Rejected percentage = %v, want 25", rows[1].Percentage)
	}
}

func TestApprovalRatesCoverEveryStatus(t *testing.T) {
	st := seedStore([]domain.Entry{
		{L1ApproverStatus: "Approved"},
		{L1ApproverStatus: "Sent Back"},
		{L1ApproverStatus: "Sent Back"},
		{L1ApproverStatus: "Rejected"},
	})
	rows := mustRun(t, New(), st, "getApprovalRates", map[string]any{"level": "L1"}).([]StatusRate)
	sum := 0.0
	for _, r := range rows {
		sum += r.Percentage
	}
	if sum != 100 {
		t.Fatalf("percentages sum to %v, want 100: %+v", sum, rows)
	}
	if rows[3].Status != "Sent Back" || rows[3].Percentage != 50 {
		t.Fatalf("rows[3] = %+v, want Sent Back at 50%%", rows[3])
	}
}

func TestDocumentsWithErrors(t *testing.T) {
	st := seedStore([]domain.Entry{
		{DocumentNumberOrErrorMessage: "4900001234"},
		{DocumentNumberOrErrorMessage: "Posting period closed"},
		{DocumentNumberOrErrorMessage: "Posting period closed"},
		{DocumentNumberOrErrorMessage: "Balance in transaction currency"},
		{DocumentNumberOrErrorMessage: ""},
	})
	rows := mustRun(t, New(), st, "getDocumentsWithErrors", nil).([]MessageCount)
	if len(rows) != 2 {
		t.Fatalf("got %d messages, want 2", len(rows))
	}
	if rows[0].Message != "Posting period closed" || rows[0].Count != 2 {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
}

func TestDormantVendorsRelativeToNewestMonth(t *testing.T) {
	st := seedStore([]domain.Entry{
		{JournalEntryVendorName: "Fresh Co", DocumentDate: "2024-06-10"},
		{JournalEntryVendorName: "Stale Ltd", DocumentDate: "2023-09-01"},
		{JournalEntryVendorName: "Stale Ltd", DocumentDate: "2023-08-01"},
		{JournalEntryVendorName: "Edge Inc", DocumentDate: "2023-12-15"},
	})
	r := mustRun(t, New(), st, "getDormantVendors", map[string]any{"months": float64(6)}).(DormantVendorResult)
	if r.TotalCount != 1 || len(r.Vendors) != 1 {
		t.Fatalf("got %d dormant vendors (total %d), want 1: %+v", len(r.Vendors), r.TotalCount, r.Vendors)
	}
	if r.Vendors[0].VendorName != "Stale Ltd" || r.Vendors[0].LastMonth != "2023-09" || r.Vendors[0].Count != 2 {
		t.Fatalf("vendors[0] = %+v", r.Vendors[0])
	}
}

func TestDormantVendorsDiscloseTrueTotal(t *testing.T) {
	entries := []domain.Entry{{JournalEntryVendorName: "Fresh Co", DocumentDate: "2024-06-10"}}
	for i := 0; i < PreviewLimit+10; i++ {
		entries = append(entries, domain.Entry{
			JournalEntryVendorName: fmt.Sprintf("Stale %03d", i),
			DocumentDate:           "2023-01-15",
		})
	}
	st := seedStore(entries)
	r := mustRun(t, New(), st, "getDormantVendors", map[string]any{"months": float64(6)}).(DormantVendorResult)
	if len(r.Vendors) != PreviewLimit {
		t.Fatalf("got %d vendors, want preview cap %d", len(r.Vendors), PreviewLimit)
	}
	if r.TotalCount != PreviewLimit+10 {
		t.Fatalf("TotalCount = %d, want %d", r.TotalCount, PreviewLimit+10)
	}
}

func TestDetectAmountOutliers(t *testing.T) {
	entries := []domain.Entry{
		{ExcelRowNumber: 2, JournalEntryAmount: "100"},
		{ExcelRowNumber: 3, JournalEntryAmount: "110"},
		{ExcelRowNumber: 4, JournalEntryAmount: "90"},
		{ExcelRowNumber: 5, JournalEntryAmount: "105"},
		{ExcelRowNumber: 6, JournalEntryAmount: "1000000"},
	}
	st := seedStore(entries)
	r := mustRun(t, New(), st, "detectAmountOutliers", map[string]any{"deviations": float64(2)}).(RangeResult)
	if r.TotalCount != 1 || r.Rows[0].ExcelRowNumber != 6 {
		t.Fatalf("outliers = %+v, want only the million-amount row", r)
	}
}

func TestVendorMatchingIsCaseInsensitive(t *testing.T) {
	st := seedStore([]domain.Entry{
		{JournalEntryVendorName: "ACME Corp", DocumentDate: "2024-01-05", JournalEntryAmount: "100"},
		{JournalEntryVendorName: "acme corp", DocumentDate: "2024-02-05", JournalEntryAmount: "200"},
		{JournalEntryVendorName: "Other", DocumentDate: "2024-01-05", JournalEntryAmount: "999"},
	})
	rows := mustRun(t, New(), st, "getEntriesByVendor", map[string]any{"vendor": "Acme Corp"}).([]VendorMonthFacet)
	if len(rows) != 2 {
		t.Fatalf("got %d months, want 2", len(rows))
	}
	if rows[0].Month != "2024-01" || rows[1].Month != "2024-02" {
		t.Fatalf("months out of order: %+v", rows)
	}
}

func TestDescribeListsEveryOperation(t *testing.T) {
	c := New()
	desc := c.Describe()
	for _, name := range c.Names() {
		if !strings.Contains(desc, name) {
			t.Fatalf("Describe() missing operation %q", name)
		}
	}
}
