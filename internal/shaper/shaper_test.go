package shaper

import (
	"testing"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
)

func lookup(t *testing.T, name string) *catalogue.Operation {
	t.Helper()
	op, ok := catalogue.New().Lookup(name)
	if !ok {
		t.Fatalf("operation %q not registered", name)
	}
	return op
}

func TestBuildMonthAmount(t *testing.T) {
	op := lookup(t, "amountMonthlyTrend")
	result := []catalogue.MonthAmount{
		{Month: "2024-01", TotalAmount: 100},
		{Month: "2024-02", TotalAmount: 250.5},
	}
	g := Build(op, result, true, "line")
	if g == nil {
		t.Fatal("expected a graph")
	}
	if g.Type != "line" {
		t.Fatalf("Type = %q, want line", g.Type)
	}
	if len(g.X) != 2 || len(g.Y) != 2 {
		t.Fatalf("axes %d/%d, want 2/2", len(g.X), len(g.Y))
	}
	if g.X[1] != "2024-02" || g.Y[1] != 250.5 {
		t.Fatalf("second point = %q/%v", g.X[1], g.Y[1])
	}
}

func TestBuildDefaultsGraphType(t *testing.T) {
	op := lookup(t, "topVendors")
	result := []catalogue.VendorCount{{VendorName: "Acme", Count: 4}}
	g := Build(op, result, true, "sparkline")
	if g == nil || g.Type != DefaultGraphType {
		t.Fatalf("graph = %+v, want type %q", g, DefaultGraphType)
	}
}

func TestBuildPreviewNeverCharts(t *testing.T) {
	op := lookup(t, "getEntriesByAmount")
	result := catalogue.RangeResult{TotalCount: 3}
	if g := Build(op, result, true, "bar"); g != nil {
		t.Fatalf("row preview produced a graph: %+v", g)
	}
}

func TestBuildRespectsWantGraph(t *testing.T) {
	op := lookup(t, "topVendors")
	result := []catalogue.VendorCount{{VendorName: "Acme", Count: 4}}
	if g := Build(op, result, false, "bar"); g != nil {
		t.Fatal("graph built although none was requested")
	}
}

func TestBuildStatsShapeHasNoChart(t *testing.T) {
	op := lookup(t, "amountStats")
	result := catalogue.AmountStats{TotalAmount: 100, AvgAmount: 50}
	if g := Build(op, result, true, "bar"); g != nil {
		t.Fatal("single-record stats produced a graph")
	}
}

func TestBuildEmptyResultHasNoChart(t *testing.T) {
	op := lookup(t, "topVendors")
	if g := Build(op, []catalogue.VendorCount{}, true, "bar"); g != nil {
		t.Fatal("empty result produced a graph")
	}
}

func TestBuildVendorMonthFacet(t *testing.T) {
	op := lookup(t, "getEntriesByVendor")
	result := []catalogue.VendorMonthFacet{
		{VendorName: "Acme", Month: "2024-01", Count: 3, TotalAmount: 900},
		{VendorName: "Acme", Month: "2024-02", Count: 1, TotalAmount: 200},
	}
	g := Build(op, result, true, "bar")
	if g == nil {
		t.Fatal("expected a graph")
	}
	if g.Label != "Acme" {
		t.Fatalf("Label = %q, want vendor name", g.Label)
	}
	if g.X[0] != "2024-01" || g.Y[0] != 3 {
		t.Fatalf("first point = %q/%v", g.X[0], g.Y[0])
	}
}

func TestBuildApprovalRateUsesPercentage(t *testing.T) {
	op := lookup(t, "getApprovalRates")
	result := []catalogue.StatusRate{
		{Status: "Approved", Count: 3, Percentage: 75},
		{Status: "Rejected", Count: 1, Percentage: 25},
		{Status: "Pending", Count: 0, Percentage: 0},
	}
	g := Build(op, result, true, "pie")
	if g == nil || g.Type != "pie" {
		t.Fatalf("graph = %+v", g)
	}
	if g.Y[0] != 75 {
		t.Fatalf("Y[0] = %v, want percentage not count", g.Y[0])
	}
}
