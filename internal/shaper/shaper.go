// Package shaper turns catalogue results into chart descriptors. Axis
// extraction is keyed on the operation's declared shape tag, so a new result
// type never silently falls into the wrong chart.
package shaper

import (
	"fmt"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/domain"
)

// DefaultGraphType is used when the classifier asked for a chart without
// naming one.
const DefaultGraphType = "bar"

var graphTypes = map[string]bool{"bar": true, "line": true, "pie": true}

// Build derives a chart from an operation result. It returns nil when the
// operation is not chartable, the caller did not ask for a chart, or the
// shape carries no plottable axes. Row previews never chart, even when the
// classifier asked for one.
func Build(op *catalogue.Operation, result any, wantGraph bool, graphType string) *domain.Graph {
	if op == nil || !wantGraph || !op.Chartable() {
		return nil
	}
	if !graphTypes[graphType] {
		graphType = DefaultGraphType
	}

	x, y, label := axes(op.Shape, result)
	if len(x) == 0 || len(x) != len(y) {
		return nil
	}
	return &domain.Graph{Type: graphType, X: x, Y: y, Label: label}
}

func axes(shape catalogue.Shape, result any) (x []string, y []float64, label string) {
	switch shape {
	case catalogue.ShapeApprovalOverview:
		rows, _ := result.([]catalogue.StatusCount)
		for _, r := range rows {
			x = append(x, r.Status)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeEntryTypeDist:
		rows, _ := result.([]catalogue.TypeCount)
		for _, r := range rows {
			x = append(x, r.Type)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeTopByField, catalogue.ShapeCenterDist:
		rows, _ := result.([]catalogue.ValueCount)
		for _, r := range rows {
			x = append(x, r.Value)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeFieldValueCount:
		rows, _ := result.([]catalogue.FieldValueCount)
		for _, r := range rows {
			x = append(x, r.Value)
			y = append(y, float64(r.Count))
		}
		if len(rows) > 0 {
			label = rows[0].Field
		}
		return x, y, label

	case catalogue.ShapeMonthCount:
		switch rows := result.(type) {
		case []catalogue.MonthCount:
			for _, r := range rows {
				x = append(x, r.Month)
				y = append(y, float64(r.Count))
			}
			return x, y, "Entries"
		case []catalogue.VendorMonthFacet:
			for _, r := range rows {
				x = append(x, r.Month)
				y = append(y, float64(r.Count))
			}
			if len(rows) > 0 {
				label = rows[0].VendorName
			}
			return x, y, label
		}
		return nil, nil, ""

	case catalogue.ShapeMonthAmount:
		rows, _ := result.([]catalogue.MonthAmount)
		for _, r := range rows {
			x = append(x, r.Month)
			y = append(y, r.TotalAmount)
		}
		return x, y, "Total amount"

	case catalogue.ShapeMonthSummary:
		rows, _ := result.([]catalogue.MonthSummary)
		for _, r := range rows {
			x = append(x, r.Month)
			y = append(y, r.TotalAmount)
		}
		return x, y, "Total amount"

	case catalogue.ShapeMonthTypeCount:
		rows, _ := result.([]catalogue.MonthTypeCount)
		for _, r := range rows {
			x = append(x, fmt.Sprintf("%s %s", r.Month, r.Type))
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeVendorCount:
		rows, _ := result.([]catalogue.VendorCount)
		for _, r := range rows {
			x = append(x, r.VendorName)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeLabelCount:
		rows, _ := result.([]catalogue.LabelCount)
		for _, r := range rows {
			x = append(x, r.Label)
			y = append(y, float64(r.Count))
		}
		return x, y, ""

	case catalogue.ShapeVendorConc:
		rows, _ := result.([]catalogue.VendorAmount)
		for _, r := range rows {
			x = append(x, r.VendorName)
			y = append(y, r.TotalAmount)
		}
		return x, y, "Total amount"

	case catalogue.ShapeApprovalRate:
		rows, _ := result.([]catalogue.StatusRate)
		for _, r := range rows {
			x = append(x, r.Status)
			y = append(y, r.Percentage)
		}
		return x, y, "Percentage"

	case catalogue.ShapeApproverWorkload:
		rows, _ := result.([]catalogue.ApproverCount)
		for _, r := range rows {
			x = append(x, r.Approver)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"

	case catalogue.ShapeYearOverYear:
		rows, _ := result.([]catalogue.YearSummary)
		for _, r := range rows {
			x = append(x, r.Year)
			y = append(y, r.TotalAmount)
		}
		return x, y, "Total amount"

	case catalogue.ShapeErrorDist:
		rows, _ := result.([]catalogue.MessageCount)
		for _, r := range rows {
			x = append(x, r.Message)
			y = append(y, float64(r.Count))
		}
		return x, y, "Occurrences"

	case catalogue.ShapeStatusFieldCount:
		rows, _ := result.([]catalogue.StatusFieldCount)
		for _, r := range rows {
			x = append(x, r.Status)
			y = append(y, float64(r.Count))
		}
		return x, y, "Entries"
	}

	// stats, table and amount-range shapes have no chart projection.
	return nil, nil, ""
}
