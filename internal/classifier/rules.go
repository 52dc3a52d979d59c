package classifier

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/domain"
)

var (
	topNRegex       = regexp.MustCompile(`(?i)\btop\s+(\d+)\b`)
	aboveRegex      = regexp.MustCompile(`(?i)\b(?:above|over|more than|greater than|at least|exceeding)\s*(?:rs\.?|₹)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b|thousand|lakhs?)?`)
	belowRegex      = regexp.MustCompile(`(?i)\b(?:below|under|less than|at most|within)\s*(?:rs\.?|₹)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b|thousand|lakhs?)?`)
	betweenRegex    = regexp.MustCompile(`(?i)\bbetween\s*(?:rs\.?|₹)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b|thousand|lakhs?)?\s*(?:and|to|-)\s*(?:rs\.?|₹)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b|thousand|lakhs?)?`)
	documentRegex   = regexp.MustCompile(`(?i)\bdocument\s+(?:number\s+)?([A-Za-z0-9-]{3,})`)
	isoDateRegex    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	vendorRegex     = regexp.MustCompile(`(?i)\bvendor\s+(.+?)\s*(?:monthly\s+trend|trend|entries)?\s*$`)
	deviationsRegex = regexp.MustCompile(`(?i)(\d+)\s*(?:standard\s+deviations?|std|deviations?)`)
	monthsRegex     = regexp.MustCompile(`(?i)(\d+)\s*months?`)
	levelRegex      = regexp.MustCompile(`(?i)\b(l1|l2)\b`)
)

// Rules is the deterministic layer of the classifier. It corrects model
// decisions that violate routing invariants, and doubles as a standalone
// pattern-based classifier when no model is configured.
type Rules struct {
	cat *catalogue.Catalogue
}

func NewRules(cat *catalogue.Catalogue) *Rules {
	return &Rules{cat: cat}
}

func mentionsCreditDebit(q string) bool {
	for _, kw := range []string{"credit vs debit", "credit and debit", "debit vs credit", "debit and credit", "journal entry type", "entry type distribution", "credit entries", "debit entries"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func mentionsApprovalOverview(q string) bool {
	for _, kw := range []string{"approval overview", "approval summary", "approval status overview"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func mentionsMonthly(q string) bool {
	for _, kw := range []string{"monthly", "month wise", "month-wise", "this month", "previous months", "trend over time", "per month"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func mentionsAmount(q string) bool {
	for _, kw := range []string{"amount", "value", "spend", "spent", "total"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// scaled applies an explicit unit suffix to a parsed number. No unit means
// the number is taken literally.
func scaled(numText, unit string) float64 {
	n, _ := strconv.ParseFloat(strings.ReplaceAll(numText, ",", ""), 64)
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "k", "thousand":
		return n * 1000
	case "lakh", "lakhs":
		return n * 100000
	}
	return n
}

// Enforce rewrites a decision so the routing invariants hold regardless of
// what the model produced.
func (r *Rules) Enforce(question string, d *domain.Decision) {
	if d == nil {
		return
	}
	q := strings.ToLower(question)
	d.HelperFunction = strings.TrimSpace(d.HelperFunction)
	if d.Parameters == nil {
		d.Parameters = map[string]any{}
	}

	// Credit vs debit comparisons are always the entry-type distribution,
	// never a status count.
	if mentionsCreditDebit(q) {
		d.HelperFunction = "countAllJournalEntryTypes"
		d.Parameters = map[string]any{}
	}

	// An approval overview with an explicit level is always the overview
	// operation, never a single-status count.
	if mentionsApprovalOverview(q) {
		if m := levelRegex.FindStringSubmatch(question); m != nil {
			d.HelperFunction = "getApprovalOverview"
			d.Parameters = map[string]any{"level": strings.ToUpper(m[1])}
		}
	}

	// Time-based amount questions never route to the single-record stats.
	if d.HelperFunction == "amountStats" && mentionsMonthly(q) {
		d.HelperFunction = "amountMonthlyTrend"
		d.Parameters = map[string]any{}
	}

	// Amount bounds scale only on explicit units in the question text.
	if d.HelperFunction == "getEntriesByAmount" {
		r.rescaleAmountBounds(question, d)
	}

	// An explicit "top N" in the question wins over whatever limit the
	// model extracted. Only digits count; spelled-out numbers are left to
	// the model.
	if m := topNRegex.FindStringSubmatch(question); m != nil {
		if op, ok := r.cat.Lookup(d.HelperFunction); ok && hasParam(op, "limit") {
			n, _ := strconv.Atoi(m[1])
			d.Parameters["limit"] = float64(n)
		}
	}

	// Query type and chart eligibility follow the operation kind, not the
	// model's opinion.
	if op, ok := r.cat.Lookup(d.HelperFunction); ok {
		if op.Kind == catalogue.KindAggregate {
			d.QueryType = domain.QueryAggregate
			d.Graph = true
			if d.GraphType == "" {
				d.GraphType = "bar"
			}
		} else {
			d.QueryType = domain.QuerySpecific
			d.Graph = false
			d.GraphType = ""
		}
	}
}

func (r *Rules) rescaleAmountBounds(question string, d *domain.Decision) {
	// Recompute bounds from the question text when it carries explicit
	// range phrasing; otherwise keep the model's literal numbers.
	if m := betweenRegex.FindStringSubmatch(question); m != nil {
		d.Parameters["min"] = scaled(m[1], m[2])
		d.Parameters["max"] = scaled(m[3], m[4])
		return
	}
	above := aboveRegex.FindStringSubmatch(question)
	below := belowRegex.FindStringSubmatch(question)
	if above == nil && below == nil {
		return
	}
	if above != nil {
		d.Parameters["min"] = scaled(above[1], above[2])
	} else {
		delete(d.Parameters, "min")
	}
	if below != nil {
		d.Parameters["max"] = scaled(below[1], below[2])
	} else {
		delete(d.Parameters, "max")
	}
}

func hasParam(op *catalogue.Operation, name string) bool {
	for _, p := range op.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Classify routes a question with patterns alone. It is the fallback when no
// model API key is configured, and is also useful in tests.
func (r *Rules) Classify(_ context.Context, question string) (*domain.Decision, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	d := r.route(question, q)
	r.Enforce(question, d)
	return d, nil
}

func (r *Rules) route(question, q string) *domain.Decision {
	if q == "" {
		return notActionable()
	}

	switch {
	case mentionsCreditDebit(q):
		return decide("entry type distribution", "countAllJournalEntryTypes", nil,
			"Here's how entries split between credit and debit.")

	case mentionsApprovalOverview(q):
		if m := levelRegex.FindStringSubmatch(question); m != nil {
			return decide("approval overview", "getApprovalOverview",
				map[string]any{"level": strings.ToUpper(m[1])},
				"Here's the approval status overview for that level.")
		}
		return notActionable()

	case strings.Contains(q, "approval rate") || strings.Contains(q, "approval percentage"):
		params := map[string]any{}
		if m := levelRegex.FindStringSubmatch(question); m != nil {
			params["level"] = strings.ToUpper(m[1])
		}
		return decide("approval rates", "getApprovalRates", params,
			"Here's the percentage breakdown of approval statuses.")

	case strings.Contains(q, "workload") || strings.Contains(q, "per approver"):
		params := map[string]any{}
		if m := levelRegex.FindStringSubmatch(question); m != nil {
			params["level"] = strings.ToUpper(m[1])
		}
		return decide("approver workload", "getApproverWorkload", params,
			"Here's how entries are distributed across approvers.")

	case strings.Contains(q, "outlier") || strings.Contains(q, "anomal") || strings.Contains(q, "unusual amount"):
		params := map[string]any{}
		if m := deviationsRegex.FindStringSubmatch(question); m != nil {
			n, _ := strconv.Atoi(m[1])
			params["deviations"] = float64(n)
		}
		return decide("amount outliers", "detectAmountOutliers", params,
			"Here are the entries with unusually large or small amounts.")

	case strings.Contains(q, "dormant") || strings.Contains(q, "inactive vendor"):
		params := map[string]any{}
		if m := monthsRegex.FindStringSubmatch(question); m != nil {
			n, _ := strconv.Atoi(m[1])
			params["months"] = float64(n)
		}
		return decide("dormant vendors", "getDormantVendors", params,
			"Here are the vendors with no recent activity.")

	case strings.Contains(q, "reversal") || strings.Contains(q, "reversed"):
		return decide("reversal documents", "getReversalDocuments", nil,
			"Here are the entries carrying a reversal document.")

	case strings.Contains(q, "error"):
		return decide("documents with errors", "getDocumentsWithErrors", nil,
			"Here's the breakdown of posting error messages.")

	case documentRegex.MatchString(question):
		m := documentRegex.FindStringSubmatch(question)
		return decide("document details", "getDocumentDetails",
			map[string]any{"document": m[1]},
			"Here are the entries for that document.")

	case strings.Contains(q, "year over year") || strings.Contains(q, "year-over-year") || strings.Contains(q, "yearly comparison"):
		return decide("year over year", "getYearOverYearComparison", nil,
			"Here's how totals compare across years.")

	case strings.Contains(q, "month over month") || strings.Contains(q, "month-over-month"):
		return decide("month over month", "getMonthOverMonthComparison", nil,
			"Here's how totals compare across months.")

	case strings.Contains(q, "top") && strings.Contains(q, "cost center"):
		return decide("top cost centers", "topCostCenters", nil,
			"Here are the busiest cost centers.")

	case strings.Contains(q, "cost center"):
		return decide("cost center distribution", "getCostCenterDistribution", nil,
			"Here's how entries are distributed across cost centers.")

	case strings.Contains(q, "top") && strings.Contains(q, "profit center"):
		return decide("top profit centers", "topProfitCenters", nil,
			"Here are the busiest profit centers.")

	case strings.Contains(q, "profit center"):
		return decide("profit center distribution", "getProfitCenterDistribution", nil,
			"Here's how entries are distributed across profit centers.")

	case strings.Contains(q, "business area"):
		return decide("business area distribution", "getBusinessAreaDistribution", nil,
			"Here's how entries are distributed across business areas.")

	case strings.Contains(q, "top") && strings.Contains(q, "vendor"):
		return decide("top vendors", "topVendors", nil,
			"Here are the vendors with the most entries.")

	case strings.Contains(q, "concentration") || (strings.Contains(q, "vendor") && strings.Contains(q, "share")):
		return decide("vendor concentration", "getVendorConcentration", nil,
			"Here's how spend concentrates across vendors.")

	case mentionsMonthly(q) && strings.Contains(q, "vendor"):
		if m := vendorRegex.FindStringSubmatch(strings.TrimSuffix(question, "?")); m != nil {
			return decide("vendor monthly trend", "getEntriesByVendor",
				map[string]any{"vendor": strings.TrimSpace(m[1])},
				"Here's the monthly activity for that vendor.")
		}
		return notActionable()

	case mentionsMonthly(q) && mentionsAmount(q):
		return decide("monthly amount trend", "amountMonthlyTrend", nil,
			"Here's how amounts trend month by month.")

	case aboveRegex.MatchString(question) || belowRegex.MatchString(question) || betweenRegex.MatchString(question):
		return decide("entries by amount", "getEntriesByAmount", map[string]any{},
			"Here are the entries in that amount range.")

	case hasStatusQuery(q):
		return statusDecision(question, q)

	case len(isoDateRegex.FindAllString(question, -1)) >= 2:
		dates := isoDateRegex.FindAllString(question, -1)
		return decide("entries by date", "getEntriesByDate",
			map[string]any{"start": dates[0], "end": dates[1]},
			"Here's the vendor activity in that date range.")

	case strings.Contains(q, "entries for vendor") || strings.Contains(q, "vendor"):
		if m := vendorRegex.FindStringSubmatch(strings.TrimSuffix(question, "?")); m != nil {
			return decide("entries by vendor", "getEntriesByVendor",
				map[string]any{"vendor": strings.TrimSpace(m[1])},
				"Here's the activity rollup for that vendor.")
		}
		return notActionable()

	case strings.Contains(q, "how many entries") || strings.Contains(q, "total entries") || strings.Contains(q, "count of entries") || strings.Contains(q, "number of entries"):
		return decide("entry count", "countAllEntries", nil,
			"Here's the total number of entries.")

	case strings.Contains(q, "average") || strings.Contains(q, "statistics") || strings.Contains(q, "stats") || strings.Contains(q, "total amount"):
		return decide("amount statistics", "amountStats", nil,
			"Here's a summary of the entry amounts.")
	}

	return notActionable()
}

func hasStatusQuery(q string) bool {
	hasStatus := strings.Contains(q, "approved") || strings.Contains(q, "rejected") || strings.Contains(q, "pending")
	hasField := strings.Contains(q, "l1") || strings.Contains(q, "l2") || strings.Contains(q, "initiator")
	return hasStatus && hasField
}

func statusDecision(question, q string) *domain.Decision {
	status := domain.StatusPending
	switch {
	case strings.Contains(q, "approved"):
		status = domain.StatusApproved
	case strings.Contains(q, "rejected"):
		status = domain.StatusRejected
	}
	field := domain.FieldInitiatorStatus
	switch {
	case strings.Contains(q, "l1"):
		field = domain.FieldL1Status
	case strings.Contains(q, "l2"):
		field = domain.FieldL2Status
	}
	return decide("entries by status", "getEntriesByStatus",
		map[string]any{"field": field, "status": status},
		"Here's the count of entries with that status.")
}

func decide(intent, helper string, params map[string]any, message string) *domain.Decision {
	if params == nil {
		params = map[string]any{}
	}
	return &domain.Decision{
		Intent:         intent,
		Message:        message,
		HelperFunction: helper,
		Parameters:     params,
		Confidence:     0.9,
	}
}

func notActionable() *domain.Decision {
	return &domain.Decision{
		Intent:     "unsupported",
		Message:    FallbackMessage,
		Parameters: map[string]any{},
		Confidence: 0.2,
	}
}
