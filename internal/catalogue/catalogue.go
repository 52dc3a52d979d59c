// Package catalogue is the closed registry of aggregation operations the
// intent classifier can route to. Each operation declares its parameter
// signature and the shape of its result up front; the result shaper consumes
// the declared shape tag instead of sniffing field names off the data.
package catalogue

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/store"
)

// PreviewLimit caps every row-level preview an operation returns. When a
// result is truncated the true total is always disclosed alongside.
const PreviewLimit = 50

// Kind separates chart-eligible aggregations from row previews. Previews are
// never charted, regardless of what the classifier asked for.
type Kind string

const (
	KindAggregate Kind = "aggregate"
	KindPreview   Kind = "preview"
)

// Shape tags an operation's result so the shaper can derive a chart without
// inspecting field names.
type Shape string

const (
	ShapeApprovalOverview Shape = "approval-overview"
	ShapeEntryTypeDist    Shape = "entry-type-distribution"
	ShapeTopByField       Shape = "top-by-field"
	ShapeFieldValueCount  Shape = "field-value-count"
	ShapeMonthCount       Shape = "month-count"
	ShapeMonthAmount      Shape = "month-amount"
	ShapeMonthSummary     Shape = "month-summary"
	ShapeMonthTypeCount   Shape = "month-type-count"
	ShapeVendorCount      Shape = "vendor-count"
	ShapeLabelCount       Shape = "label-count"
	ShapeCenterDist       Shape = "center-distribution"
	ShapeVendorConc       Shape = "vendor-concentration"
	ShapeApprovalRate     Shape = "approval-rate"
	ShapeApproverWorkload Shape = "approver-workload"
	ShapeYearOverYear     Shape = "year-over-year"
	ShapeErrorDist        Shape = "error-distribution"
	ShapeAmountRange      Shape = "amount-range-summary"
	ShapeStats            Shape = "stats"
	ShapeStatusFieldCount Shape = "status-field-count"
	ShapeTable            Shape = "table"
)

// Param declares one parameter of an operation.
type Param struct {
	Name     string
	Type     string // "string" | "number" | "int"
	Required bool
	Default  any
	Domain   []string // allowed values; empty means unrestricted
}

// Args is the adapted parameter map an operation runs with.
type Args map[string]any

// String returns a string argument, or def when absent or empty.
func (a Args) String(name, def string) string {
	if v, ok := a[name]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

// Int returns an integer argument, tolerating the float64 that JSON decoding
// produces, or def when absent.
func (a Args) Int(name string, def int) int {
	switch v := a[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Float returns a numeric argument. ok is false when the argument is absent,
// so one-sided amount bounds stay one-sided instead of defaulting to zero.
func (a Args) Float(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Operation is one named aggregation over the entry collection.
type Operation struct {
	Name    string
	Kind    Kind
	Shape   Shape
	Summary string // one line for the classifier prompt
	Params  []Param
	Run     func(ctx context.Context, st store.EntryStore, args Args) (any, error)
}

// Chartable reports whether the operation may carry a graph at all.
func (op *Operation) Chartable() bool {
	return op.Kind == KindAggregate
}

// Catalogue is the fixed operation registry.
type Catalogue struct {
	ops   map[string]*Operation
	order []string
}

// New builds the full registry. The set of operations is closed and
// versioned: the classifier prompt is generated from it, so adding an
// operation here is the only way to make it routable.
func New() *Catalogue {
	c := &Catalogue{ops: make(map[string]*Operation)}
	c.register(countOperations()...)
	c.register(statsOperations()...)
	c.register(trendOperations()...)
	c.register(filterOperations()...)
	c.register(approvalOperations()...)
	return c
}

func (c *Catalogue) register(ops ...*Operation) {
	for _, op := range ops {
		if _, dup := c.ops[op.Name]; dup {
			panic(fmt.Sprintf("catalogue: duplicate operation %q", op.Name))
		}
		c.ops[op.Name] = op
		c.order = append(c.order, op.Name)
	}
}

// Lookup returns the named operation, or false when the name is not part of
// the catalogue.
func (c *Catalogue) Lookup(name string) (*Operation, bool) {
	op, ok := c.ops[strings.TrimSpace(name)]
	return op, ok
}

// Names returns the operation names in registration order.
func (c *Catalogue) Names() []string {
	return append([]string(nil), c.order...)
}

// Describe renders the registry for the classifier system prompt: one line
// per operation with its parameter signature.
func (c *Catalogue) Describe() string {
	var b strings.Builder
	for _, name := range c.order {
		op := c.ops[name]
		b.WriteString("- ")
		b.WriteString(op.Name)
		if len(op.Params) > 0 {
			parts := make([]string, 0, len(op.Params))
			for _, p := range op.Params {
				s := p.Name
				if !p.Required {
					s += "?"
				}
				parts = append(parts, s)
			}
			b.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
		if op.Summary != "" {
			b.WriteString(": " + op.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ValidateArgs checks required parameters and value domains, and fills
// defaults. It returns the completed Args or an error describing the first
// violation.
func (op *Operation) ValidateArgs(raw map[string]any) (Args, error) {
	args := Args{}
	for _, p := range op.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, fmt.Errorf("operation %s: missing required parameter %q", op.Name, p.Name)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}
		if len(p.Domain) > 0 {
			s, _ := v.(string)
			if !inDomain(s, p.Domain) {
				return nil, fmt.Errorf("operation %s: parameter %q value %q outside domain %v", op.Name, p.Name, s, p.Domain)
			}
			v = canonicalDomainValue(s, p.Domain)
		}
		args[p.Name] = v
	}
	return args, nil
}

func inDomain(v string, domain []string) bool {
	for _, d := range domain {
		if strings.EqualFold(strings.TrimSpace(v), d) {
			return true
		}
	}
	return false
}

func canonicalDomainValue(v string, domain []string) string {
	for _, d := range domain {
		if strings.EqualFold(strings.TrimSpace(v), d) {
			return d
		}
	}
	return v
}

// group accumulates counts and amounts per key while remembering the order
// keys were first seen. Distribution ordering ties break by this insertion
// order, keeping repeated calls on unchanged data stable.
type group struct {
	key    string
	label  string
	count  int
	amount float64
}

type grouper struct {
	index  map[string]int
	groups []group
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(key, label string, amount float64) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.groups)
		g.index[key] = i
		g.groups = append(g.groups, group{key: key, label: label})
	}
	g.groups[i].count++
	g.groups[i].amount += amount
}

// byCountDesc returns groups sorted descending by count; equal counts keep
// first-encountered order (stable sort over insertion order).
func (g *grouper) byCountDesc() []group {
	out := append([]group(nil), g.groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	return out
}

// byAmountDesc returns groups sorted descending by accumulated amount.
func (g *grouper) byAmountDesc() []group {
	out := append([]group(nil), g.groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].amount > out[j].amount })
	return out
}

// byKeyAsc returns groups sorted ascending by key (month and year buckets).
func (g *grouper) byKeyAsc() []group {
	out := append([]group(nil), g.groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func truncateGroups(groups []group, limit int) []group {
	if limit > 0 && len(groups) > limit {
		return groups[:limit]
	}
	return groups
}

// Result row types. The json field names are part of the wire contract; the
// original client pattern-matched on them, and the shaper keys its axis
// extraction to the shape tags that produce them.

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type FieldValueCount struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

type VendorCount struct {
	VendorName string `json:"vendorName"`
	Count      int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthAmount struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
}

type MonthSummary struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

type MonthTypeCount struct {
	Month string `json:"month"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type YearSummary struct {
	Year        string  `json:"year"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatusRate struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ApproverCount struct {
	Approver string `json:"approver"`
	Count    int    `json:"count"`
}

type VendorAmount struct {
	VendorName  string  `json:"vendorName"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

type VendorMonthFacet struct {
	VendorName  string  `json:"vendorName"`
	Month       string  `json:"month"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type AmountStats struct {
	TotalAmount float64 `json:"totalAmount"`
	AvgAmount   float64 `json:"avgAmount"`
	MaxAmount   float64 `json:"maxAmount"`
	MinAmount   float64 `json:"minAmount"`
}

type VendorStats struct {
	VendorName  string  `json:"vendorName"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	AvgAmount   float64 `json:"avgAmount"`
}

type StatusFieldCount struct {
	Field  string `json:"field"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type RangeResult struct {
	Rows       []domain.Entry `json:"rows"`
	TotalCount int            `json:"totalCount"`
}

type MessageCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type DormantVendor struct {
	VendorName string `json:"vendorName"`
	LastMonth  string `json:"lastMonth"`
	Count      int    `json:"count"`
}

// DormantVendorResult discloses the pre-truncation total alongside the
// preview-capped vendor list.
type DormantVendorResult struct {
	Vendors    []DormantVendor `json:"vendors"`
	TotalCount int             `json:"totalCount"`
}
