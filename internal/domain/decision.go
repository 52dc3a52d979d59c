package domain

// QueryType classifies a question as an aggregation or a row-level request.
type QueryType string

const (
	QueryAggregate QueryType = "AGGREGATE"
	QuerySpecific  QueryType = "SPECIFIC"
)

// MinConfidence is the inclusive threshold below which a decision is
// discarded and the fallback response returned.
const MinConfidence = 0.7

// Decision is the structured output of the intent classifier for one
// question. It is request-scoped and never persisted.
type Decision struct {
	Intent         string         `json:"intent"`
	Message        string         `json:"message"`
	QueryType      QueryType      `json:"queryType"`
	HelperFunction string         `json:"helperFunction"`
	Parameters     map[string]any `json:"parameters"`
	Graph          bool           `json:"graph"`
	GraphType      string         `json:"graphType"` // bar | line | pie | ""
	Confidence     float64        `json:"confidence"`
}

// Actionable reports whether the decision clears the confidence threshold.
// The boundary is inclusive: 0.70 is attempted, 0.69 is rejected.
func (d *Decision) Actionable() bool {
	return d != nil && d.Confidence >= MinConfidence
}

// Graph is the chart descriptor derived from an operation result. X and Y are
// parallel arrays; the client suppresses rendering when either is empty.
type Graph struct {
	Type  string    `json:"type"` // bar | line | pie
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
	Label string    `json:"label,omitempty"`
}

// Approval status values accepted by status-count operations.
const (
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPending  = "Pending"
)
