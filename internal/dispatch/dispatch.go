// Package dispatch executes routing decisions against the query catalogue.
// Every question moves through a fixed set of stages: received, classified,
// then either rejected with guidance or validated, executed and responded.
// A rejection is a normal response with empty data; only execution failures
// surface as errors.
package dispatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/classifier"
	"github.com/dkapoor/ledgerlens/internal/domain"
	"github.com/dkapoor/ledgerlens/internal/shaper"
	"github.com/dkapoor/ledgerlens/internal/store"
)

// Response is the answer envelope for one question. The answer, data, graph
// and presentType keys are the client contract; presentType is the chart type
// when a graph is emitted and "table" otherwise.
type Response struct {
	Intent         string           `json:"intent,omitempty"`
	Answer         string           `json:"answer"`
	QueryType      domain.QueryType `json:"queryType,omitempty"`
	HelperFunction string           `json:"helperFunction,omitempty"`
	Data           any              `json:"data"`
	Graph          *domain.Graph    `json:"graph"`
	PresentType    string           `json:"presentType"`
	Confidence     float64          `json:"confidence"`
}

// Dispatcher wires the classifier, catalogue and store together.
type Dispatcher struct {
	primary  classifier.Classifier
	fallback *classifier.Rules
	cat      *catalogue.Catalogue
	store    store.EntryStore
	log      zerolog.Logger
}

func New(primary classifier.Classifier, cat *catalogue.Catalogue, st store.EntryStore, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		primary:  primary,
		fallback: classifier.NewRules(cat),
		cat:      cat,
		store:    st,
		log:      log,
	}
}

// Ask answers one natural-language question. A question the system cannot
// route returns a guidance response, not an error; an error return means the
// matched operation itself failed and the caller should respond 5xx.
func (d *Dispatcher) Ask(ctx context.Context, question string) (*Response, error) {
	log := d.log.With().Str("question", question).Logger()
	log.Debug().Str("stage", "received").Msg("dispatch")

	decision, err := d.classify(ctx, question, log)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("stage", "classified").
		Str("helper", decision.HelperFunction).
		Float64("confidence", decision.Confidence).
		Msg("dispatch")

	if !decision.Actionable() {
		return d.reject(decision, decision.Message, log), nil
	}

	op, ok := d.cat.Lookup(decision.HelperFunction)
	if !ok {
		return d.reject(decision, classifier.FallbackMessage, log), nil
	}

	args, err := op.ValidateArgs(decision.Parameters)
	if err != nil {
		log.Info().Str("stage", "rejected").Err(err).Msg("dispatch")
		return d.reject(decision, fmt.Sprintf("I need a bit more detail to answer that: %v.", err), log), nil
	}
	log.Debug().Str("stage", "validated").Msg("dispatch")

	result, err := op.Run(ctx, d.store, args)
	if err != nil {
		log.Error().Str("stage", "failed").Str("helper", op.Name).Err(err).Msg("dispatch")
		return nil, fmt.Errorf("dispatch: run %s: %w", op.Name, err)
	}

	graph := shaper.Build(op, result, decision.Graph, decision.GraphType)
	presentType := "table"
	if graph != nil {
		presentType = graph.Type
	}
	resp := &Response{
		Intent:         decision.Intent,
		Answer:         decision.Message,
		QueryType:      decision.QueryType,
		HelperFunction: op.Name,
		Data:           result,
		Graph:          graph,
		PresentType:    presentType,
		Confidence:     decision.Confidence,
	}
	log.Debug().Str("stage", "responded").Str("helper", op.Name).Msg("dispatch")
	return resp, nil
}

// classify runs the primary classifier and falls back to the pattern router
// when the model call fails. Model unavailability degrades answer quality,
// it does not take the endpoint down.
func (d *Dispatcher) classify(ctx context.Context, question string, log zerolog.Logger) (*domain.Decision, error) {
	if d.primary == nil {
		return d.fallback.Classify(ctx, question)
	}
	decision, err := d.primary.Classify(ctx, question)
	if err != nil {
		log.Warn().Err(err).Msg("primary classifier failed, using pattern fallback")
		return d.fallback.Classify(ctx, question)
	}
	return decision, nil
}

func (d *Dispatcher) reject(decision *domain.Decision, message string, log zerolog.Logger) *Response {
	if message == "" {
		message = classifier.FallbackMessage
	}
	log.Info().Str("stage", "rejected").Float64("confidence", decision.Confidence).Msg("dispatch")
	return &Response{
		Intent:      decision.Intent,
		Answer:      message,
		Data:        []any{},
		PresentType: "table",
		Confidence:  decision.Confidence,
	}
}
