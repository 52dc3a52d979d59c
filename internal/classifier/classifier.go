// Package classifier maps a natural-language question to one catalogue
// operation. The model proposes a routing decision; a deterministic rule
// layer then corrects it, so the invariants hold no matter what the model
// returned.
package classifier

import (
	"context"

	"github.com/dkapoor/ledgerlens/internal/domain"
)

// Classifier produces a routing decision for one question. Implementations
// must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, question string) (*domain.Decision, error)
}

// Func adapts a plain function to the Classifier interface, mainly for tests.
type Func func(ctx context.Context, question string) (*domain.Decision, error)

func (f Func) Classify(ctx context.Context, question string) (*domain.Decision, error) {
	return f(ctx, question)
}

// FallbackMessage is returned whenever no supported question matches with
// enough confidence.
const FallbackMessage = "I couldn't match that to a supported question. " +
	"Try asking about entry counts, vendors, cost centers, amounts, monthly trends or approval statuses."
