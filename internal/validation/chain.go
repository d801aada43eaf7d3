// Package validation runs an order through an ordered set of checks before it
// may be placed. Steps are invoked in a loop rather than chained through next
// pointers; the first failing step halts the run and later steps never see the
// order.
package validation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Additional-Code/orderflow/internal/entity"
)

var chainTracer = otel.Tracer("github.com/Additional-Code/orderflow/validation")

// Step is a single order check. A nil return passes the order to the next
// step unchanged; a non-nil return halts the chain.
type Step interface {
	Name() string
	Validate(ctx context.Context, order *entity.Order) error
}

// Chain runs steps in a fixed order.
type Chain struct {
	steps []Step
}

// Module wires the default chain into Fx.
var Module = fx.Provide(NewChain)

// NewChain builds the standard placement chain: inventory, then payment.
func NewChain(stock StockReader) *Chain {
	return &Chain{steps: []Step{
		NewInventoryStep(stock),
		NewPaymentStep(),
	}}
}

// NewChainOf builds a chain from explicit steps, in the given order.
func NewChainOf(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// Run validates the order against each step in order. The first failure is
// returned as-is; an empty chain succeeds.
func (c *Chain) Run(ctx context.Context, order *entity.Order) error {
	ctx, span := chainTracer.Start(ctx, "ValidationChain.Run", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	for _, step := range c.steps {
		if err := step.Validate(ctx, order); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, step.Name()+" failed")
			return err
		}
	}
	return nil
}
