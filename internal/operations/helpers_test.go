package operations_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"fuelcli/internal/operations"
)

// funcStep is a Step backed by a closure.
type funcStep struct {
	operations.BaseStage
	run   func(ctx context.Context, state *operations.OperationState) error
	calls atomic.Int32
}

func newStep(id string, run func(ctx context.Context, state *operations.OperationState) error, deps ...string) *funcStep {
	return &funcStep{BaseStage: operations.NewBaseStage(id, id, deps), run: run}
}

func (s *funcStep) Execute(ctx context.Context, state *operations.OperationState) error {
	s.calls.Add(1)
	if s.run == nil {
		return nil
	}
	return s.run(ctx, state)
}

// recordOrder returns a step body appending the step ID to order.
func recordOrder(order *[]string, id string) func(context.Context, *operations.OperationState) error {
	return func(context.Context, *operations.OperationState) error {
		*order = append(*order, id)
		return nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
