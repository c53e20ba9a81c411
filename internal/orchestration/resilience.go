package orchestration

import (
	"context"

	"github.com/jonathan/cv-enricher/internal/types"
)

// Operation is one adapter fetch wrapped by a resilience policy.
type Operation func(ctx context.Context) (*types.SourcePayload, error)

// ResiliencePolicy wraps an adapter fetch with retry and circuit-breaker
// behavior. The policy itself is an external collaborator; the orchestrator
// only consumes its outcome.
type ResiliencePolicy interface {
	Execute(ctx context.Context, name string, op Operation) (*types.SourcePayload, error)
}

// PassthroughPolicy runs the operation once with no retries. It is the
// default when no policy is injected.
type PassthroughPolicy struct{}

// Execute runs the operation directly.
func (PassthroughPolicy) Execute(ctx context.Context, _ string, op Operation) (*types.SourcePayload, error) {
	return op(ctx)
}
