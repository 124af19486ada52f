package workflow

//go:generate mockgen -destination=mock_workflow.go -package=workflow github.com/branchfleet/netrefresh/pkg/workflow Settler,Confirmer

import (
	"context"
	"time"
)

// Settler pauses between mutating phases while the control plane's
// eventually consistent state catches up. Production uses SleepSettler;
// tests inject NoopSettler.
type Settler interface {
	Settle(ctx context.Context, d time.Duration) error
}

// Confirmer answers a yes/no question at a pre-phase decision point.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f(ctx, prompt).
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
