package staging

//go:generate mockgen -destination=mock_staging.go -package=staging github.com/branchfleet/netrefresh/pkg/staging Confirmer

import "context"

// Confirmer answers a yes/no question before a destructive or
// capacity-sensitive operation proceeds. Interactive frontends prompt
// the operator; automation supplies a fixed answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f(ctx, prompt).
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
