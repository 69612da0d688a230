package standing

import "context"

type Repository interface {
	ListByPhase(ctx context.Context, phase string) ([]Standing, error)
	// ReplaceByPhase swaps the whole table of a phase. Rows must pass
	// ValidatePositions.
	ReplaceByPhase(ctx context.Context, phase string, standings []Standing) error
}
