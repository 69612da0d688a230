package match

import "context"

// Repository persists matches. Upsert applies the whole batch atomically and
// runs every row through Reconcile against the stored copy.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, matches []Match) error
}
