package roster

import "context"

type Repository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Person, error)
	ReplaceByTeam(ctx context.Context, teamID string, people []Person) error
}
