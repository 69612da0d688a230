package team

import (
	"context"
	"errors"
)

// ErrNotFound is returned by SetFavorite for an unknown team.
var ErrNotFound = errors.New("team not found")

// Repository describes team persistence needs from use cases.
//
// Upsert replaces every field of an existing team except IsFavorite, which
// only SetFavorite may change.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, teams []Team) error
	SetFavorite(ctx context.Context, teamID string, favorite bool) error
}
