package syncmeta

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context) (Meta, error)
	MarkSynced(ctx context.Context, at time.Time) error
	MarkPopulated(ctx context.Context) error
}
