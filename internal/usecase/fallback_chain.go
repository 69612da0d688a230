package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

const (
	SourceOfficial  = "official"
	SourceFeed      = "feed"
	SourceEmergency = "emergency"
)

// SourceFailure records why one source in the chain was skipped.
type SourceFailure struct {
	Source string
	Err    error
}

func (f SourceFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// SourceResult is what the chain settled on. Source is empty when every
// source failed.
type SourceResult[T any] struct {
	Items    []T
	Source   string
	Failures []SourceFailure
}

func (r SourceResult[T]) Degraded() bool {
	return len(r.Failures) > 0
}

// FallbackChain tries sources in order until one returns data. It never
// fails: an exhausted chain yields an empty result listing every failure.
type FallbackChain struct {
	sources []DataSource
	retrier *resilience.Retrier
	logger  *logging.Logger
	metrics SyncMetrics
}

func NewFallbackChain(retrier *resilience.Retrier, logger *logging.Logger, sources ...DataSource) *FallbackChain {
	kept := make([]DataSource, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			kept = append(kept, source)
		}
	}
	return &FallbackChain{
		sources: kept,
		retrier: retrier,
		logger:  logging.OrDefault(logger).Named("fallback"),
		metrics: noopMetrics{},
	}
}

// WithMetrics reports the winning source per kind.
func (c *FallbackChain) WithMetrics(metrics SyncMetrics) *FallbackChain {
	c.metrics = metricsOrNoop(metrics)
	return c
}

func (c *FallbackChain) Sources() []string {
	names := make([]string, 0, len(c.sources))
	for _, source := range c.sources {
		names = append(names, source.Name())
	}
	return names
}

func (c *FallbackChain) GetTeams(ctx context.Context) SourceResult[team.Team] {
	ctx, span := startUsecaseSpan(ctx, "usecase.FallbackChain.GetTeams")
	defer span.End()

	return runChain(ctx, c, "teams", func(ctx context.Context, source DataSource) ([]team.Team, error) {
		return source.FetchTeams(ctx)
	})
}

func (c *FallbackChain) GetMatches(ctx context.Context) SourceResult[RawMatch] {
	ctx, span := startUsecaseSpan(ctx, "usecase.FallbackChain.GetMatches")
	defer span.End()

	return runChain(ctx, c, "matches", func(ctx context.Context, source DataSource) ([]RawMatch, error) {
		return source.FetchMatches(ctx)
	})
}

func runChain[T any](ctx context.Context, c *FallbackChain, kind string, fetch func(context.Context, DataSource) ([]T, error)) SourceResult[T] {
	var result SourceResult[T]
	for _, source := range c.sources {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, SourceFailure{Source: source.Name(), Err: err})
			continue
		}

		items, err := resilience.Run(ctx, c.retrier, func(ctx context.Context) ([]T, error) {
			items, err := fetch(ctx, source)
			if err == nil && len(items) == 0 {
				return nil, ErrNoData
			}
			return items, err
		})
		if err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				err = fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
			}
			c.logger.WarnContext(ctx, "source failed, falling through",
				"kind", kind,
				"source", source.Name(),
				"error", err,
			)
			result.Failures = append(result.Failures, SourceFailure{Source: source.Name(), Err: err})
			continue
		}

		result.Items = items
		result.Source = source.Name()
		c.metrics.ObserveSource(kind, source.Name())
		if result.Degraded() {
			c.logger.InfoContext(ctx, "served from fallback source",
				"kind", kind,
				"source", source.Name(),
				"count", len(items),
				"failures", len(result.Failures),
			)
		}
		return result
	}

	c.logger.ErrorContext(ctx, "every source failed", "kind", kind, "failures", len(result.Failures))
	return result
}
