package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	qb "github.com/riskibarqy/euroleague-sync/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByPhase(ctx context.Context, phase string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.Eq("phase", phase)).
		OrderBy("position", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceByPhase deletes the phase table and inserts the new rows in one
// transaction, so readers never observe a half-written table.
func (r *StandingRepository) ReplaceByPhase(ctx context.Context, phase string, standings []standing.Standing) error {
	if err := standing.ValidatePositions(standings); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}

	return withTx(ctx, r.db, "replace standings", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("standings").
			Where(qb.Eq("phase", phase)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear standings: %w", err)
		}

		if len(standings) == 0 {
			return nil
		}

		models := make([]standingTableModel, 0, len(standings))
		for _, item := range standings {
			models = append(models, standingFromDomain(phase, item))
		}
		query, args, err := qb.InsertModels("standings", models, "")
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standings: %w", err)
		}
		return nil
	})
}
