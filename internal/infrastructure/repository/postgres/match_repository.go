package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	qb "github.com/riskibarqy/euroleague-sync/internal/platform/querybuilder"
)

var matchUpdateColumns = []string{
	"season",
	"phase",
	"round",
	"round_name",
	"scheduled_at",
	"venue",
	"home_team_id",
	"home_team_name",
	"home_team_logo",
	"away_team_id",
	"away_team_name",
	"away_team_logo",
	"status",
	"home_score",
	"away_score",
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	query, args, err := buildListMatchesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "matches")
}

// Upsert locks the stored copies of the batch, reconciles each incoming row
// against them and writes the result in one transaction.
func (r *MatchRepository) Upsert(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	normalized := make([]match.Match, 0, len(items))
	order := make(map[string]int, len(items))
	for _, item := range items {
		item = item.Normalize()
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert matches: %w", err)
		}
		// Last copy of a duplicated id wins, as a sequence of upserts would.
		if idx, ok := order[item.ID]; ok {
			normalized[idx] = item
			continue
		}
		order[item.ID] = len(normalized)
		normalized = append(normalized, item)
	}

	return withTx(ctx, r.db, "upsert matches", func(tx *sqlx.Tx) error {
		for _, part := range chunk(normalized, upsertChunkSize) {
			existing, err := lockMatches(ctx, tx, part)
			if err != nil {
				return err
			}

			models := make([]matchInsertModel, 0, len(part))
			for _, item := range part {
				if stored, ok := existing[item.ID]; ok {
					item = match.Reconcile(stored, item)
				}
				models = append(models, matchInsertFromDomain(item))
			}

			query, args, err := buildMatchUpsert(models)
			if err != nil {
				return fmt.Errorf("build upsert matches query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert matches: %w", err)
			}
		}
		return nil
	})
}

func lockMatches(ctx context.Context, tx *sqlx.Tx, items []match.Match) (map[string]match.Match, error) {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	query, args, err := qb.Select("*").From("matches").
		Where(qb.In("id", ids)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build lock matches query: %w", err)
	}

	var rows []matchTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("lock matches: %w", err)
	}

	out := make(map[string]match.Match, len(rows))
	for _, row := range rows {
		out[row.ID] = row.toDomain()
	}
	return out, nil
}

func buildListMatchesQuery(filter match.Filter) (string, []any, error) {
	conditions := make([]qb.Condition, 0, 5)
	if filter.TeamID != "" {
		conditions = append(conditions, qb.Or(
			qb.Eq("home_team_id", filter.TeamID),
			qb.Eq("away_team_id", filter.TeamID),
		))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}
	if filter.Round > 0 {
		conditions = append(conditions, qb.Eq("round", filter.Round))
	}
	if filter.From != nil {
		conditions = append(conditions, qb.Gte("scheduled_at", filter.From.UTC()))
	}
	if filter.To != nil {
		conditions = append(conditions, qb.Lte("scheduled_at", filter.To.UTC()))
	}

	return qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("scheduled_at", "id").
		ToSQL()
}

func buildMatchUpsert(models []matchInsertModel) (string, []any, error) {
	suffix := qb.UpsertSuffix([]string{"id"}, matchUpdateColumns) + ", updated_at = NOW()"
	return qb.InsertModels("matches", models, suffix)
}
