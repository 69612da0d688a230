package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	qb "github.com/riskibarqy/euroleague-sync/internal/platform/querybuilder"
)

// teamUpdateColumns excludes is_favorite: a sync never touches the flag.
var teamUpdateColumns = []string{"name", "short_name", "city", "country", "logo_url", "venue"}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", strings.TrimSpace(teamID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "teams")
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	models := make([]teamInsertModel, 0, len(teams))
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
		item.ID = strings.TrimSpace(item.ID)
		models = append(models, teamInsertFromDomain(item))
	}

	return withTx(ctx, r.db, "upsert teams", func(tx *sqlx.Tx) error {
		for _, part := range chunk(models, upsertChunkSize) {
			query, args, err := buildTeamUpsert(part)
			if err != nil {
				return fmt.Errorf("build upsert teams query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert teams: %w", err)
			}
		}
		return nil
	})
}

func (r *TeamRepository) SetFavorite(ctx context.Context, teamID string, favorite bool) error {
	query, args, err := qb.Update("teams").
		Set("is_favorite", favorite).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", strings.TrimSpace(teamID))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set favorite query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set team favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set team favorite rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", team.ErrNotFound, teamID)
	}
	return nil
}

// buildTeamUpsert inserts new teams with their favorite flag and refreshes
// every other column of existing ones.
func buildTeamUpsert(models []teamInsertModel) (string, []any, error) {
	suffix := qb.UpsertSuffix([]string{"id"}, teamUpdateColumns) + ", updated_at = NOW()"
	return qb.InsertModels("teams", models, suffix)
}

func countRows(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From(table).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count %s query: %w", table, err)
	}

	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
