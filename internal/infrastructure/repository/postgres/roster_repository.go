package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	qb "github.com/riskibarqy/euroleague-sync/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Person, error) {
	query, args, err := qb.Select("team_id", "code", "name", "kind", "position", "dorsal", "height", "birth_date", "country", "image_url").
		From("roster_people").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("kind DESC", "name", "code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	out := make([]roster.Person, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceByTeam keeps players and coaches only. Rows without a person code
// cannot be keyed and are dropped.
func (r *RosterRepository) ReplaceByTeam(ctx context.Context, teamID string, people []roster.Person) error {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("replace roster: team id is required")
	}

	seen := make(map[string]struct{}, len(people))
	models := make([]rosterTableModel, 0, len(people))
	for _, item := range roster.Filter(people) {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		item.Code = code
		models = append(models, rosterFromDomain(teamID, item))
	}

	return withTx(ctx, r.db, "replace roster", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("roster_people").
			Where(qb.Eq("team_id", teamID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear roster query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}

		for _, part := range chunk(models, upsertChunkSize) {
			query, args, err := qb.InsertModels("roster_people", part, "")
			if err != nil {
				return fmt.Errorf("build insert roster query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert roster: %w", err)
			}
		}
		return nil
	})
}
