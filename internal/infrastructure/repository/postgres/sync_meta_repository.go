package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/euroleague-sync/internal/domain/syncmeta"
	qb "github.com/riskibarqy/euroleague-sync/internal/platform/querybuilder"
)

// syncMetaRowID is the only row of sync_meta.
const syncMetaRowID = 1

type syncMetaTableModel struct {
	LastSyncAt    sql.NullTime `db:"last_sync_at"`
	DataPopulated bool         `db:"data_populated"`
}

type SyncMetaRepository struct {
	db *sqlx.DB
}

func NewSyncMetaRepository(db *sqlx.DB) *SyncMetaRepository {
	return &SyncMetaRepository{db: db}
}

func (r *SyncMetaRepository) Get(ctx context.Context) (syncmeta.Meta, error) {
	query, args, err := qb.Select("last_sync_at", "data_populated").From("sync_meta").
		Where(qb.Eq("id", syncMetaRowID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncmeta.Meta{}, fmt.Errorf("build get sync meta query: %w", err)
	}

	var row syncMetaTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncmeta.Meta{}, nil
		}
		return syncmeta.Meta{}, fmt.Errorf("get sync meta: %w", err)
	}
	return syncmeta.Meta{
		LastSyncAt:    nullTimeToTimePtr(row.LastSyncAt),
		DataPopulated: row.DataPopulated,
	}, nil
}

func (r *SyncMetaRepository) MarkSynced(ctx context.Context, at time.Time) error {
	query, args, err := buildSyncMetaUpsert("last_sync_at", at.UTC())
	if err != nil {
		return fmt.Errorf("build mark synced query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *SyncMetaRepository) MarkPopulated(ctx context.Context) error {
	query, args, err := buildSyncMetaUpsert("data_populated", true)
	if err != nil {
		return fmt.Errorf("build mark populated query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark populated: %w", err)
	}
	return nil
}

// buildSyncMetaUpsert writes one column of the singleton row, creating the
// row when the seed insert of the migration has not run.
func buildSyncMetaUpsert(column string, value any) (string, []any, error) {
	return qb.InsertInto("sync_meta").
		Columns("id", column).
		Values(syncMetaRowID, value).
		Suffix(qb.UpsertSuffix([]string{"id"}, []string{column}) + ", updated_at = NOW()").
		ToSQL()
}
