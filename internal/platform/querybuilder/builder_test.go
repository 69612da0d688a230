package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "home_team_id").
		From("matches").
		Where(Or(Eq("home_team_id", "MAD"), Eq("away_team_id", "MAD")), Gte("scheduled_at", "2025-10-01"), IsNull("deleted_at")).
		OrderBy("scheduled_at", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, home_team_id FROM matches WHERE (home_team_id = $1 OR away_team_id = $2) AND scheduled_at >= $3 AND deleted_at IS NULL ORDER BY scheduled_at, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "MAD" || args[2] != "2025-10-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ForUpdate(t *testing.T) {
	t.Parallel()

	query, _, err := Select("id").From("matches").Where(In("id", []any{"a", "b"})).ForUpdate().ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if want := "SELECT id FROM matches WHERE id IN ($1, $2) FOR UPDATE"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

type teamRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	skipped string
	Ignored string `db:"-"`
}

func TestInsertModels_Upsert(t *testing.T) {
	t.Parallel()

	rows := []teamRow{{ID: "MAD", Name: "Real Madrid"}, {ID: "BAR", Name: "FC Barcelona"}}
	query, args, err := InsertModels("teams", rows, UpsertSuffix([]string{"id"}, []string{"name"}))
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "MAD" || args[3] != "FC Barcelona" {
		t.Fatalf("unexpected args: %+v", args)
	}
	_ = rows[0].skipped
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("sync_meta").
		Set("last_sync_at", "t").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", 1)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE sync_meta SET last_sync_at = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "t" || args[1] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresCondition(t *testing.T) {
	t.Parallel()

	if _, _, err := DeleteFrom("standings").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}

	query, args, err := DeleteFrom("standings").Where(Eq("phase", "RS")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM standings WHERE phase = $1" || len(args) != 1 {
		t.Fatalf("unexpected delete: %s %+v", query, args)
	}
}
