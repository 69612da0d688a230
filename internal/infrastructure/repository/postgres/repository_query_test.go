package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
)

func TestBuildListMatchesQuery(t *testing.T) {
	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildListMatchesQuery(match.Filter{
		TeamID: "MAD",
		Status: match.StatusFinished,
		Round:  3,
		From:   &from,
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "SELECT * FROM matches WHERE (home_team_id = $1 OR away_team_id = $2) AND status = $3 AND round = $4 AND scheduled_at >= $5 ORDER BY scheduled_at, id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 5 || args[0] != "MAD" || args[2] != "FINISHED" || args[3] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuildListMatchesQuery_EmptyFilter(t *testing.T) {
	query, args, err := buildListMatchesQuery(match.Filter{})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if want := "SELECT * FROM matches ORDER BY scheduled_at, id"; query != want {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %+v", args)
	}
}

func TestBuildMatchUpsert_RefreshesEveryColumn(t *testing.T) {
	home, away := 88, 80
	models := []matchInsertModel{matchInsertFromDomain(match.Match{
		ID:          "1",
		HomeTeamID:  "OLY",
		AwayTeamID:  "MAD",
		ScheduledAt: time.Date(2025, 9, 30, 18, 15, 0, 0, time.UTC),
		Status:      match.StatusFinished,
		HomeScore:   &home,
		AwayScore:   &away,
	})}

	query, args, err := buildMatchUpsert(models)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO matches (id, season, phase, round, round_name, scheduled_at, ") {
		t.Fatalf("unexpected insert head: %s", query)
	}
	if !strings.HasSuffix(query, "away_score = EXCLUDED.away_score, updated_at = NOW()") {
		t.Fatalf("unexpected upsert suffix: %s", query)
	}
	if len(args) != len(matchUpdateColumns)+1 {
		t.Fatalf("expected %d args, got %d", len(matchUpdateColumns)+1, len(args))
	}
}

func TestBuildTeamUpsert_LeavesFavoriteAlone(t *testing.T) {
	query, _, err := buildTeamUpsert([]teamInsertModel{{ID: "MAD", Name: "Real Madrid", IsFavorite: true}})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	conflict := query[strings.Index(query, "ON CONFLICT"):]
	if strings.Contains(conflict, "is_favorite") {
		t.Fatalf("favorite flag must not be updated on conflict: %s", conflict)
	}
	if !strings.Contains(query, "(id, name, short_name, city, country, logo_url, venue, is_favorite)") {
		t.Fatalf("new rows must carry the favorite flag: %s", query)
	}
}

func TestBuildSyncMetaUpsert(t *testing.T) {
	query, args, err := buildSyncMetaUpsert("data_populated", true)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "INSERT INTO sync_meta (id, data_populated) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data_populated = EXCLUDED.data_populated, updated_at = NOW()"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 2 || args[0] != syncMetaRowID || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestRosterModelRoundTrip(t *testing.T) {
	born := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	person := roster.Person{Code: "P003", Name: "Campazzo, Facundo", Kind: roster.KindPlayer, Dorsal: "7", BirthDate: &born}

	got := rosterFromDomain("MAD", person).toDomain()
	if got.TeamID != "MAD" || got.Kind != roster.KindPlayer || got.BirthDate == nil || !got.BirthDate.Equal(born) {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}
