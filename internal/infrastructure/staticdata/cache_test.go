package staticdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

func TestCache_BundledDataset(t *testing.T) {
	t.Parallel()

	cache := New(Config{Logger: logging.NewNop()})
	require.True(t, cache.HasStaticData())

	teams, err := cache.LoadTeams()
	require.NoError(t, err)
	require.Len(t, teams, 18)
	index := team.Index(teams)

	raws, err := cache.LoadMatches()
	require.NoError(t, err)
	require.NotEmpty(t, raws)
	for _, raw := range raws {
		assert.Contains(t, index, raw.HomeTeamID)
		assert.Contains(t, index, raw.AwayTeamID)
		assert.Equal(t, "E2025", raw.Season)
		assert.False(t, raw.ScheduledAt.IsZero())
	}
	assert.Equal(t, time.Date(2025, 9, 30, 18, 15, 0, 0, time.UTC), raws[0].ScheduledAt)

	version, err := cache.LoadVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version.Version)
	assert.Equal(t, 24*time.Hour, version.Policy.AutoSyncInterval)
}

func TestCache_OverrideWinsPerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "teams_2025_26.json", `{"version":"9.0.0","lastUpdated":"2025-12-01","teams":[{"id":"mad","name":"Real Madrid"}]}`)

	cache := New(Config{OverrideDir: dir, Logger: logging.NewNop()})
	teams, err := cache.LoadTeams()
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "MAD", teams[0].ID)

	raws, err := cache.LoadMatches()
	require.NoError(t, err)
	assert.NotEmpty(t, raws)
}

func TestCache_BrokenDocumentsAreErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		load    func(*Cache) error
	}{
		{
			name:    "malformed json",
			file:    "teams_2025_26.json",
			content: `{"version":`,
			load:    func(c *Cache) error { _, err := c.LoadTeams(); return err },
		},
		{
			name:    "team without name",
			file:    "teams_2025_26.json",
			content: `{"version":"1","teams":[{"id":"MAD"}]}`,
			load:    func(c *Cache) error { _, err := c.LoadTeams(); return err },
		},
		{
			name:    "match against itself",
			file:    "matches_calendar_2025_26.json",
			content: `{"version":"1","season":"E2025","matches":[{"id":"1","round":1,"homeTeamCode":"MAD","awayTeamCode":"MAD","dateTime":"2025-10-01T20:00:00"}]}`,
			load:    func(c *Cache) error { _, err := c.LoadMatches(); return err },
		},
		{
			name:    "bad date layout",
			file:    "matches_calendar_2025_26.json",
			content: `{"version":"1","season":"E2025","matches":[{"id":"1","round":1,"homeTeamCode":"MAD","awayTeamCode":"BAR","dateTime":"01/10/2025 20:00"}]}`,
			load:    func(c *Cache) error { _, err := c.LoadMatches(); return err },
		},
		{
			name:    "version without number",
			file:    "data_version.json",
			content: `{"lastUpdated":"2025-10-01"}`,
			load:    func(c *Cache) error { _, err := c.LoadVersion(); return err },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, tc.file, tc.content)
			cache := New(Config{OverrideDir: dir, Logger: logging.NewNop()})

			err := tc.load(cache)
			require.Error(t, err)
			assert.True(t, errors.Is(err, usecase.ErrStaticData))
		})
	}
}

func TestCache_MissingSeasonIsError(t *testing.T) {
	t.Parallel()

	cache := New(Config{Season: "1999_00", Logger: logging.NewNop()})
	assert.False(t, cache.HasStaticData())

	_, err := cache.LoadTeams()
	assert.True(t, errors.Is(err, usecase.ErrStaticData))
}

func TestCache_WriteThenReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache := New(Config{OverrideDir: filepath.Join(dir, "static"), Logger: logging.NewNop()})

	before, err := cache.LoadTeams()
	require.NoError(t, err)
	require.Len(t, before, 18)

	home, away := 90, 85
	bundle := usecase.StaticBundle{
		Season:      "E2025",
		TotalRounds: 34,
		Teams: []team.Team{
			{ID: "MAD", Name: "Real Madrid"},
			{ID: "BAR", Name: "FC Barcelona"},
		},
		Matches: []match.Match{{
			ID:          "1",
			HomeTeamID:  "MAD",
			AwayTeamID:  "BAR",
			ScheduledAt: time.Date(2025, 10, 2, 19, 0, 0, 0, time.UTC),
			Round:       1,
			Status:      match.StatusFinished,
			HomeScore:   &home,
			AwayScore:   &away,
		}},
		Version: dataversion.DataVersion{Version: "2025.10.02.190000", LastUpdated: "2025-10-02"},
	}
	require.NoError(t, cache.Write(bundle))

	stale, err := cache.LoadTeams()
	require.NoError(t, err)
	assert.Len(t, stale, 18)

	cache.Reload()

	teams, err := cache.LoadTeams()
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	raws, err := cache.LoadMatches()
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "FINISHED", raws[0].GameState)
	require.NotNil(t, raws[0].HomeScore)
	assert.Equal(t, 90, *raws[0].HomeScore)
	assert.Equal(t, bundle.Matches[0].ScheduledAt, raws[0].ScheduledAt)

	version, err := cache.LoadVersion()
	require.NoError(t, err)
	assert.Equal(t, "2025.10.02.190000", version.Version)

	entries, err := os.ReadDir(filepath.Join(dir, "static"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestCache_WriteRejectsInvalidBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache := New(Config{OverrideDir: dir, Logger: logging.NewNop()})

	err := cache.Write(usecase.StaticBundle{
		Teams:   []team.Team{{ID: "MAD"}},
		Version: dataversion.DataVersion{Version: "1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrStaticData))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	noDir := New(Config{Logger: logging.NewNop()})
	err = noDir.Write(usecase.StaticBundle{Teams: []team.Team{{ID: "MAD", Name: "Real Madrid"}}})
	assert.True(t, errors.Is(err, usecase.ErrStaticData))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
