package euroleague

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchTeams(t *testing.T) {
	t.Parallel()

	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"data":[
			{"code":"MAD","name":"Real Madrid","abbreviatedName":"Madrid","images":{"crest":"https://img/mad.png"},
			 "country":{"code":"ESP","name":"Spain"},"venue":{"name":"WiZink Center","city":"Madrid"}},
			{"name":"no code club"}
		]}`))
	})

	teams, err := client.FetchTeams(context.Background(), "E2025")
	require.NoError(t, err)
	assert.Equal(t, "/competitions/E/seasons/E2025/clubs", path)
	require.Len(t, teams, 1)
	assert.Equal(t, "MAD", teams[0].ID)
	assert.Equal(t, "Madrid", teams[0].ShortName)
	assert.Equal(t, "Madrid", teams[0].City)
	assert.Equal(t, "Spain", teams[0].Country)
	assert.Equal(t, "WiZink Center", teams[0].Venue)
	assert.Equal(t, "https://img/mad.png", teams[0].LogoURL)
}

func TestClient_InvalidCodesFailWithoutRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}

	client := newTestClient(t, handler)
	_, err := client.FetchTeams(context.Background(), "2025")
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))

	_, err = client.FetchMatches(context.Background(), "e2025", "RS")
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))

	badCompetition := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.Competition = "EU" })
	_, err = badCompetition.FetchStandings(context.Background(), "E2025", "RS")
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))

	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_FetchMatchesDecodesTolerantly(t *testing.T) {
	t.Parallel()

	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[
			{"gameCode":12,"date":"2025-10-02T18:45:00Z","round":{"number":3,"name":"Round 3"},
			 "phase":{"code":"RS"},"gameState":{"code":"RESULT"},
			 "local":{"club":{"code":"mad","name":"Real Madrid"},"score":{"score":88}},
			 "road":{"club":{"code":"BAR","name":"FC Barcelona"},"score":80},
			 "boxscore":{"local":{"score":89},"road":{"score":80}}},
			{"code":"E2025_13","date":"2025-10-03T20:00:00","round":4,
			 "local":{"club":{"code":"PAN"}},"road":{"club":{"code":"OLY"}}},
			{"id":"fallback-id","date":"2025-10-04","round":"5"}
		]}`))
	})

	raws, err := client.FetchMatchesByState(context.Background(), "E2025", "rs", "result")
	require.NoError(t, err)
	assert.Contains(t, query, "phaseTypeCode=RS")
	assert.Contains(t, query, "gameStateCode=result")
	require.Len(t, raws, 3)

	first := raws[0]
	assert.Equal(t, "12", first.ID)
	assert.Equal(t, "E2025", first.Season)
	assert.Equal(t, "RS", first.Phase)
	assert.Equal(t, 3, first.Round)
	assert.Equal(t, "Round 3", first.RoundName)
	assert.Equal(t, "RESULT", first.GameState)
	assert.Equal(t, "MAD", first.HomeTeamID)
	require.NotNil(t, first.HomeScore)
	assert.Equal(t, 88, *first.HomeScore)
	require.NotNil(t, first.AwayScore)
	assert.Equal(t, 80, *first.AwayScore)
	require.NotNil(t, first.ReportHomeScore)
	assert.Equal(t, 89, *first.ReportHomeScore)
	assert.Equal(t, time.Date(2025, 10, 2, 18, 45, 0, 0, time.UTC), first.ScheduledAt)

	second := raws[1]
	assert.Equal(t, "E2025_13", second.ID)
	assert.Equal(t, 4, second.Round)
	assert.Empty(t, second.RoundName)
	assert.Nil(t, second.HomeScore)
	assert.Empty(t, second.GameState)

	assert.Equal(t, "fallback-id", raws[2].ID)
	assert.Equal(t, 5, raws[2].Round)
}

func TestClient_FetchMatchReport(t *testing.T) {
	t.Parallel()

	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"gameState":"FINAL","date":"2025-10-02T18:45:00Z",
			"local":{"club":{"code":"MAD"}},"road":{"club":{"code":"BAR"}},
			"boxscore":{"local":{"score":91},"road":{"score":77}}}`))
	})

	raw, err := client.FetchMatchReport(context.Background(), "E2025", "12")
	require.NoError(t, err)
	assert.Equal(t, "/competitions/E/seasons/E2025/games/12", path)
	assert.Equal(t, "12", raw.ID)
	assert.Equal(t, "FINAL", raw.GameState)
	require.NotNil(t, raw.ReportHomeScore)
	require.NotNil(t, raw.ReportAwayScore)
	assert.Equal(t, 91, *raw.ReportHomeScore)
	assert.Equal(t, 77, *raw.ReportAwayScore)
}

func TestClient_FetchRosterKeepsPlayersAndCoaches(t *testing.T) {
	t.Parallel()

	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`[
			{"type":"J","dorsal":"23","positionName":"Guard","images":{"headshot":"https://img/p1.png"},
			 "person":{"code":"P001","name":"LLULL, SERGIO","height":190,"birthDate":"1987-11-15T00:00:00","country":{"name":"Spain"}}},
			{"type":"E","person":{"code":"C001","name":"MATEO, CHUS"}},
			{"type":"A","person":{"code":"X001","name":"Physio"}}
		]`))
	})

	people, err := client.FetchRoster(context.Background(), "E2025", "mad")
	require.NoError(t, err)
	assert.Equal(t, "/competitions/E/seasons/E2025/clubs/MAD/people", path)
	require.Len(t, people, 2)

	player := people[0]
	assert.Equal(t, roster.KindPlayer, player.Kind)
	assert.Equal(t, "MAD", player.TeamID)
	assert.Equal(t, "23", player.Dorsal)
	assert.Equal(t, 190, player.Height)
	assert.Equal(t, "Guard", player.Position)
	require.NotNil(t, player.BirthDate)
	assert.Equal(t, 1987, player.BirthDate.Year())
	assert.Equal(t, roster.KindCoach, people[1].Kind)
}

func TestClient_FetchStandings(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RS", r.URL.Query().Get("phaseTypeCode"))
		_, _ = w.Write([]byte(`{"data":[
			{"club":{"code":"MAD","name":"Real Madrid"},"position":1,"gamesPlayed":5,"gamesWon":5,"gamesLost":0,
			 "pointsFor":450,"pointsAgainst":400}
		]}`))
	})

	rows, err := client.FetchStandings(context.Background(), "E2025", "rs")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RS", rows[0].Phase)
	assert.Equal(t, "MAD", rows[0].TeamID)
	assert.Equal(t, 50, rows[0].PointsDiff)
}

func TestClient_NonSuccessStatusIsRemoteError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	})

	_, err := client.FetchTeams(context.Background(), "E2025")
	require.Error(t, err)

	var remoteErr *usecase.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.StatusCode)
	assert.Equal(t, "maintenance", remoteErr.Message)
	assert.True(t, remoteErr.Temporary())
	assert.True(t, errors.Is(err, usecase.ErrTransport))
	assert.True(t, usecase.IsRetryable(err))
}

func TestClient_MalformedPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	})

	_, err := client.FetchTeams(context.Background(), "E2025")
	assert.True(t, errors.Is(err, usecase.ErrMalformedData))
	assert.False(t, usecase.IsRetryable(err))
}

func TestClient_NetworkFailureWrapsTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{BaseURL: baseURL, Timeout: time.Second, Logger: logging.NewNop()})
	_, err := client.FetchTeams(context.Background(), "E2025")
	assert.True(t, errors.Is(err, usecase.ErrTransport))
	assert.True(t, usecase.IsRetryable(err))
}

func TestClient_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute}
	})

	for range 2 {
		_, err := client.FetchTeams(context.Background(), "E2025")
		require.Error(t, err)
	}

	_, err := client.FetchTeams(context.Background(), "E2025")
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, resilience.CircuitStateOpen, client.Breaker().State())
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute}
	})

	for range 3 {
		_, err := client.FetchTeams(context.Background(), "E2025")
		require.Error(t, err)
		assert.False(t, usecase.IsRetryable(err))
	}
	assert.Equal(t, resilience.CircuitStateClosed, client.Breaker().State())
}

func TestClient_IsAvailable(t *testing.T) {
	t.Parallel()

	up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"code":"E"}]}`))
	})
	assert.True(t, up.IsAvailable(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.False(t, down.IsAvailable(context.Background()))
}

func TestClient_FetchDataVersion(t *testing.T) {
	t.Parallel()

	unconfigured := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Errorf("no request expected")
	})
	_, err := unconfigured.FetchDataVersion(context.Background())
	assert.True(t, errors.Is(err, usecase.ErrVersionUnsupported))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"version":"1.2.0","lastUpdated":"2025-11-01","syncPolicy":{"enableAutoSync":true,"autoSyncInterval":24}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL, VersionURL: srv.URL + "/data_version.json", Logger: logging.NewNop()})
	version, err := client.FetchDataVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", version.Version)
	assert.Equal(t, 24*time.Hour, version.Policy.AutoSyncInterval)

	missing := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL, VersionURL: srv.URL + "/missing.json", Logger: logging.NewNop()})
	_, err = missing.FetchDataVersion(context.Background())
	assert.True(t, errors.Is(err, usecase.ErrVersionUnsupported))
}

func TestSource_BindsSeasonAndPhase(t *testing.T) {
	t.Parallel()

	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	})

	source := NewSource(client, "E2025", "rs")
	assert.Equal(t, usecase.SourceOfficial, source.Name())

	raws, err := source.FetchMatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Equal(t, "phaseTypeCode=RS", query)
}
