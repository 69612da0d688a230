package euroleague

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL     = "https://api-live.euroleague.net/v2"
	defaultCompetition = "E"
	defaultTimeout     = 20 * time.Second
	maxResponseBytes   = 6 << 20
)

var (
	seasonCodeRegex      = regexp.MustCompile(`^[A-Z]\d{4}$`)
	competitionCodeRegex = regexp.MustCompile(`^[A-Z]$`)
	clubCodeRegex        = regexp.MustCompile(`^[A-Z0-9]{2,5}$`)
)

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	Competition string
	// VersionURL serves the published data_version document. Empty disables
	// update checks.
	VersionURL     string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the official EuroLeague live API. It never retries; callers
// wrap it in a resilience.Retrier.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	competition string
	versionURL  string
	logger      *logging.Logger
	breaker     *resilience.CircuitBreaker
	flight      resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := logging.OrDefault(cfg.Logger).Named("euroleague")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competition := strings.ToUpper(strings.TrimSpace(cfg.Competition))
	if competition == "" {
		competition = defaultCompetition
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		competition: competition,
		versionURL:  strings.TrimSpace(cfg.VersionURL),
		logger:      logger,
		breaker:     resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

// Breaker exposes the circuit breaker so callers can observe transitions.
// It is nil when the breaker is disabled.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

func (c *Client) Competition() string {
	return c.competition
}

func (c *Client) FetchTeams(ctx context.Context, season string) ([]team.Team, error) {
	base, err := c.seasonPath(season)
	if err != nil {
		return nil, err
	}

	var payload listEnvelope
	if _, err := c.doJSON(ctx, base+"/clubs", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch clubs season=%s: %w", season, err)
	}

	teams := make([]team.Team, 0, len(payload.Items))
	for _, item := range payload.Items {
		club := parseClub(item)
		if club.ID == "" {
			continue
		}
		teams = append(teams, club)
	}
	return teams, nil
}

func (c *Client) FetchMatches(ctx context.Context, season, phase string) ([]usecase.RawMatch, error) {
	return c.FetchMatchesByState(ctx, season, phase, "")
}

// FetchMatchesByState lists games of a phase, optionally narrowed to one
// provider game state code.
func (c *Client) FetchMatchesByState(ctx context.Context, season, phase, gameState string) ([]usecase.RawMatch, error) {
	base, err := c.seasonPath(season)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if phase = strings.TrimSpace(phase); phase != "" {
		query.Set("phaseTypeCode", strings.ToUpper(phase))
	}
	if gameState = strings.TrimSpace(gameState); gameState != "" {
		query.Set("gameStateCode", gameState)
	}

	var payload listEnvelope
	if _, err := c.doJSON(ctx, base+"/games", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch games season=%s phase=%s: %w", season, phase, err)
	}

	out := make([]usecase.RawMatch, 0, len(payload.Items))
	for _, item := range payload.Items {
		raw := parseGame(item)
		if raw.Season == "" {
			raw.Season = season
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *Client) FetchMatchReport(ctx context.Context, season, matchID string) (usecase.RawMatch, error) {
	base, err := c.seasonPath(season)
	if err != nil {
		return usecase.RawMatch{}, err
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.RawMatch{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var payload objectEnvelope
	if _, err := c.doJSON(ctx, base+"/games/"+url.PathEscape(matchID), nil, &payload); err != nil {
		return usecase.RawMatch{}, fmt.Errorf("fetch game season=%s id=%s: %w", season, matchID, err)
	}
	if len(payload.Item) == 0 {
		return usecase.RawMatch{}, fmt.Errorf("%w: game %s has no payload", usecase.ErrNoData, matchID)
	}

	raw := parseGame(payload.Item)
	if raw.ID == "" {
		raw.ID = matchID
	}
	if raw.Season == "" {
		raw.Season = season
	}
	return raw, nil
}

func (c *Client) FetchRoster(ctx context.Context, season, teamCode string) ([]roster.Person, error) {
	base, err := c.seasonPath(season)
	if err != nil {
		return nil, err
	}
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if !clubCodeRegex.MatchString(teamCode) {
		return nil, fmt.Errorf("%w: invalid club code %q", usecase.ErrInvalidInput, teamCode)
	}

	var payload listEnvelope
	if _, err := c.doJSON(ctx, base+"/clubs/"+teamCode+"/people", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch roster season=%s club=%s: %w", season, teamCode, err)
	}

	people := make([]roster.Person, 0, len(payload.Items))
	for _, item := range payload.Items {
		person, ok := parsePerson(item, teamCode)
		if !ok {
			continue
		}
		people = append(people, person)
	}
	return people, nil
}

func (c *Client) FetchStandings(ctx context.Context, season, phase string) ([]standing.Standing, error) {
	base, err := c.seasonPath(season)
	if err != nil {
		return nil, err
	}

	phase = strings.ToUpper(strings.TrimSpace(phase))
	query := url.Values{}
	if phase != "" {
		query.Set("phaseTypeCode", phase)
	}

	var payload listEnvelope
	if _, err := c.doJSON(ctx, base+"/standings", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch standings season=%s phase=%s: %w", season, phase, err)
	}

	rows := make([]standing.Standing, 0, len(payload.Items))
	for _, item := range payload.Items {
		row := parseStanding(item)
		if row.TeamID == "" {
			continue
		}
		row.Phase = phase
		rows = append(rows, row)
	}
	return rows, nil
}

// IsAvailable pings the competitions listing.
func (c *Client) IsAvailable(ctx context.Context) bool {
	var payload listEnvelope
	_, err := c.doJSON(ctx, "/competitions", nil, &payload)
	if err != nil {
		c.logger.DebugContext(ctx, "euroleague api availability check failed", "error", err)
		return false
	}
	return true
}

func (c *Client) FetchDataVersion(ctx context.Context) (dataversion.DataVersion, error) {
	if c.versionURL == "" {
		return dataversion.DataVersion{}, usecase.ErrVersionUnsupported
	}

	raw, err := c.executeRequest(ctx, c.versionURL)
	if err != nil {
		var remoteErr *usecase.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound {
			return dataversion.DataVersion{}, fmt.Errorf("%w: %w", usecase.ErrVersionUnsupported, err)
		}
		return dataversion.DataVersion{}, fmt.Errorf("fetch data version: %w", err)
	}

	var version dataversion.DataVersion
	if err := sonic.Unmarshal(raw, &version); err != nil {
		return dataversion.DataVersion{}, fmt.Errorf("%w: decode data version: %v", usecase.ErrMalformedData, err)
	}
	if strings.TrimSpace(version.Version) == "" {
		return dataversion.DataVersion{}, fmt.Errorf("%w: data version document has no version", usecase.ErrMalformedData)
	}
	return version, nil
}

func (c *Client) seasonPath(season string) (string, error) {
	if !competitionCodeRegex.MatchString(c.competition) {
		return "", fmt.Errorf("%w: invalid competition code %q", usecase.ErrInvalidInput, c.competition)
	}
	if !seasonCodeRegex.MatchString(season) {
		return "", fmt.Errorf("%w: invalid season code %q", usecase.ErrInvalidInput, season)
	}
	return "/competitions/" + c.competition + "/seasons/" + season, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "euroleague circuit breaker rejected request", "state", c.breaker.State(), "path", path)
		return nil, fmt.Errorf("%w: euroleague api: %w", usecase.ErrDependencyUnavailable, err)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(isCircuitFailure(reqErr))
		return body, reqErr
	})
	if err != nil {
		return nil, err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", usecase.ErrMalformedData, path, err)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", usecase.ErrInvalidInput, err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "euroleague request failed", "url", fullURL, "error", err)
		return nil, fmt.Errorf("%w: send request: %w", usecase.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", usecase.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "euroleague request rejected", "url", fullURL, "status", resp.StatusCode)
		return nil, &usecase.RemoteError{StatusCode: resp.StatusCode, Message: abbreviateBody(raw)}
	}
	return raw, nil
}

// isCircuitFailure reports whether err says something about upstream health.
// Client-side rejections and caller cancellation do not.
func isCircuitFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var remoteErr *usecase.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Temporary()
	}
	return errors.Is(err, usecase.ErrTransport)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
