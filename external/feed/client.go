package feed

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/id"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

const (
	defaultBaseURL     = "https://feeds.incrowdsports.com/provider/euroleague-feeds/v2"
	defaultCompetition = "E"
	defaultPhase       = "RS"
	defaultRounds      = 34
	defaultTeamRounds  = 3
	defaultTimeout     = 10 * time.Second
	roundWorkers       = 4
)

type Config struct {
	BaseURL     string
	Competition string
	Season      string
	Phase       string
	// Rounds is how many regular season rounds FetchMatches walks.
	Rounds int
	// TeamRounds is how many opening rounds are scanned to collect clubs.
	TeamRounds int
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads the public game feed. It serves the fallback chain and the
// round-by-round season import.
type Client struct {
	client      *fasthttp.Client
	baseURL     string
	competition string
	season      string
	phase       string
	rounds      int
	teamRounds  int
	timeout     time.Duration
	logger      *logging.Logger
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     32,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL:     baseURL,
		competition: valueOr(strings.ToUpper(strings.TrimSpace(cfg.Competition)), defaultCompetition),
		season:      strings.TrimSpace(cfg.Season),
		phase:       valueOr(strings.ToUpper(strings.TrimSpace(cfg.Phase)), defaultPhase),
		rounds:      cfg.Rounds,
		teamRounds:  cfg.TeamRounds,
		timeout:     timeout,
		logger:      logging.OrDefault(cfg.Logger).Named("feed"),
	}
	if c.rounds < 1 {
		c.rounds = defaultRounds
	}
	if c.teamRounds < 1 {
		c.teamRounds = defaultTeamRounds
	}
	return c
}

func (c *Client) Name() string {
	return usecase.SourceFeed
}

// FetchRound returns the games of one regular season round.
func (c *Client) FetchRound(ctx context.Context, round int) ([]usecase.RawMatch, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: round must be greater than zero", usecase.ErrInvalidInput)
	}
	if c.season == "" {
		return nil, fmt.Errorf("%w: feed season is not configured", usecase.ErrInvalidInput)
	}

	payload, err := doRequest[gamesResponse](ctx, c, c.roundURL(round))
	if err != nil {
		return nil, fmt.Errorf("fetch feed round=%d: %w", round, err)
	}

	out := make([]usecase.RawMatch, 0, len(payload.Data))
	for _, game := range payload.Data {
		out = append(out, game.toRaw(c.season))
	}
	return out, nil
}

// FetchTeams collects the clubs playing the opening rounds.
func (c *Client) FetchTeams(ctx context.Context) ([]team.Team, error) {
	results, err := c.fetchRounds(ctx, c.teamRounds)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]team.Team, 20)
	for _, result := range results {
		for _, game := range result.games {
			for _, side := range []feedTeam{game.Home, game.Away} {
				club := side.toTeam()
				if club.ID == "" {
					continue
				}
				if _, seen := byID[club.ID]; !seen {
					byID[club.ID] = club
				}
			}
		}
	}

	teams := make([]team.Team, 0, len(byID))
	for _, club := range byID {
		teams = append(teams, club)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

// FetchMatches walks every configured round. Rounds that fail are skipped as
// long as at least one round answered.
func (c *Client) FetchMatches(ctx context.Context) ([]usecase.RawMatch, error) {
	results, err := c.fetchRounds(ctx, c.rounds)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.RawMatch, 0, len(results)*10)
	for _, result := range results {
		for _, game := range result.games {
			out = append(out, game.toRaw(c.season))
		}
	}
	return out, nil
}

type roundResult struct {
	round int
	games []feedGame
	err   error
}

func (c *Client) fetchRounds(ctx context.Context, rounds int) ([]roundResult, error) {
	if c.season == "" {
		return nil, fmt.Errorf("%w: feed season is not configured", usecase.ErrInvalidInput)
	}

	p := pool.NewWithResults[roundResult]().WithMaxGoroutines(roundWorkers)
	for round := 1; round <= rounds; round++ {
		p.Go(func() roundResult {
			payload, err := doRequest[gamesResponse](ctx, c, c.roundURL(round))
			if err != nil {
				return roundResult{round: round, err: err}
			}
			return roundResult{round: round, games: payload.Data}
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].round < results[j].round })

	ok := make([]roundResult, 0, len(results))
	var lastErr error
	for _, result := range results {
		if result.err != nil {
			lastErr = result.err
			c.logger.WarnContext(ctx, "feed round fetch failed", "round", result.round, "error", result.err)
			continue
		}
		ok = append(ok, result)
	}
	if len(ok) == 0 && lastErr != nil {
		return nil, fmt.Errorf("fetch feed rounds: %w", lastErr)
	}
	return ok, nil
}

func (c *Client) roundURL(round int) string {
	return fmt.Sprintf("%s/competitions/%s/seasons/%s/games?phaseTypeCode=%s&roundNumber=%d",
		c.baseURL, c.competition, c.season, c.phase, round)
}

func doRequest[T any](ctx context.Context, c *Client, url string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.timeout {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: feed request: %w", usecase.ErrTransport, err)
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return nil, &usecase.RemoteError{StatusCode: status, Message: abbreviateBody(resp.Body())}
	}

	var result T
	if err := sonic.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decode feed payload: %v", usecase.ErrMalformedData, err)
	}
	return &result, nil
}

type gamesResponse struct {
	Status string     `json:"status"`
	Data   []feedGame `json:"data"`
}

type feedGame struct {
	ID         string   `json:"id"`
	Identifier string   `json:"identifier"`
	Code       *int     `json:"code"`
	Season     feedCode `json:"season"`
	PhaseType  feedCode `json:"phaseType"`
	Round      struct {
		Round int    `json:"round"`
		Name  string `json:"name"`
	} `json:"round"`
	Date   string     `json:"date"`
	Status string     `json:"status"`
	Home   feedTeam   `json:"home"`
	Away   feedTeam   `json:"away"`
	Venue  *feedVenue `json:"venue"`
}

type feedCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type feedTeam struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	AbbreviatedName string `json:"abbreviatedName"`
	TLA             string `json:"tla"`
	Score           int    `json:"score"`
	ImageURLs       *struct {
		Crest string `json:"crest"`
	} `json:"imageUrls"`
}

type feedVenue struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (g feedGame) toRaw(season string) usecase.RawMatch {
	raw := usecase.RawMatch{
		ID:           g.matchID(),
		Season:       valueOr(strings.TrimSpace(g.Season.Code), season),
		Phase:        strings.TrimSpace(g.PhaseType.Code),
		Round:        g.Round.Round,
		RoundName:    strings.TrimSpace(g.Round.Name),
		HomeTeamID:   g.Home.teamID(),
		HomeTeamName: strings.TrimSpace(g.Home.Name),
		HomeTeamLogo: g.Home.crest(),
		AwayTeamID:   g.Away.teamID(),
		AwayTeamName: strings.TrimSpace(g.Away.Name),
		AwayTeamLogo: g.Away.crest(),
		GameState:    strings.TrimSpace(g.Status),
		HomeScore:    nonZeroScore(g.Home.Score),
		AwayScore:    nonZeroScore(g.Away.Score),
	}
	if g.Venue != nil {
		raw.Venue = strings.TrimSpace(g.Venue.Name)
	}
	if scheduled, err := time.Parse(time.RFC3339, strings.TrimSpace(g.Date)); err == nil {
		raw.ScheduledAt = scheduled.UTC()
	}
	return raw
}

// matchID prefers the numeric game code so feed records line up with the
// official API's gameCode.
func (g feedGame) matchID() string {
	if g.Code != nil && *g.Code > 0 {
		return strconv.Itoa(*g.Code)
	}
	return valueOr(strings.TrimSpace(g.Identifier), strings.TrimSpace(g.ID))
}

func (t feedTeam) teamID() string {
	if code := strings.ToUpper(strings.TrimSpace(t.Code)); code != "" {
		return code
	}
	return id.Slug(t.Name)
}

func (t feedTeam) crest() string {
	if t.ImageURLs == nil {
		return ""
	}
	return strings.TrimSpace(t.ImageURLs.Crest)
}

func (t feedTeam) toTeam() team.Team {
	return team.Team{
		ID:        t.teamID(),
		Name:      strings.TrimSpace(t.Name),
		ShortName: valueOr(strings.TrimSpace(t.AbbreviatedName), strings.TrimSpace(t.TLA)),
		LogoURL:   t.crest(),
	}
}

// nonZeroScore treats 0 as "not played yet"; the feed has no null scores.
func nonZeroScore(score int) *int {
	if score <= 0 {
		return nil
	}
	v := score
	return &v
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
