package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
)

var gameStates = map[string]match.Status{
	"SCHEDULED": match.StatusScheduled,
	"PRE":       match.StatusScheduled,
	"PREGAME":   match.StatusScheduled,
	"CONFIRMED": match.StatusScheduled,
	"NS":        match.StatusScheduled,

	"LIVE":     match.StatusLive,
	"PLAYING":  match.StatusLive,
	"INPLAY":   match.StatusLive,
	"1Q":       match.StatusLive,
	"2Q":       match.StatusLive,
	"3Q":       match.StatusLive,
	"4Q":       match.StatusLive,
	"HT":       match.StatusLive,
	"HALFTIME": match.StatusLive,
	"OT":       match.StatusLive,
	"BREAK":    match.StatusLive,

	"FINAL":    match.StatusFinished,
	"FINISHED": match.StatusFinished,
	"CLOSED":   match.StatusFinished,
	"END":      match.StatusFinished,
	"RESULT":   match.StatusFinished,
	"FT":       match.StatusFinished,
	"AOT":      match.StatusFinished,

	"POSTPONED": match.StatusPostponed,
	"DELAYED":   match.StatusPostponed,

	"CANCELLED": match.StatusCancelled,
	"CANCELED":  match.StatusCancelled,
	"ABANDONED": match.StatusCancelled,
}

// MapGameState resolves a provider state label. ok is false for empty or
// unrecognized labels.
func MapGameState(state string) (match.Status, bool) {
	key := strings.ToUpper(strings.TrimSpace(state))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if key == "" {
		return "", false
	}
	status, ok := gameStates[key]
	if !ok && strings.HasPrefix(key, "OT") {
		return match.StatusLive, true
	}
	return status, ok
}

// ResultEnricher turns raw game records into domain matches, resolving
// final scores and status.
type ResultEnricher struct {
	logger *logging.Logger
}

func NewResultEnricher(logger *logging.Logger) *ResultEnricher {
	return &ResultEnricher{logger: logging.OrDefault(logger)}
}

// EnrichMatch resolves one record. teams may be nil; it is used to fill
// display names the record lacks.
func (e *ResultEnricher) EnrichMatch(raw RawMatch, teams map[string]team.Team) (match.Match, error) {
	id := strings.TrimSpace(raw.ID)
	home := strings.TrimSpace(raw.HomeTeamID)
	away := strings.TrimSpace(raw.AwayTeamID)
	switch {
	case id == "":
		return match.Match{}, fmt.Errorf("%w: missing id", ErrMalformedData)
	case raw.ScheduledAt.IsZero():
		return match.Match{}, fmt.Errorf("%w: match %s missing date", ErrMalformedData, id)
	case home == "":
		return match.Match{}, fmt.Errorf("%w: match %s missing home team", ErrMalformedData, id)
	case away == "":
		return match.Match{}, fmt.Errorf("%w: match %s missing away team", ErrMalformedData, id)
	}

	homeScore := preferScore(raw.ReportHomeScore, raw.HomeScore)
	awayScore := preferScore(raw.ReportAwayScore, raw.AwayScore)

	var status match.Status
	if state := strings.TrimSpace(raw.GameState); state == "" {
		status = inferStatus(homeScore, awayScore)
	} else if mapped, known := MapGameState(state); known {
		status = mapped
	} else {
		// A live snapshot under an unlisted label must not read as a result.
		status = match.StatusScheduled
		e.logger.Debug("unknown game state", "match_id", id, "game_state", state)
	}

	out := match.Match{
		ID:           id,
		HomeTeamID:   home,
		HomeTeamName: strings.TrimSpace(raw.HomeTeamName),
		HomeTeamLogo: raw.HomeTeamLogo,
		AwayTeamID:   away,
		AwayTeamName: strings.TrimSpace(raw.AwayTeamName),
		AwayTeamLogo: raw.AwayTeamLogo,
		ScheduledAt:  raw.ScheduledAt.UTC(),
		Venue:        strings.TrimSpace(raw.Venue),
		Round:        raw.Round,
		RoundName:    strings.TrimSpace(raw.RoundName),
		Phase:        strings.TrimSpace(raw.Phase),
		Season:       strings.TrimSpace(raw.Season),
		Status:       status,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
	}
	if out.RoundName == "" && out.Round > 0 {
		out.RoundName = fmt.Sprintf("Round %d", out.Round)
	}
	fillFromTeams(&out, teams)

	return out.Normalize(), nil
}

// EnrichBatch resolves records in order, dropping malformed ones. Later
// duplicates replace earlier ones in place.
func (e *ResultEnricher) EnrichBatch(ctx context.Context, raws []RawMatch, teams map[string]team.Team) ([]match.Match, int) {
	out := make([]match.Match, 0, len(raws))
	position := make(map[string]int, len(raws))
	dropped := 0
	for _, raw := range raws {
		item, err := e.EnrichMatch(raw, teams)
		if err != nil {
			dropped++
			e.logger.WarnContext(ctx, "drop malformed match record", "match_id", raw.ID, "error", err)
			continue
		}
		if idx, ok := position[item.ID]; ok {
			out[idx] = item
			continue
		}
		position[item.ID] = len(out)
		out = append(out, item)
	}
	return out, dropped
}

// inferStatus applies when the provider reports no state: a score other than
// 0-0 means the game was played.
func inferStatus(home, away *int) match.Status {
	if home != nil && away != nil && (*home != 0 || *away != 0) {
		return match.StatusFinished
	}
	return match.StatusScheduled
}

func preferScore(report, live *int) *int {
	if report != nil {
		v := *report
		return &v
	}
	if live != nil {
		v := *live
		return &v
	}
	return nil
}

func fillFromTeams(m *match.Match, teams map[string]team.Team) {
	if len(teams) == 0 {
		return
	}
	if home, ok := teams[m.HomeTeamID]; ok {
		if m.HomeTeamName == "" {
			m.HomeTeamName = home.Name
		}
		if m.HomeTeamLogo == "" {
			m.HomeTeamLogo = home.LogoURL
		}
		if m.Venue == "" {
			m.Venue = home.Venue
		}
	}
	if away, ok := teams[m.AwayTeamID]; ok {
		if m.AwayTeamName == "" {
			m.AwayTeamName = away.Name
		}
		if m.AwayTeamLogo == "" {
			m.AwayTeamLogo = away.LogoURL
		}
	}
}
