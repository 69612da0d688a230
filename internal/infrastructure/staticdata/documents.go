package staticdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

type teamsDocument struct {
	Version     string       `json:"version" validate:"required"`
	LastUpdated string       `json:"lastUpdated"`
	Teams       []teamRecord `json:"teams" validate:"required,min=1,dive"`
}

type teamRecord struct {
	ID        string `json:"id" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=120"`
	ShortName string `json:"shortName,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	LogoURL   string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Venue     string `json:"venue,omitempty"`
}

type matchesDocument struct {
	Version     string        `json:"version" validate:"required"`
	LastUpdated string        `json:"lastUpdated"`
	Season      string        `json:"season" validate:"required"`
	TotalRounds int           `json:"totalRounds" validate:"gte=0"`
	Description string        `json:"description,omitempty"`
	Note        string        `json:"note,omitempty"`
	Matches     []matchRecord `json:"matches" validate:"dive"`
}

type matchRecord struct {
	ID           string `json:"id" validate:"required"`
	Round        int    `json:"round" validate:"gte=1"`
	HomeTeamCode string `json:"homeTeamCode" validate:"required"`
	AwayTeamCode string `json:"awayTeamCode" validate:"required,nefield=HomeTeamCode"`
	Venue        string `json:"venue,omitempty"`
	Season       string `json:"season,omitempty"`
	Status       string `json:"status,omitempty"`
	DateTime     string `json:"dateTime" validate:"required"`
	HomeScore    *int   `json:"homeScore" validate:"omitempty,gte=0"`
	AwayScore    *int   `json:"awayScore" validate:"omitempty,gte=0"`
}

func (r teamRecord) toTeam() team.Team {
	return team.Team{
		ID:        strings.ToUpper(strings.TrimSpace(r.ID)),
		Name:      strings.TrimSpace(r.Name),
		ShortName: strings.TrimSpace(r.ShortName),
		City:      strings.TrimSpace(r.City),
		Country:   strings.TrimSpace(r.Country),
		LogoURL:   strings.TrimSpace(r.LogoURL),
		Venue:     strings.TrimSpace(r.Venue),
	}
}

func fromTeam(t team.Team) teamRecord {
	return teamRecord{
		ID:        t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
		City:      t.City,
		Country:   t.Country,
		LogoURL:   t.LogoURL,
		Venue:     t.Venue,
	}
}

// toRaw converts a calendar record. dateTime carries no zone and is read
// as UTC.
func (r matchRecord) toRaw(season string) (usecase.RawMatch, error) {
	scheduled, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(r.DateTime), time.UTC)
	if err != nil {
		return usecase.RawMatch{}, fmt.Errorf("match %s: bad dateTime %q", r.ID, r.DateTime)
	}

	if s := strings.TrimSpace(r.Season); s != "" {
		season = s
	}
	return usecase.RawMatch{
		ID:          strings.TrimSpace(r.ID),
		Season:      season,
		Round:       r.Round,
		ScheduledAt: scheduled,
		Venue:       strings.TrimSpace(r.Venue),
		HomeTeamID:  strings.ToUpper(strings.TrimSpace(r.HomeTeamCode)),
		AwayTeamID:  strings.ToUpper(strings.TrimSpace(r.AwayTeamCode)),
		GameState:   strings.TrimSpace(r.Status),
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
	}, nil
}

func fromMatch(m match.Match) matchRecord {
	return matchRecord{
		ID:           m.ID,
		Round:        m.Round,
		HomeTeamCode: m.HomeTeamID,
		AwayTeamCode: m.AwayTeamID,
		Venue:        m.Venue,
		Season:       m.Season,
		Status:       string(m.Status),
		DateTime:     m.ScheduledAt.UTC().Format(DateTimeLayout),
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
	}
}
