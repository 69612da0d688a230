package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
)

type matchTableModel struct {
	ID           string        `db:"id"`
	Season       string        `db:"season"`
	Phase        string        `db:"phase"`
	Round        int           `db:"round"`
	RoundName    string        `db:"round_name"`
	ScheduledAt  time.Time     `db:"scheduled_at"`
	Venue        string        `db:"venue"`
	HomeTeamID   string        `db:"home_team_id"`
	HomeTeamName string        `db:"home_team_name"`
	HomeTeamLogo string        `db:"home_team_logo"`
	AwayTeamID   string        `db:"away_team_id"`
	AwayTeamName string        `db:"away_team_name"`
	AwayTeamLogo string        `db:"away_team_logo"`
	Status       string        `db:"status"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	ID           string        `db:"id"`
	Season       string        `db:"season"`
	Phase        string        `db:"phase"`
	Round        int           `db:"round"`
	RoundName    string        `db:"round_name"`
	ScheduledAt  time.Time     `db:"scheduled_at"`
	Venue        string        `db:"venue"`
	HomeTeamID   string        `db:"home_team_id"`
	HomeTeamName string        `db:"home_team_name"`
	HomeTeamLogo string        `db:"home_team_logo"`
	AwayTeamID   string        `db:"away_team_id"`
	AwayTeamName string        `db:"away_team_name"`
	AwayTeamLogo string        `db:"away_team_logo"`
	Status       string        `db:"status"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		HomeTeamID:   m.HomeTeamID,
		HomeTeamName: m.HomeTeamName,
		HomeTeamLogo: m.HomeTeamLogo,
		AwayTeamID:   m.AwayTeamID,
		AwayTeamName: m.AwayTeamName,
		AwayTeamLogo: m.AwayTeamLogo,
		ScheduledAt:  m.ScheduledAt.UTC(),
		Venue:        m.Venue,
		Round:        m.Round,
		RoundName:    m.RoundName,
		Phase:        m.Phase,
		Season:       m.Season,
		Status:       match.NormalizeStatus(m.Status),
		HomeScore:    nullInt64ToIntPtr(m.HomeScore),
		AwayScore:    nullInt64ToIntPtr(m.AwayScore),
	}
}

func matchInsertFromDomain(item match.Match) matchInsertModel {
	return matchInsertModel{
		ID:           item.ID,
		Season:       item.Season,
		Phase:        item.Phase,
		Round:        item.Round,
		RoundName:    item.RoundName,
		ScheduledAt:  item.ScheduledAt.UTC(),
		Venue:        item.Venue,
		HomeTeamID:   item.HomeTeamID,
		HomeTeamName: item.HomeTeamName,
		HomeTeamLogo: item.HomeTeamLogo,
		AwayTeamID:   item.AwayTeamID,
		AwayTeamName: item.AwayTeamName,
		AwayTeamLogo: item.AwayTeamLogo,
		Status:       string(item.Status),
		HomeScore:    intPtrToNull(item.HomeScore),
		AwayScore:    intPtrToNull(item.AwayScore),
	}
}
