package postgres

import (
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

type teamTableModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	ShortName  string    `db:"short_name"`
	City       string    `db:"city"`
	Country    string    `db:"country"`
	LogoURL    string    `db:"logo_url"`
	Venue      string    `db:"venue"`
	IsFavorite bool      `db:"is_favorite"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	ShortName  string `db:"short_name"`
	City       string `db:"city"`
	Country    string `db:"country"`
	LogoURL    string `db:"logo_url"`
	Venue      string `db:"venue"`
	IsFavorite bool   `db:"is_favorite"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:         m.ID,
		Name:       m.Name,
		ShortName:  m.ShortName,
		City:       m.City,
		Country:    m.Country,
		LogoURL:    m.LogoURL,
		Venue:      m.Venue,
		IsFavorite: m.IsFavorite,
	}
}

func teamInsertFromDomain(item team.Team) teamInsertModel {
	return teamInsertModel{
		ID:         item.ID,
		Name:       item.Name,
		ShortName:  item.ShortName,
		City:       item.City,
		Country:    item.Country,
		LogoURL:    item.LogoURL,
		Venue:      item.Venue,
		IsFavorite: item.IsFavorite,
	}
}
