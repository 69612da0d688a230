package postgres

import (
	"database/sql"

	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
)

type rosterTableModel struct {
	TeamID    string       `db:"team_id"`
	Code      string       `db:"code"`
	Name      string       `db:"name"`
	Kind      string       `db:"kind"`
	Position  string       `db:"position"`
	Dorsal    string       `db:"dorsal"`
	Height    int          `db:"height"`
	BirthDate sql.NullTime `db:"birth_date"`
	Country   string       `db:"country"`
	ImageURL  string       `db:"image_url"`
}

func (m rosterTableModel) toDomain() roster.Person {
	return roster.Person{
		Code:      m.Code,
		TeamID:    m.TeamID,
		Name:      m.Name,
		Kind:      roster.Kind(m.Kind),
		Position:  m.Position,
		Dorsal:    m.Dorsal,
		Height:    m.Height,
		BirthDate: nullTimeToTimePtr(m.BirthDate),
		Country:   m.Country,
		ImageURL:  m.ImageURL,
	}
}

func rosterFromDomain(teamID string, item roster.Person) rosterTableModel {
	return rosterTableModel{
		TeamID:    teamID,
		Code:      item.Code,
		Name:      item.Name,
		Kind:      string(item.Kind),
		Position:  item.Position,
		Dorsal:    item.Dorsal,
		Height:    item.Height,
		BirthDate: timePtrToNull(item.BirthDate),
		Country:   item.Country,
		ImageURL:  item.ImageURL,
	}
}
