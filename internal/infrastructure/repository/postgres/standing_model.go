package postgres

import "github.com/riskibarqy/euroleague-sync/internal/domain/standing"

type standingTableModel struct {
	Phase         string `db:"phase"`
	TeamID        string `db:"team_id"`
	TeamName      string `db:"team_name"`
	Position      int    `db:"position"`
	Played        int    `db:"played"`
	Won           int    `db:"won"`
	Lost          int    `db:"lost"`
	PointsFor     int    `db:"points_for"`
	PointsAgainst int    `db:"points_against"`
	PointsDiff    int    `db:"points_diff"`
}

func (m standingTableModel) toDomain() standing.Standing {
	return standing.Standing{
		Phase:         m.Phase,
		TeamID:        m.TeamID,
		TeamName:      m.TeamName,
		Position:      m.Position,
		Played:        m.Played,
		Won:           m.Won,
		Lost:          m.Lost,
		PointsFor:     m.PointsFor,
		PointsAgainst: m.PointsAgainst,
		PointsDiff:    m.PointsDiff,
	}
}

func standingFromDomain(phase string, item standing.Standing) standingTableModel {
	return standingTableModel{
		Phase:         phase,
		TeamID:        item.TeamID,
		TeamName:      item.TeamName,
		Position:      item.Position,
		Played:        item.Played,
		Won:           item.Won,
		Lost:          item.Lost,
		PointsFor:     item.PointsFor,
		PointsAgainst: item.PointsAgainst,
		PointsDiff:    item.PointsDiff,
	}
}
