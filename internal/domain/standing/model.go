package standing

import (
	"fmt"
	"sort"
)

// Standing represents a table row for one team within a competition phase.
type Standing struct {
	Phase         string
	TeamID        string
	TeamName      string
	Position      int
	Played        int
	Won           int
	Lost          int
	PointsFor     int
	PointsAgainst int
	PointsDiff    int
}

// ValidatePositions checks that positions form the sequence 1..N.
func ValidatePositions(items []Standing) error {
	seen := make(map[int]string, len(items))
	for _, item := range items {
		if item.TeamID == "" {
			return fmt.Errorf("standing row without team id")
		}
		if item.Position < 1 || item.Position > len(items) {
			return fmt.Errorf("team %s has position %d outside 1..%d", item.TeamID, item.Position, len(items))
		}
		if other, ok := seen[item.Position]; ok {
			return fmt.Errorf("position %d shared by %s and %s", item.Position, other, item.TeamID)
		}
		seen[item.Position] = item.TeamID
	}
	return nil
}

// Rerank orders rows and renumbers positions densely from 1. Rows without a
// reported position sort after ranked ones.
func Rerank(items []Standing) []Standing {
	out := make([]Standing, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := rankKey(out[i].Position), rankKey(out[j].Position)
		if pi != pj {
			return pi < pj
		}
		if out[i].Won != out[j].Won {
			return out[i].Won > out[j].Won
		}
		if out[i].PointsDiff != out[j].PointsDiff {
			return out[i].PointsDiff > out[j].PointsDiff
		}
		return out[i].TeamID < out[j].TeamID
	})

	for i := range out {
		out[i].Position = i + 1
		if out[i].PointsDiff == 0 {
			out[i].PointsDiff = out[i].PointsFor - out[i].PointsAgainst
		}
	}
	return out
}

func rankKey(position int) int {
	if position <= 0 {
		return int(^uint(0) >> 1)
	}
	return position
}
