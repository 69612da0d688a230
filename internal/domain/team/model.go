package team

import (
	"fmt"
	"strings"
)

// Team is a club taking part in the competition. ID is the competition's
// short club code and is the join key used by matches and standings.
type Team struct {
	ID         string
	Name       string
	ShortName  string
	City       string
	Country    string
	LogoURL    string
	Venue      string
	IsFavorite bool
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Index maps team ids to teams for display-name lookups.
func Index(items []Team) map[string]Team {
	out := make(map[string]Team, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
