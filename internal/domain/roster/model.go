package roster

import (
	"strings"
	"time"
)

type Kind string

const (
	KindPlayer Kind = "PLAYER"
	KindCoach  Kind = "COACH"
)

// Person is a squad member of a club for one season.
type Person struct {
	Code      string
	TeamID    string
	Name      string
	Kind      Kind
	Position  string
	Dorsal    string
	Height    int
	BirthDate *time.Time
	Country   string
	ImageURL  string
}

// ParseKind maps provider type labels onto Kind. Unsupported labels
// report false.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "J", "PLAYER":
		return KindPlayer, true
	case "E", "C", "COACH", "HEAD COACH":
		return KindCoach, true
	default:
		return "", false
	}
}

// Filter keeps players and coaches only.
func Filter(items []Person) []Person {
	out := make([]Person, 0, len(items))
	for _, item := range items {
		if item.Kind == KindPlayer || item.Kind == KindCoach {
			out = append(out, item)
		}
	}
	return out
}
