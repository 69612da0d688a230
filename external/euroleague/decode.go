package euroleague

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

// listEnvelope accepts both a bare JSON array and {"data": [...]}.
type listEnvelope struct {
	Items []map[string]any
}

func (e *listEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		e.Items = nil
		return nil
	}
	if trimmed[0] == '[' {
		return sonic.Unmarshal(trimmed, &e.Items)
	}

	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	e.Items = wrapped.Data
	return nil
}

// objectEnvelope accepts both a bare object and {"data": {...}}.
type objectEnvelope struct {
	Item map[string]any
}

func (e *objectEnvelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		e.Item = nil
		return nil
	}

	var obj map[string]any
	if err := sonic.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	if nested, ok := obj["data"].(map[string]any); ok {
		obj = nested
	}
	e.Item = obj
	return nil
}

func parseClub(item map[string]any) team.Team {
	club := relationDataMap(item)
	if nested := relationDataMap(club["club"]); nested != nil {
		club = nested
	}

	venue := relationDataMap(club["venue"])
	return team.Team{
		ID:        strings.ToUpper(firstNonEmpty(getString(club, "code"), getString(club, "tla"))),
		Name:      firstNonEmpty(getString(club, "name"), getString(club, "clubName"), getString(club, "editorialName")),
		ShortName: firstNonEmpty(getString(club, "abbreviatedName"), getString(club, "tvCode"), getString(club, "tla")),
		City:      firstNonEmpty(getString(club, "city"), getString(venue, "city")),
		Country:   getString(relationDataMap(club["country"]), "name"),
		LogoURL:   crestURL(club),
		Venue:     getString(venue, "name"),
	}
}

func parseGame(item map[string]any) usecase.RawMatch {
	round, roundName := parseRound(item["round"])
	phase := relationDataMap(item["phase"])
	if phase == nil {
		phase = relationDataMap(item["phaseType"])
	}

	home := firstSide(item, "local", "home")
	away := firstSide(item, "road", "away")
	homeClub := sideClub(home)
	awayClub := sideClub(away)

	raw := usecase.RawMatch{
		ID:           firstNonEmpty(getStringAny(item, "gameCode"), getStringAny(item, "code"), getStringAny(item, "id")),
		Season:       firstNonEmpty(getString(relationDataMap(item["season"]), "code"), getString(item, "seasonCode")),
		Phase:        firstNonEmpty(getString(phase, "code"), getString(item, "phase"), getString(item, "phaseTypeCode")),
		Round:        round,
		RoundName:    roundName,
		Venue:        firstNonEmpty(getString(relationDataMap(item["venue"]), "name"), getString(item, "venue")),
		HomeTeamID:   strings.ToUpper(getString(homeClub, "code")),
		HomeTeamName: getString(homeClub, "name"),
		HomeTeamLogo: crestURL(homeClub),
		AwayTeamID:   strings.ToUpper(getString(awayClub, "code")),
		AwayTeamName: getString(awayClub, "name"),
		AwayTeamLogo: crestURL(awayClub),
		GameState:    parseGameState(item),
		HomeScore:    parseScore(lookupMapValue(home, "score")),
		AwayScore:    parseScore(lookupMapValue(away, "score")),
	}
	if scheduled := parseProviderDateTime(firstNonEmpty(getString(item, "date"), getString(item, "utcDate"))); scheduled != nil {
		raw.ScheduledAt = *scheduled
	}

	if boxscore := relationDataMap(item["boxscore"]); boxscore != nil {
		raw.ReportHomeScore = parseScore(lookupMapValue(relationDataMap(boxscore["local"]), "score"))
		raw.ReportAwayScore = parseScore(lookupMapValue(relationDataMap(boxscore["road"]), "score"))
	}
	return raw
}

func parsePerson(item map[string]any, teamCode string) (roster.Person, bool) {
	kind, ok := roster.ParseKind(getString(item, "type"))
	if !ok {
		kind, ok = roster.ParseKind(getString(item, "typeName"))
	}
	if !ok {
		return roster.Person{}, false
	}

	person := relationDataMap(item["person"])
	if person == nil {
		person = item
	}
	code := getStringAny(person, "code")
	if code == "" {
		return roster.Person{}, false
	}

	images := relationDataMap(item["images"])
	if images == nil {
		images = relationDataMap(person["images"])
	}

	return roster.Person{
		Code:      code,
		TeamID:    teamCode,
		Name:      getString(person, "name"),
		Kind:      kind,
		Position:  firstNonEmpty(getString(item, "positionName"), getString(person, "position")),
		Dorsal:    firstNonEmpty(getStringAny(item, "dorsal"), getStringAny(item, "dorsalRaw")),
		Height:    getInt(person, "height"),
		BirthDate: parseProviderDateTime(getString(person, "birthDate")),
		Country:   getString(relationDataMap(person["country"]), "name"),
		ImageURL:  firstNonEmpty(getString(images, "headshot"), getString(images, "profile")),
	}, true
}

func parseStanding(item map[string]any) standing.Standing {
	club := relationDataMap(item["club"])
	row := standing.Standing{
		TeamID:        strings.ToUpper(getString(club, "code")),
		TeamName:      getString(club, "name"),
		Position:      getIntAny(item, "position", "rank"),
		Played:        getIntAny(item, "gamesPlayed", "played"),
		Won:           getIntAny(item, "gamesWon", "won"),
		Lost:          getIntAny(item, "gamesLost", "lost"),
		PointsFor:     getIntAny(item, "pointsFor"),
		PointsAgainst: getIntAny(item, "pointsAgainst"),
		PointsDiff:    getIntAny(item, "pointsDifference", "pointsDiff"),
	}
	if row.PointsDiff == 0 {
		row.PointsDiff = row.PointsFor - row.PointsAgainst
	}
	return row
}

// parseRound reads either a bare round number or {number|round, name}.
func parseRound(raw any) (int, string) {
	switch typed := raw.(type) {
	case map[string]any:
		return getIntAny(typed, "number", "round"), getString(typed, "name")
	case nil:
		return 0, ""
	default:
		return int(asFloat64(typed)), ""
	}
}

func parseGameState(item map[string]any) string {
	if state := relationDataMap(item["gameState"]); state != nil {
		return firstNonEmpty(getString(state, "code"), getString(state, "name"))
	}
	return firstNonEmpty(getString(item, "gameState"), getString(item, "status"))
}

// parseScore reads a number or an object carrying the number. A missing or
// negative value is nil.
func parseScore(raw any) *int {
	switch typed := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		for _, key := range []string{"score", "total", "value", "points"} {
			if candidate, ok := typed[key]; ok && candidate != nil {
				return parseScore(candidate)
			}
		}
		return nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		value, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil || value < 0 {
			return nil
		}
		return &value
	default:
		value := int(asFloat64(typed))
		if value < 0 {
			return nil
		}
		return &value
	}
}

func firstSide(item map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if side := relationDataMap(item[key]); side != nil {
			return side
		}
	}
	return nil
}

// sideClub returns the club object of a game side; feed-style sides carry the
// club fields inline.
func sideClub(side map[string]any) map[string]any {
	if club := relationDataMap(lookupMapValue(side, "club")); club != nil {
		return club
	}
	return side
}

func crestURL(club map[string]any) string {
	for _, key := range []string{"images", "imageUrls"} {
		images := relationDataMap(lookupMapValue(club, key))
		if url := firstNonEmpty(getString(images, "crest"), getString(images, "logo")); url != "" {
			return url
		}
	}
	return getString(club, "crest")
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	value, ok := src[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// getStringAny also accepts numeric codes.
func getStringAny(src map[string]any, key string) string {
	switch typed := lookupMapValue(src, key).(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

func getInt(src map[string]any, key string) int {
	return int(asFloat64(lookupMapValue(src, key)))
}

func getIntAny(src map[string]any, keys ...string) int {
	for _, key := range keys {
		if value := getInt(src, key); value != 0 {
			return value
		}
	}
	return 0
}

func relationDataMap(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data
	}
	return obj
}

func lookupMapValue(src map[string]any, key string) any {
	if src == nil {
		return nil
	}
	return src[key]
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func asFloat64(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
