package staticdata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

const (
	DefaultSeason  = "2025_26"
	DateTimeLayout = "2006-01-02T15:04:05"
	versionFile    = "data_version.json"
)

//go:embed data/*.json
var bundled embed.FS

type Config struct {
	// Season selects teams_<season>.json and matches_calendar_<season>.json.
	Season string
	// OverrideDir holds regenerated files. A file found there wins over the
	// bundled copy of the same name.
	OverrideDir string
	Logger      *logging.Logger
}

// Cache serves the bundled static dataset. Decoded documents are kept in
// memory until Reload.
type Cache struct {
	season      string
	overrideDir string
	bundle      fs.FS
	validate    *validator.Validate
	logger      *logging.Logger

	mu      sync.RWMutex
	teams   *teamsDocument
	matches *matchesDocument
	version *dataversion.DataVersion
}

func New(cfg Config) *Cache {
	season := strings.TrimSpace(cfg.Season)
	if season == "" {
		season = DefaultSeason
	}
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(fmt.Sprintf("staticdata: embedded bundle: %v", err))
	}

	return &Cache{
		season:      season,
		overrideDir: strings.TrimSpace(cfg.OverrideDir),
		bundle:      sub,
		validate:    validator.New(),
		logger:      logging.OrDefault(cfg.Logger).Named("staticdata"),
	}
}

func (c *Cache) teamsFile() string {
	return "teams_" + c.season + ".json"
}

func (c *Cache) matchesFile() string {
	return "matches_calendar_" + c.season + ".json"
}

// HasStaticData reports whether a usable team document exists.
func (c *Cache) HasStaticData() bool {
	doc, err := c.loadTeamsDocument()
	if err != nil {
		c.logger.Warn("static teams unavailable", "season", c.season, "error", err)
		return false
	}
	return len(doc.Teams) > 0
}

func (c *Cache) LoadTeams() ([]team.Team, error) {
	doc, err := c.loadTeamsDocument()
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(doc.Teams))
	for _, record := range doc.Teams {
		out = append(out, record.toTeam())
	}
	return out, nil
}

func (c *Cache) LoadMatches() ([]usecase.RawMatch, error) {
	doc, err := c.loadMatchesDocument()
	if err != nil {
		return nil, err
	}

	out := make([]usecase.RawMatch, 0, len(doc.Matches))
	for _, record := range doc.Matches {
		raw, err := record.toRaw(doc.Season)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", usecase.ErrStaticData, c.matchesFile(), err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *Cache) LoadVersion() (dataversion.DataVersion, error) {
	c.mu.RLock()
	cached := c.version
	c.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	var version dataversion.DataVersion
	if err := c.decode(versionFile, &version); err != nil {
		return dataversion.DataVersion{}, err
	}
	if strings.TrimSpace(version.Version) == "" {
		return dataversion.DataVersion{}, fmt.Errorf("%w: %s: version is required", usecase.ErrStaticData, versionFile)
	}

	c.mu.Lock()
	c.version = &version
	c.mu.Unlock()
	return version, nil
}

// Reload drops the decoded documents so the next read goes back to disk.
func (c *Cache) Reload() {
	c.mu.Lock()
	c.teams = nil
	c.matches = nil
	c.version = nil
	c.mu.Unlock()
}

func (c *Cache) loadTeamsDocument() (*teamsDocument, error) {
	c.mu.RLock()
	cached := c.teams
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var doc teamsDocument
	if err := c.decode(c.teamsFile(), &doc); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.teams = &doc
	c.mu.Unlock()
	return &doc, nil
}

func (c *Cache) loadMatchesDocument() (*matchesDocument, error) {
	c.mu.RLock()
	cached := c.matches
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var doc matchesDocument
	if err := c.decode(c.matchesFile(), &doc); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.matches = &doc
	c.mu.Unlock()
	return &doc, nil
}

// decode reads name from the override directory when present, otherwise
// from the bundle, then validates the document.
func (c *Cache) decode(name string, target any) error {
	raw, origin, err := c.read(name)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", usecase.ErrStaticData, name, err)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s (%s): %v", usecase.ErrStaticData, name, origin, err)
	}
	if err := c.validate.Struct(target); err != nil {
		return fmt.Errorf("%w: validate %s (%s): %v", usecase.ErrStaticData, name, origin, err)
	}
	return nil
}

func (c *Cache) read(name string) ([]byte, string, error) {
	if c.overrideDir != "" {
		path := filepath.Join(c.overrideDir, name)
		raw, err := os.ReadFile(path)
		if err == nil {
			return raw, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}

	raw, err := fs.ReadFile(c.bundle, name)
	if err != nil {
		return nil, "bundle", err
	}
	return raw, "bundle", nil
}

// Write replaces the override files with bundle. Each file is written to a
// temporary sibling and renamed into place.
func (c *Cache) Write(bundle usecase.StaticBundle) error {
	if c.overrideDir == "" {
		return fmt.Errorf("%w: no override directory configured", usecase.ErrStaticData)
	}
	if len(bundle.Teams) == 0 {
		return fmt.Errorf("%w: refusing to write an empty team list", usecase.ErrStaticData)
	}
	if err := os.MkdirAll(c.overrideDir, 0o755); err != nil {
		return fmt.Errorf("%w: create override dir: %v", usecase.ErrStaticData, err)
	}

	lastUpdated := bundle.Version.LastUpdated
	if lastUpdated == "" {
		lastUpdated = time.Now().UTC().Format(time.DateOnly)
	}

	teams := teamsDocument{
		Version:     bundle.Version.Version,
		LastUpdated: lastUpdated,
		Teams:       make([]teamRecord, 0, len(bundle.Teams)),
	}
	for _, item := range bundle.Teams {
		teams.Teams = append(teams.Teams, fromTeam(item))
	}

	season := bundle.Season
	if season == "" {
		season = c.season
	}
	matches := matchesDocument{
		Version:     bundle.Version.Version,
		LastUpdated: lastUpdated,
		Season:      season,
		TotalRounds: bundle.TotalRounds,
		Description: "Season calendar regenerated from remote sources",
		Matches:     make([]matchRecord, 0, len(bundle.Matches)),
	}
	for _, item := range bundle.Matches {
		matches.Matches = append(matches.Matches, fromMatch(item))
	}

	// Validate before touching disk so a bad bundle leaves the old files.
	for _, doc := range []any{&teams, &matches} {
		if err := c.validate.Struct(doc); err != nil {
			return fmt.Errorf("%w: invalid bundle: %v", usecase.ErrStaticData, err)
		}
	}

	files := []struct {
		name string
		doc  any
	}{
		{name: c.teamsFile(), doc: teams},
		{name: c.matchesFile(), doc: matches},
		{name: versionFile, doc: bundle.Version},
	}
	for _, file := range files {
		if err := c.writeAtomic(file.name, file.doc); err != nil {
			return err
		}
	}

	c.logger.Info("static bundle written",
		"dir", c.overrideDir,
		"version", bundle.Version.Version,
		"teams", len(teams.Teams),
		"matches", len(matches.Matches),
	)
	return nil
}

func (c *Cache) writeAtomic(name string, doc any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoder := sonic.ConfigDefault.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("%w: encode %s: %v", usecase.ErrStaticData, name, err)
	}

	tmp, err := os.CreateTemp(c.overrideDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", usecase.ErrStaticData, name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %v", usecase.ErrStaticData, name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", usecase.ErrStaticData, name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %v", usecase.ErrStaticData, name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(c.overrideDir, name)); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %v", usecase.ErrStaticData, name, err)
	}
	return nil
}
