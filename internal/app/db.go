package app

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/euroleague-sync/internal/config"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// A run of two or more placeholder tuples, as rendered by chunked upserts.
	placeholderRowsRegex = regexp.MustCompile(`\((?:\$\d+, )*\$\d+\)(?:, \((?:\$\d+, )*\$\d+\))+`)
)

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn, err := normalizeDBURL(cfg.DBURL, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	return db, nil
}

// normalizeDBURL tags the connection with application_name unless the DSN
// already sets one. Both URL and key=value DSNs are accepted.
func normalizeDBURL(raw, appName string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty database url")
	}
	appName = strings.TrimSpace(appName)

	if !strings.Contains(raw, "://") {
		if appName == "" || strings.Contains(raw, "application_name=") {
			return raw, nil
		}
		return raw + " application_name=" + quoteDSNValue(appName), nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported database url scheme %q", parsed.Scheme)
	}
	if appName == "" {
		return raw, nil
	}

	query := parsed.Query()
	if query.Get("application_name") == "" {
		query.Set("application_name", appName)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// formatDBQueryForTrace flattens whitespace and folds the placeholder rows
// of multi-row statements so a 500-row upsert stays readable in a span.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = placeholderRowsRegex.ReplaceAllStringFunc(normalized, func(rows string) string {
		first := rows[:strings.Index(rows, ")")+1]
		return first + ", ... " + strconv.Itoa(strings.Count(rows, "(")) + " rows"
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
