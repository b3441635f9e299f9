package app

import (
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/statpulse/harvester/internal/config"
)

// OpenDatabase opens the record archive connection with SQL tracing wired
// into the global tracer provider.
func OpenDatabase(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimPrefix(token, "dbname="), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
