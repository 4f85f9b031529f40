package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect captures the per-driver differences of the movie store.  All
// DML is portable between the supported drivers (`?` placeholders,
// LIKE ... ESCAPE '!', ISO date strings compare lexically), so only the
// DDL and pool defaults live here.
type Dialect struct {
	Name                string
	DefaultMaxOpenConns int
	schema              []string
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		title             TEXT NOT NULL CHECK (length(trim(title)) > 0),
		release_date      TEXT,
		overview          TEXT,
		popularity        REAL,
		vote_count        INTEGER DEFAULT 0 CHECK (vote_count IS NULL OR vote_count >= 0),
		vote_average      REAL DEFAULT 0 CHECK (vote_average IS NULL OR vote_average >= 0),
		original_language TEXT,
		genre             TEXT,
		poster_url        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_release_date ON movies(release_date)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_vote_average ON movies(vote_average)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so the indexes are declared
// inline and the whole statement stays idempotent.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title             VARCHAR(512) NOT NULL,
		release_date      DATE NULL,
		overview          TEXT NULL,
		popularity        DOUBLE NULL,
		vote_count        BIGINT NULL DEFAULT 0,
		vote_average      DOUBLE NULL DEFAULT 0,
		original_language VARCHAR(16) NULL,
		genre             VARCHAR(255) NULL,
		poster_url        VARCHAR(1024) NULL,
		INDEX idx_movies_title (title),
		INDEX idx_movies_release_date (release_date),
		INDEX idx_movies_popularity (popularity),
		INDEX idx_movies_vote_average (vote_average),
		CONSTRAINT chk_movies_votes CHECK (vote_count IS NULL OR vote_count >= 0),
		CONSTRAINT chk_movies_average CHECK (vote_average IS NULL OR vote_average >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// DialectFor returns the dialect for a driver name.  An empty name
// selects the embedded SQLite store.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, "":
		// Writers serialise on the database lock anyway; a small pool keeps
		// concurrent readers going without piling up busy waits.
		return Dialect{Name: DriverSQLite, DefaultMaxOpenConns: 4, schema: sqliteSchema}, nil
	case DriverMySQL:
		return Dialect{Name: DriverMySQL, DefaultMaxOpenConns: 25, schema: mysqlSchema}, nil
	}
	return Dialect{}, fmt.Errorf("database: unsupported driver %q", driver)
}

// EnsureSchema creates the movies table and its secondary indexes when
// they do not exist yet.  It is safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema (%s): %w", d.Name, err)
		}
	}
	return nil
}
