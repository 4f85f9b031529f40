package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Supported driver names.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// sqliteUnicodeDriver is the SQLite driver registered with a Unicode
// aware lower().  The built-in one folds ASCII only, so "AMÉLIE" would
// never match a lowercased search term.
const sqliteUnicodeDriver = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicodeDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower replaces SQLite's lower().  NULL and numeric values pass
// through unchanged.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	}
	return v
}

// Options describes how to reach the movie store.  Path is used by the
// embedded SQLite driver; the remaining connection fields by MySQL.
type Options struct {
	Driver       string
	Path         string
	User         string
	Pass         string
	Host         string
	Port         string
	Name         string
	MaxOpenConns int
}

// Open connects to the configured store, applies pool settings and
// verifies the connection.  The returned Dialect owns the DDL for the
// chosen driver.
func Open(opts Options) (*sql.DB, Dialect, error) {
	d, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	dsn, err := dataSourceName(opts)
	if err != nil {
		return nil, Dialect{}, err
	}

	driverName := d.Name
	if d.Name == DriverSQLite {
		driverName = sqliteUnicodeDriver
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, Dialect{}, err
	}

	// Pool settings
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = d.DefaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, err
	}
	return db, d, nil
}

func dataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if opts.Path == "" {
			return "", fmt.Errorf("database: sqlite path is required")
		}
		// WAL lets readers proceed while a writer holds the lock; busy_timeout
		// makes competing writers wait instead of failing with SQLITE_BUSY.
		q := url.Values{}
		q.Set("_busy_timeout", "5000")
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
		return "file:" + opts.Path + "?" + q.Encode(), nil
	case DriverMySQL:
		auth := opts.User
		if opts.Pass != "" {
			auth = fmt.Sprintf("%s:%s", opts.User, opts.Pass)
		}
		// release_date is scanned as text, so parseTime stays off.
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
			auth, opts.Host, opts.Port, opts.Name), nil
	}
	return "", fmt.Errorf("database: unsupported driver %q", opts.Driver)
}
