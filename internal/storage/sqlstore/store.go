// Package sqlstore implements the storage queries shared by the SQLite and
// PostgreSQL backends. Statements are built with squirrel so only the
// placeholder format differs between dialects.
package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// timestampFormat keeps fixed-width fractional seconds so stored values sort lexically.
const timestampFormat = "2006-01-02T15:04:05.000000Z07:00"

// Config describes the dialect of the underlying database.
type Config struct {
	// DriverName is the database/sql driver name, used by sqlx for rebinding.
	DriverName string
	// Placeholder is sq.Question for SQLite and sq.Dollar for PostgreSQL.
	Placeholder sq.PlaceholderFormat
	// IsDuplicate reports whether err is a unique-constraint violation.
	IsDuplicate func(error) bool
}

// Store runs habit tracker queries against an open connection pool.
type Store struct {
	db          *sqlx.DB
	sb          sq.StatementBuilderType
	isDuplicate func(error) bool
	now         func() time.Time
	newID       func() string
}

// New wraps an open *sql.DB.
func New(db *sql.DB, cfg Config) *Store {
	placeholder := cfg.Placeholder
	if placeholder == nil {
		placeholder = sq.Question
	}
	isDup := cfg.IsDuplicate
	if isDup == nil {
		isDup = func(error) bool { return false }
	}
	return &Store{
		db:          sqlx.NewDb(db, cfg.DriverName),
		sb:          sq.StatementBuilder.PlaceholderFormat(placeholder),
		isDuplicate: isDup,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
	}
}

// SetClock replaces the time source used for created_at and updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.now = func() time.Time { return now().UTC() }
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) timestamp() string {
	return s.now().Format(timestampFormat)
}

func parseTimestamp(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) withTx(fn func(*sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func execBuilder(db execer, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return db.Exec(query, args...)
}
