package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at"}

type userRow struct {
	models.User
	CreatedAt string `db:"created_at"`
}

func (r userRow) toModel() (models.User, error) {
	u := r.User
	t, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at for user %s: %w", u.ID, err)
	}
	u.CreatedAt = t
	return u, nil
}

func (s *Store) findUser(where sq.Eq) (models.User, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	var row userRow
	if err := s.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return row.toModel()
}

// FindUserByEmail looks up a user by exact email.
func (s *Store) FindUserByEmail(email string) (models.User, error) {
	return s.findUser(sq.Eq{"email": email})
}

// FindUserByID looks up a user by id.
func (s *Store) FindUserByID(id string) (models.User, error) {
	return s.findUser(sq.Eq{"id": id})
}

// CreateUser inserts a user. The unique email index turns a concurrent
// duplicate signup into ErrDuplicate.
func (s *Store) CreateUser(name, email, passwordHash string) (string, error) {
	id := s.newID()
	_, err := execBuilder(s.db, s.sb.Insert("users").
		Columns(userColumns...).
		Values(id, email, name, passwordHash, s.timestamp()))
	if err != nil {
		if s.isDuplicate(err) {
			return "", storage.ErrDuplicate
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// DeleteUser removes a user and everything they own.
func (s *Store) DeleteUser(userID string) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		for _, table := range []string{"habit_logs", "habits", "preferences"} {
			if _, err := execBuilder(tx, s.sb.Delete(table).Where(sq.Eq{"user_id": userID})); err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}

		res, err := execBuilder(tx, s.sb.Delete("users").Where(sq.Eq{"id": userID}))
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted rows: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}
