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

var habitColumns = []string{"id", "user_id", "title", "subtitle", "category", "icon", "scheduled_time", "created_at"}

type habitRow struct {
	models.Habit
	CreatedAt string `db:"created_at"`
}

func (r habitRow) toModel() (models.Habit, error) {
	h := r.Habit
	t, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.CreatedAt = t
	return h, nil
}

// ListHabits returns the user's habits ordered by scheduled time then title.
func (s *Store) ListHabits(userID string) ([]models.Habit, error) {
	query, args, err := s.sb.Select(habitColumns...).
		From("habits").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("scheduled_time ASC", "title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []habitRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, r := range rows {
		h, err := r.toModel()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// GetHabit returns one habit owned by the user.
func (s *Store) GetHabit(userID, habitID string) (models.Habit, error) {
	query, args, err := s.sb.Select(habitColumns...).
		From("habits").
		Where(sq.Eq{"id": habitID, "user_id": userID}).
		ToSql()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to build query: %w", err)
	}

	var row habitRow
	if err := s.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return row.toModel()
}

// AddHabit inserts a habit for the user and returns its id.
func (s *Store) AddHabit(userID string, habit models.Habit) (string, error) {
	id := habit.ID
	if id == "" {
		id = s.newID()
	}
	_, err := execBuilder(s.db, s.sb.Insert("habits").
		Columns(habitColumns...).
		Values(id, userID, habit.Title, habit.Subtitle, habit.Category, habit.Icon, habit.ScheduledTime, s.timestamp()))
	if err != nil {
		if s.isDuplicate(err) {
			return "", storage.ErrDuplicate
		}
		return "", fmt.Errorf("failed to add habit: %w", err)
	}
	return id, nil
}

// UpdateHabit rewrites the editable fields of a habit owned by the user.
func (s *Store) UpdateHabit(userID string, habit models.Habit) error {
	res, err := execBuilder(s.db, s.sb.Update("habits").
		SetMap(map[string]interface{}{
			"title":          habit.Title,
			"subtitle":       habit.Subtitle,
			"category":       habit.Category,
			"icon":           habit.Icon,
			"scheduled_time": habit.ScheduledTime,
		}).
		Where(sq.Eq{"id": habit.ID, "user_id": userID}))
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res)
}

// DeleteHabit removes the habit's logs first, then the habit, atomically.
func (s *Store) DeleteHabit(userID, habitID string) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		if _, err := execBuilder(tx, s.sb.Delete("habit_logs").
			Where(sq.Eq{"habit_id": habitID, "user_id": userID})); err != nil {
			return fmt.Errorf("failed to delete habit logs: %w", err)
		}

		res, err := execBuilder(tx, s.sb.Delete("habits").
			Where(sq.Eq{"id": habitID, "user_id": userID}))
		if err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		return requireAffected(res)
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
