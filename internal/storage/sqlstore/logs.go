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

const upsertLogSuffix = `ON CONFLICT (user_id, habit_id, log_date) DO UPDATE SET
	status = excluded.status,
	updated_at = excluded.updated_at`

// SetLogStatus records status for the habit on date. The unique
// (user_id, habit_id, log_date) constraint makes this a single atomic upsert.
func (s *Store) SetLogStatus(userID, habitID, date, status string) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		query, args, err := s.sb.Select("1").
			From("habits").
			Where(sq.Eq{"id": habitID, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}
		var one int
		if err := tx.Get(&one, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("failed to check habit ownership: %w", err)
		}

		_, err = execBuilder(tx, s.sb.Insert("habit_logs").
			Columns("id", "user_id", "habit_id", "log_date", "status", "updated_at").
			Values(s.newID(), userID, habitID, date, status, s.timestamp()).
			Suffix(upsertLogSuffix))
		if err != nil {
			return fmt.Errorf("failed to set log status: %w", err)
		}
		return nil
	})
}

type logStatusRow struct {
	HabitID string `db:"habit_id"`
	Status  string `db:"status"`
}

// GetLogsForDate maps habit id to status for every log on date.
func (s *Store) GetLogsForDate(userID, date string) (map[string]string, error) {
	query, args, err := s.sb.Select("habit_id", "status").
		From("habit_logs").
		Where(sq.Eq{"user_id": userID, "log_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []logStatusRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get logs for %s: %w", date, err)
	}

	logs := make(map[string]string, len(rows))
	for _, r := range rows {
		logs[r.HabitID] = r.Status
	}
	return logs, nil
}

type historyRow struct {
	Date       string `db:"log_date"`
	HabitID    string `db:"habit_id"`
	HabitTitle string `db:"title"`
	Status     string `db:"status"`
	UpdatedAt  string `db:"updated_at"`
}

// GetHistory returns every log joined with its habit title, newest date first.
func (s *Store) GetHistory(userID string) ([]models.HistoryEntry, error) {
	query, args, err := s.sb.Select(
		"l.log_date AS log_date",
		"l.habit_id AS habit_id",
		"h.title AS title",
		"l.status AS status",
		"l.updated_at AS updated_at",
	).
		From("habit_logs l").
		Join("habits h ON h.id = l.habit_id").
		Where(sq.Eq{"l.user_id": userID}).
		OrderBy("l.log_date DESC", "l.updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []historyRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	history := make([]models.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		updatedAt, err := parseTimestamp(r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for habit %s on %s: %w", r.HabitID, r.Date, err)
		}
		history = append(history, models.HistoryEntry{
			Date:       r.Date,
			HabitID:    r.HabitID,
			HabitTitle: r.HabitTitle,
			Status:     r.Status,
			UpdatedAt:  updatedAt,
		})
	}
	return history, nil
}

type completionRow struct {
	Date  string `db:"log_date"`
	Done  int    `db:"done"`
	Total int    `db:"total"`
}

// GetDailyCompletionStats returns done/total per logged date in ascending order.
// Dates without logs are absent.
func (s *Store) GetDailyCompletionStats(userID string) ([]models.DailyCompletion, error) {
	query, args, err := s.sb.Select(
		"log_date",
		"SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END) AS done",
		"COUNT(*) AS total",
	).
		From("habit_logs").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("log_date").
		OrderBy("log_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []completionRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get completion stats: %w", err)
	}

	stats := make([]models.DailyCompletion, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, models.DailyCompletion{
			Date:    r.Date,
			Done:    r.Done,
			Total:   r.Total,
			Percent: storage.Percent(r.Done, r.Total),
		})
	}
	return stats, nil
}

// GetCategoryBreakdown aggregates all of the user's logs by habit category.
func (s *Store) GetCategoryBreakdown(userID string) ([]models.CategoryCount, error) {
	query, args, err := s.sb.Select(
		"h.category AS category",
		"SUM(CASE WHEN l.status = 'done' THEN 1 ELSE 0 END) AS done",
		"COUNT(*) AS total",
	).
		From("habit_logs l").
		Join("habits h ON h.id = l.habit_id").
		Where(sq.Eq{"l.user_id": userID}).
		GroupBy("h.category").
		OrderBy("h.category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var counts []models.CategoryCount
	if err := s.db.Select(&counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get category breakdown: %w", err)
	}
	if counts == nil {
		counts = []models.CategoryCount{}
	}
	return counts, nil
}
