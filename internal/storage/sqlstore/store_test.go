package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

var errUnique = errors.New("unique violation")

func newMockStore(t *testing.T, placeholder sq.PlaceholderFormat) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := New(db, Config{
		DriverName:  "sqlmock",
		Placeholder: placeholder,
		IsDuplicate: func(err error) bool { return errors.Is(err, errUnique) },
	})
	s.SetClock(func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) })
	s.newID = func() string { return "fixed-id" }
	return s, mock
}

func TestCreateUserDuplicate(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("fixed-id", "ada@example.com", "Ada", "hash", "2024-03-01T09:30:00.000000Z").
		WillReturnError(errUnique)

	_, err := s.CreateUser("Ada", "ada@example.com", "hash")
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserNotFound(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectQuery(`SELECT id, email, name, password_hash, created_at FROM users WHERE email = \?`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := s.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLogStatusUsesDollarPlaceholders(t *testing.T) {
	s, mock := newMockStore(t, sq.Dollar)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM habits WHERE id = \$1 AND user_id = \$2`).
		WithArgs("h1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO habit_logs .* VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) ON CONFLICT \(user_id, habit_id, log_date\) DO UPDATE`).
		WithArgs("fixed-id", "u1", "h1", "2024-03-01", "done", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SetLogStatus("u1", "h1", "2024-03-01", "done"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLogStatusUnknownHabitRollsBack(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM habits`).
		WithArgs("h1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	err := s.SetLogStatus("u1", "h1", "2024-03-01", "done")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHabitMissingRollsBack(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM habit_logs WHERE habit_id = \? AND user_id = \?`).
		WithArgs("h1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM habits WHERE id = \? AND user_id = \?`).
		WithArgs("h1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteHabit("u1", "h1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserDeletesChildrenFirst(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM habit_logs WHERE user_id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM habits WHERE user_id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM preferences WHERE user_id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteUser("u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserFailureRollsBack(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM habit_logs`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM habits`).WithArgs("u1").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.DeleteUser("u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete habits")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxBeginFailure(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := s.DeleteHabit("u1", "h1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxPanicRollsBack(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = s.withTx(func(*sqlx.Tx) error { panic("boom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPreferencesDefaults(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectQuery(`SELECT user_id, dark_mode, notifications FROM preferences WHERE user_id = \?`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "dark_mode", "notifications"}))

	prefs, err := s.GetPreferences("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", prefs.UserID)
	assert.False(t, prefs.DarkMode)
	assert.False(t, prefs.Notifications)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePreferencesUpserts(t *testing.T) {
	s, mock := newMockStore(t, sq.Dollar)

	mock.ExpectExec(`INSERT INTO preferences .* ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1", true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SavePreferences(models.Preferences{UserID: "u1", DarkMode: true}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHistoryBadTimestamp(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectQuery(`SELECT .* FROM habit_logs l JOIN habits h ON h.id = l.habit_id WHERE l.user_id = \? ORDER BY l.log_date DESC, l.updated_at DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"log_date", "habit_id", "title", "status", "updated_at"}).
			AddRow("2024-03-01", "h1", "Read", "done", "yesterday"))

	_, err := s.GetHistory("u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse updated_at")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDailyCompletionStatsPercent(t *testing.T) {
	s, mock := newMockStore(t, sq.Question)

	mock.ExpectQuery(`SELECT log_date, SUM\(CASE WHEN status = 'done' THEN 1 ELSE 0 END\) AS done, COUNT\(\*\) AS total FROM habit_logs WHERE user_id = \? GROUP BY log_date ORDER BY log_date ASC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"log_date", "done", "total"}).
			AddRow("2024-03-01", 3, 6).
			AddRow("2024-03-02", 1, 8))

	stats, err := s.GetDailyCompletionStats("u1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 50, stats[0].Percent)
	assert.Equal(t, 13, stats[1].Percent)
	require.NoError(t, mock.ExpectationsWereMet())
}
