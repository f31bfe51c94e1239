package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/dailycoach/internal/models"
)

// GetPreferences returns the user's preferences, or defaults if none were saved.
func (s *Store) GetPreferences(userID string) (models.Preferences, error) {
	query, args, err := s.sb.Select("user_id", "dark_mode", "notifications").
		From("preferences").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to build query: %w", err)
	}

	var prefs models.Preferences
	if err := s.db.Get(&prefs, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{UserID: userID}, nil
		}
		return models.Preferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences upserts the preferences row for prefs.UserID.
func (s *Store) SavePreferences(prefs models.Preferences) error {
	_, err := execBuilder(s.db, s.sb.Insert("preferences").
		Columns("user_id", "dark_mode", "notifications").
		Values(prefs.UserID, prefs.DarkMode, prefs.Notifications).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET dark_mode = excluded.dark_mode, notifications = excluded.notifications"))
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
