package models

import "time"

// User is an account holder. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"-"`
}

// FirstName returns the first word of the display name.
func (u User) FirstName() string {
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// Preferences are per-user display and reminder toggles.
type Preferences struct {
	UserID        string `json:"-" db:"user_id"`
	DarkMode      bool   `json:"dark_mode" db:"dark_mode"`
	Notifications bool   `json:"notifications" db:"notifications"`
}
