package auth

import "github.com/julianstephens/dailycoach/internal/models"

// State is the authentication state of a session.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is an immutable snapshot of who is signed in. Transitions on
// Service return a new Session; nothing is stored process-wide.
type Session struct {
	State State
	User  *models.User
}

// AnonymousSession returns a session with no user.
func AnonymousSession() Session {
	return Session{State: Anonymous}
}

// AuthenticatedSession returns a session for user.
func AuthenticatedSession(user models.User) Session {
	return Session{State: Authenticated, User: &user}
}

// IsAuthenticated reports whether the session carries a user.
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil
}
