package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/pages"
)

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

func (s *Server) request(r *http.Request) (pages.Request, error) {
	user, ok := userFrom(r.Context())
	if !ok {
		return pages.Request{}, errors.ErrInvalidCredentials
	}
	return pages.Request{User: user, Now: s.now()}, nil
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, status int, session auth.Session) {
	token, expiresAt, err := s.tokens.Issue(session.User.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	success(w, status, tokenResponse{Token: token, ExpiresAt: expiresAt, User: *session.User})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if err := decode(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.auth.Signup(body.Name, body.Email, body.Password, body.ConfirmPassword)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.issue(w, r, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decode(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.auth.Login(body.Email, body.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.issue(w, r, http.StatusOK, session)
}

// Tokens are stateless, so logout only tells the client to drop theirs.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// page adapts a controller load into a handler.
func page[V any](s *Server, load func(pages.Request, *http.Request) (V, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.request(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		view, err := load(req, r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		success(w, http.StatusOK, view)
	}
}

// action adapts a controller action into a handler that writes the outcome.
func action[V any](s *Server, status int, run func(pages.Request, *http.Request) (pages.Outcome[V], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.request(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		out, err := run(req, r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		success(w, status, out)
	}
}

func (s *Server) home(req pages.Request, _ *http.Request) (pages.HomeView, error) {
	return s.pages.Home(req)
}

func (s *Server) history(req pages.Request, r *http.Request) (pages.HistoryView, error) {
	return s.pages.History(req, r.URL.Query().Get("date"))
}

func (s *Server) stats(req pages.Request, _ *http.Request) (pages.StatsView, error) {
	return s.pages.Stats(req)
}

func (s *Server) settings(req pages.Request, _ *http.Request) (pages.SettingsView, error) {
	return s.pages.Settings(req)
}

func (s *Server) setStatus(req pages.Request, r *http.Request) (pages.Outcome[pages.HomeView], error) {
	var body statusRequest
	if err := decode(r, &body); err != nil {
		return pages.Outcome[pages.HomeView]{}, err
	}
	return s.pages.SetStatus(req, chi.URLParam(r, "id"), body.Status)
}

func (s *Server) toggle(req pages.Request, r *http.Request) (pages.Outcome[pages.HomeView], error) {
	return s.pages.Toggle(req, chi.URLParam(r, "id"))
}

func (body habitRequest) input() pages.HabitInput {
	return pages.HabitInput{Title: body.Title, Subtitle: body.Subtitle, Category: body.Category, Time: body.Time}
}

func (s *Server) addHabit(req pages.Request, r *http.Request) (pages.Outcome[pages.SettingsView], error) {
	var body habitRequest
	if err := decode(r, &body); err != nil {
		return pages.Outcome[pages.SettingsView]{}, err
	}
	return s.pages.AddHabit(req, body.input())
}

func (s *Server) updateHabit(req pages.Request, r *http.Request) (pages.Outcome[pages.SettingsView], error) {
	var body habitRequest
	if err := decode(r, &body); err != nil {
		return pages.Outcome[pages.SettingsView]{}, err
	}
	return s.pages.UpdateHabit(req, chi.URLParam(r, "id"), body.input())
}

func (s *Server) deleteHabit(req pages.Request, r *http.Request) (pages.Outcome[pages.SettingsView], error) {
	return s.pages.DeleteHabit(req, chi.URLParam(r, "id"))
}

func (s *Server) savePreferences(req pages.Request, r *http.Request) (pages.Outcome[pages.SettingsView], error) {
	var body preferencesRequest
	if err := decode(r, &body); err != nil {
		return pages.Outcome[pages.SettingsView]{}, err
	}
	return s.pages.SavePreferences(req, models.Preferences{DarkMode: body.DarkMode, Notifications: body.Notifications})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.pages.DeleteAccount(req); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		handleError(w, r, err)
		return
	}
	success(w, http.StatusOK, map[string]string{"status": "ok"})
}
