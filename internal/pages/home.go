package pages

import (
	"fmt"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

// HabitCard is one habit with today's status. Logged is false when no
// status was recorded today.
type HabitCard struct {
	Habit  models.Habit `json:"habit"`
	Status string       `json:"status"`
	Logged bool         `json:"logged"`
}

// Done reports whether the habit was completed today.
func (c HabitCard) Done() bool {
	return c.Status == constants.StatusDone
}

type HomeView struct {
	Greeting string      `json:"greeting"`
	Date     string      `json:"date"`
	Quote    Quote       `json:"quote"`
	Cards    []HabitCard `json:"cards"`
	Done     int         `json:"done"`
	Total    int         `json:"total"`
	Progress int         `json:"progress"`
}

// Home builds today's checklist.
func (c *Controller) Home(req Request) (HomeView, error) {
	habits, err := c.store.ListHabits(req.User.ID)
	if err != nil {
		return HomeView{}, fmt.Errorf("failed to list habits: %w", err)
	}
	logs, err := c.store.GetLogsForDate(req.User.ID, req.Today())
	if err != nil {
		return HomeView{}, fmt.Errorf("failed to load today's logs: %w", err)
	}

	view := HomeView{
		Greeting: "Hello, " + req.User.FirstName(),
		Date:     req.Now.Format("Monday, January 2"),
		Quote:    c.quote(req),
		Cards:    make([]HabitCard, 0, len(habits)),
		Total:    len(habits),
	}
	for _, h := range habits {
		status, logged := logs[h.ID]
		if !logged {
			status = constants.StatusPending
		}
		card := HabitCard{Habit: h, Status: status, Logged: logged}
		if card.Done() {
			view.Done++
		}
		view.Cards = append(view.Cards, card)
	}
	view.Progress = storage.Percent(view.Done, view.Total)
	return view, nil
}

func (c *Controller) quote(req Request) Quote {
	q, err := c.quotes.Quote(ContextFor(req.Now), req.Now)
	if err != nil || q.Text == "" {
		if err != nil {
			logger.Warn("Quote source failed", "error", err)
		}
		return FallbackQuote
	}
	return q
}

// ValidStatus reports whether s is a recognised log status.
func ValidStatus(s string) bool {
	return s == constants.StatusDone || s == constants.StatusPending
}

// SetStatus records today's status for a habit and returns the refreshed Home view.
func (c *Controller) SetStatus(req Request, habitID, status string) (Outcome[HomeView], error) {
	if !ValidStatus(status) {
		return Outcome[HomeView]{}, errors.Validationf("unknown status %q", status)
	}
	if err := c.store.SetLogStatus(req.User.ID, habitID, req.Today(), status); err != nil {
		return Outcome[HomeView]{}, habitErr(err, "update status")
	}

	view, err := c.Home(req)
	if err != nil {
		return Outcome[HomeView]{}, err
	}
	return refreshed(view, ""), nil
}

// Toggle flips today's status between done and pending.
func (c *Controller) Toggle(req Request, habitID string) (Outcome[HomeView], error) {
	logs, err := c.store.GetLogsForDate(req.User.ID, req.Today())
	if err != nil {
		return Outcome[HomeView]{}, fmt.Errorf("failed to load today's logs: %w", err)
	}
	next := constants.StatusDone
	if logs[habitID] == constants.StatusDone {
		next = constants.StatusPending
	}
	return c.SetStatus(req, habitID, next)
}
