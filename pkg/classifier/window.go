package classifier

import (
	"fmt"
	"time"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// DateLayout is the calendar-date format used for explicit dates and date lists
const DateLayout = "2006-01-02"

// DefaultDaysBack is the window length used when neither a date nor days are given
const DefaultDaysBack = 30

// MaxDaysBack bounds the days-back window to about a century
const MaxDaysBack = 36500

// Window is an inclusive kickoff time range
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window, bounds included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// WindowParams are the caller-supplied window selectors.
// Date takes priority over DaysBack; both empty selects the default window.
type WindowParams struct {
	Date     string
	DaysBack *int
}

// ResolveWindow turns window selectors into a concrete range. Calendar dates are
// interpreted in now's location.
func ResolveWindow(p WindowParams, now time.Time) (Window, error) {
	return ResolveWindowWithDefault(p, now, DefaultDaysBack)
}

// ResolveWindowWithDefault is ResolveWindow with a configurable default length
func ResolveWindowWithDefault(p WindowParams, now time.Time, defaultDays int) (Window, error) {
	if p.Date != "" {
		day, err := time.ParseInLocation(DateLayout, p.Date, now.Location())
		if err != nil {
			return Window{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", models.ErrValidationFailed, p.Date)
		}
		return Window{
			From: day,
			To:   day.AddDate(0, 0, 1).Add(-time.Millisecond),
		}, nil
	}

	days := defaultDays
	if p.DaysBack != nil {
		days = *p.DaysBack
	}
	if days < 0 {
		return Window{}, fmt.Errorf("%w: days must not be negative", models.ErrValidationFailed)
	}
	if days > MaxDaysBack {
		return Window{}, fmt.Errorf("%w: days must not exceed %d", models.ErrValidationFailed, MaxDaysBack)
	}

	return Window{
		From: now.AddDate(0, 0, -days),
		To:   now,
	}, nil
}

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
