// Package classifier partitions matches into the todays/topPicks/vip/all buckets
// served by the outcomes query.
package classifier

import (
	"sort"
	"time"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// Query holds everything classification depends on
type Query struct {
	Window      Window
	ViewerIsVIP bool
	TypeFilter  models.PredictionType
	Now         time.Time
}

// Buckets routes match references into named groups. A match may appear in several.
type Buckets struct {
	Todays   []*models.Match
	TopPicks []*models.Match
	VIP      []*models.Match
	All      []*models.Match
}

// Visible reports whether a viewer may see the match at all
func Visible(m *models.Match, viewerIsVIP bool) bool {
	return viewerIsVIP || !m.VIP
}

// filterActive reports whether t narrows the result
func filterActive(t models.PredictionType) bool {
	return t != "" && t != models.PredictionTypeAll
}

// Classify buckets matches in input order. Matches outside the window, VIP matches
// for non-VIP viewers, and matches lacking a prediction of the filtered type are
// dropped before bucketing. Matches are neither copied nor modified.
func Classify(matches []*models.Match, q Query) *Buckets {
	b := &Buckets{
		Todays:   []*models.Match{},
		TopPicks: []*models.Match{},
		VIP:      []*models.Match{},
		All:      []*models.Match{},
	}

	today := StartOfDay(q.Now)

	for _, m := range matches {
		if m == nil || !q.Window.Contains(m.Kickoff) {
			continue
		}
		if !Visible(m, q.ViewerIsVIP) {
			continue
		}
		if filterActive(q.TypeFilter) && !m.HasPredictionType(q.TypeFilter) {
			continue
		}

		if !m.Kickoff.Before(today) {
			b.Todays = append(b.Todays, m)
		}
		if m.HasValueBet() {
			b.TopPicks = append(b.TopPicks, m)
		}
		if m.VIP {
			b.VIP = append(b.VIP, m)
		}
		b.All = append(b.All, m)
	}

	return b
}

// DistinctDates returns the calendar dates (in loc) on which visible matches kick
// off, most recent first. A limit of zero or less returns every date.
func DistinctDates(matches []*models.Match, viewerIsVIP bool, limit int, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}

	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, m := range matches {
		if m == nil || !Visible(m, viewerIsVIP) {
			continue
		}
		day := m.Kickoff.In(loc).Format(DateLayout)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}

	// YYYY-MM-DD sorts lexically in date order
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates
}
