// Package finder evaluates locations against the clock and narrows a list the
// way the public site does: text search, dropdown filters and "open now".
package finder

import (
	"sort"
	"strings"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
)

// Result pairs a location with its status at the evaluated moment.
type Result struct {
	Location models.Location
	Status   models.Status
}

// Evaluate parses the location's schedule and decides whether it is open at.
func Evaluate(loc models.Location, at schedule.Moment) models.Status {
	return EvaluateWith(nil, loc, at)
}

// EvaluateWith is Evaluate with parsing cached in memo. A nil memo parses
// every time.
func EvaluateWith(memo *schedule.Memo, loc models.Location, at schedule.Moment) models.Status {
	var parsed models.ParsedSchedule
	if memo != nil {
		parsed = memo.Parse(loc.Schedule)
	} else {
		parsed = schedule.Parse(loc.Schedule)
	}
	return schedule.IsOpenNow(parsed, at)
}

// Badge is the text shown next to a location. Indeterminate shows nothing.
func Badge(s models.Status) string {
	switch s {
	case models.StatusOpen:
		return constants.BadgeOpen
	case models.StatusClosed:
		return constants.BadgeClosed
	default:
		return ""
	}
}

// Search keeps locations whose name or address contains query, ignoring case.
// An empty query keeps everything.
func Search(locs []models.Location, query string) []models.Location {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Location, 0, len(locs))
	for _, loc := range locs {
		if matchesQuery(loc, q) {
			out = append(out, loc)
		}
	}
	return out
}

func matchesQuery(loc models.Location, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(loc.Name), q) ||
		strings.Contains(strings.ToLower(loc.Address), q)
}

// Filter narrows a location list. Empty fields do not constrain.
type Filter struct {
	Query  string
	County string
	State  string
	Type   string
	// OpenNow keeps only locations that are definitely open. Indeterminate
	// schedules never match.
	OpenNow bool
	// IncludeInactive also keeps locations marked inactive.
	IncludeInactive bool
	// Memo, when set, caches schedule parsing across calls.
	Memo *schedule.Memo
}

// Apply evaluates every location once at the given moment and returns the
// ones that pass the filter, in their original order.
func (f Filter) Apply(locs []models.Location, at schedule.Moment) []Result {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Result, 0, len(locs))
	for _, loc := range locs {
		if !f.IncludeInactive && !loc.IsActive() {
			continue
		}
		if !matchesQuery(loc, q) ||
			!matchesField(loc.County, f.County) ||
			!matchesField(loc.State, f.State) ||
			!matchesField(loc.Type, f.Type) {
			continue
		}

		status := EvaluateWith(f.Memo, loc, at)
		if f.OpenNow && status != models.StatusOpen {
			continue
		}
		out = append(out, Result{Location: loc, Status: status})
	}
	return out
}

func matchesField(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(strings.TrimSpace(value), want)
}

// Counties lists the distinct counties of the active locations, sorted.
func Counties(locs []models.Location) []string {
	return distinct(locs, func(l models.Location) string { return l.County })
}

// States lists the distinct states of the active locations, sorted.
func States(locs []models.Location) []string {
	return distinct(locs, func(l models.Location) string { return strings.ToUpper(l.State) })
}

// Types lists the distinct location types of the active locations, sorted.
func Types(locs []models.Location) []string {
	return distinct(locs, func(l models.Location) string { return l.Type })
}

// distinct keeps the first spelling seen of each case-insensitive value.
func distinct(locs []models.Location, field func(models.Location) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, loc := range locs {
		if !loc.IsActive() {
			continue
		}
		v := strings.TrimSpace(field(loc))
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}
