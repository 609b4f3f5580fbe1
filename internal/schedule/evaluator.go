package schedule

import (
	"time"

	"github.com/feedingfoundation/locator/internal/models"
)

// Moment is the point in time a schedule is evaluated at, already resolved to
// the local calendar. Weekday must be in Sunday..Saturday, MinuteOfDay in
// [0, 1440) and DayOfMonth in [1, DaysInMonth].
type Moment struct {
	Weekday     time.Weekday
	MinuteOfDay int
	DayOfMonth  int
	DaysInMonth int
}

// MomentAt resolves t in its own location. Callers evaluating many schedules
// should build one Moment and reuse it so a single pass never straddles a
// minute or day boundary.
func MomentAt(t time.Time) Moment {
	return Moment{
		Weekday:     t.Weekday(),
		MinuteOfDay: t.Hour()*60 + t.Minute(),
		DayOfMonth:  t.Day(),
		DaysInMonth: DaysInMonth(t.Year(), t.Month()),
	}
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsOpenNow decides whether s is open at the given moment. Schedules that
// cannot be decided from the clock, and a nil schedule, are indeterminate.
func IsOpenNow(s models.ParsedSchedule, at Moment) models.Status {
	switch v := s.(type) {
	case models.Always:
		return models.StatusOpen
	case models.Weekly:
		return evalWeekly(v, at)
	case models.Monthly:
		return evalMonthly(v, at)
	default:
		// nil, AppointmentOnly, MonthlyUnstructured, Unparseable, Unknown
		return models.StatusIndeterminate
	}
}

func evalWeekly(w models.Weekly, at Moment) models.Status {
	ranges := w.DayTimes[at.Weekday]
	if len(ranges) == 0 {
		return models.StatusClosed
	}
	for _, r := range ranges {
		if r.Contains(at.MinuteOfDay) {
			return models.StatusOpen
		}
	}
	return models.StatusClosed
}

func evalMonthly(m models.Monthly, at Moment) models.Status {
	if at.Weekday != m.Weekday {
		return models.StatusClosed
	}
	for _, o := range m.Ordinals {
		if day, ok := OccurrenceDay(at, m.Weekday, o); ok && day == at.DayOfMonth {
			return models.StatusOpen
		}
	}
	return models.StatusClosed
}

// OccurrenceDay returns the day of the month of the given occurrence of
// weekday in the month containing at. OrdinalLast picks the final occurrence.
// It reports false when the month has fewer occurrences than requested.
func OccurrenceDay(at Moment, weekday time.Weekday, o models.Ordinal) (int, bool) {
	if o == models.OrdinalLast {
		for day := at.DaysInMonth; day >= 1; day-- {
			if weekdayOf(at, day) == weekday {
				return day, true
			}
		}
		return 0, false
	}

	if o < 1 {
		return 0, false
	}
	count := 0
	for day := 1; day <= at.DaysInMonth; day++ {
		if weekdayOf(at, day) != weekday {
			continue
		}
		count++
		if count == int(o) {
			return day, true
		}
	}
	return 0, false
}

// weekdayOf derives the weekday of another day in the same month from the
// moment's own day and weekday.
func weekdayOf(at Moment, day int) time.Weekday {
	offset := (day - at.DayOfMonth) % 7
	return time.Weekday((int(at.Weekday) + offset + 7) % 7)
}
