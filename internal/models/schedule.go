package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/feedingfoundation/locator/internal/constants"
)

// TimeRange is a span of minutes since midnight. Both ends are inclusive.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether minute lies within the range, inclusive of both ends.
func (r TimeRange) Contains(minute int) bool {
	return r.Start <= minute && minute <= r.End
}

// Inverted reports a range whose end precedes its start, e.g. "10pm - 2am".
// Crossing midnight is not supported, so an inverted range contains nothing.
func (r TimeRange) Inverted() bool {
	return r.End < r.Start
}

func (r TimeRange) String() string {
	return FormatMinutes(r.Start) + "-" + FormatMinutes(r.End)
}

// FormatMinutes renders minutes since midnight as HH:MM. Values past midnight
// are rendered as-is (e.g. 26:00) rather than wrapped.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Ordinal is a position among a month's occurrences of a weekday
type Ordinal int

const (
	OrdinalFirst  Ordinal = 1
	OrdinalSecond Ordinal = 2
	OrdinalThird  Ordinal = 3
	OrdinalFourth Ordinal = 4
	OrdinalLast   Ordinal = -1
)

func (o Ordinal) String() string {
	switch o {
	case OrdinalFirst:
		return "first"
	case OrdinalSecond:
		return "second"
	case OrdinalThird:
		return "third"
	case OrdinalFourth:
		return "fourth"
	case OrdinalLast:
		return "last"
	default:
		return fmt.Sprintf("ordinal(%d)", int(o))
	}
}

// ParsedSchedule is the structured form of a free-text schedule. The set of
// implementations is closed: Always, AppointmentOnly, Weekly, Monthly,
// MonthlyUnstructured, Unparseable and Unknown.
type ParsedSchedule interface {
	Kind() constants.ScheduleKind
	String() string
	isParsedSchedule()
}

// Always is open unconditionally.
type Always struct{}

// AppointmentOnly cannot be decided from the clock alone.
type AppointmentOnly struct{}

// Weekly maps each weekday to its open ranges. A weekday that is absent, or
// mapped to an empty slice, is closed all day.
type Weekly struct {
	DayTimes map[time.Weekday][]TimeRange
}

// Monthly is open all day on the listed occurrences of Weekday in a month.
type Monthly struct {
	Weekday  time.Weekday
	Ordinals []Ordinal
}

// MonthlyUnstructured has a monthly cadence with no recoverable weekday.
type MonthlyUnstructured struct {
	Original string
}

// Unparseable names some weekdays but yields no usable times.
type Unparseable struct {
	Original string
}

// Unknown has no recognizable structure.
type Unknown struct {
	Original string
}

func (Always) Kind() constants.ScheduleKind              { return constants.ScheduleAlways }
func (AppointmentOnly) Kind() constants.ScheduleKind     { return constants.ScheduleAppointment }
func (Weekly) Kind() constants.ScheduleKind              { return constants.ScheduleWeekly }
func (Monthly) Kind() constants.ScheduleKind             { return constants.ScheduleMonthly }
func (MonthlyUnstructured) Kind() constants.ScheduleKind { return constants.ScheduleMonthlyUnstructured }
func (Unparseable) Kind() constants.ScheduleKind         { return constants.ScheduleUnparseable }
func (Unknown) Kind() constants.ScheduleKind             { return constants.ScheduleUnknown }

func (Always) isParsedSchedule()              {}
func (AppointmentOnly) isParsedSchedule()     {}
func (Weekly) isParsedSchedule()              {}
func (Monthly) isParsedSchedule()             {}
func (MonthlyUnstructured) isParsedSchedule() {}
func (Unparseable) isParsedSchedule()         {}
func (Unknown) isParsedSchedule()             {}

func (Always) String() string          { return "always open" }
func (AppointmentOnly) String() string { return "by appointment" }

func (w Weekly) String() string {
	var parts []string
	for _, day := range w.Days() {
		ranges := w.DayTimes[day]
		if len(ranges) == 0 {
			continue
		}
		spans := make([]string, len(ranges))
		for i, r := range ranges {
			spans[i] = r.String()
		}
		parts = append(parts, fmt.Sprintf("%s %s", day.String()[:3], strings.Join(spans, ", ")))
	}
	if len(parts) == 0 {
		return "weekly: closed"
	}
	return "weekly: " + strings.Join(parts, "; ")
}

func (m Monthly) String() string {
	names := make([]string, len(m.Ordinals))
	for i, o := range m.Ordinals {
		names[i] = o.String()
	}
	return fmt.Sprintf("monthly: %s %s", strings.Join(names, " & "), m.Weekday)
}

func (m MonthlyUnstructured) String() string { return "monthly: " + m.Original }
func (u Unparseable) String() string         { return "unparseable: " + u.Original }
func (u Unknown) String() string             { return "unknown: " + u.Original }

// Days returns the weekdays that have an entry, Sunday first.
func (w Weekly) Days() []time.Weekday {
	days := make([]time.Weekday, 0, len(w.DayTimes))
	for day := range w.DayTimes {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// InvertedRanges returns every range that crosses midnight and therefore can
// never match.
func (w Weekly) InvertedRanges() []TimeRange {
	var out []TimeRange
	for _, day := range w.Days() {
		for _, r := range w.DayTimes[day] {
			if r.Inverted() {
				out = append(out, r)
			}
		}
	}
	return out
}

// OriginalText returns the raw schedule text carried by the variants that keep
// it, and "" for the others.
func OriginalText(s ParsedSchedule) string {
	switch v := s.(type) {
	case MonthlyUnstructured:
		return v.Original
	case Unparseable:
		return v.Original
	case Unknown:
		return v.Original
	default:
		return ""
	}
}
