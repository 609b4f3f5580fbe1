package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/models"
)

const ordinalToken = `(?:first|1st|second|2nd|third|3rd|fourth|4th|last)`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	dashReplacer = strings.NewReplacer("–", "-", "—", "-")

	monthlyRe = regexp.MustCompile(`\b(` + ordinalToken + `(?:\s*(?:&|and|,|and the)\s*` + ordinalToken + `)*)\b[^\n]{0,20}\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	ordinalRe = regexp.MustCompile(ordinalToken)

	// H[:MM] [am|pm] [- H[:MM] [am|pm]]
	timeRangeRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?(?:\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?)?`)

	alwaysPhrases      = []string{"24/7", "24 hours", "always open"}
	appointmentPhrases = []string{"appointment", "call first", "contact"}
	monthlyPhrases     = []string{"first of each month", "monthly", "of each month"}
)

// dayTokens lists the accepted spellings of each weekday, Monday first.
var dayTokens = []struct {
	day    time.Weekday
	tokens []string
}{
	{time.Monday, []string{"monday", "mon"}},
	{time.Tuesday, []string{"tuesday", "tues", "tue"}},
	{time.Wednesday, []string{"wednesday", "wed"}},
	{time.Thursday, []string{"thursday", "thurs", "thu"}},
	{time.Friday, []string{"friday", "fri"}},
	{time.Saturday, []string{"saturday", "sat"}},
	{time.Sunday, []string{"sunday", "sun"}},
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Parse converts free-text opening hours into a ParsedSchedule. It never
// fails: text it cannot structure becomes Unparseable or Unknown. The empty
// string means no schedule was provided and yields nil.
func Parse(text string) models.ParsedSchedule {
	if text == "" {
		return nil
	}

	normalized := Normalize(text)

	if containsAny(normalized, alwaysPhrases) {
		return models.Always{}
	}
	if containsAny(normalized, appointmentPhrases) {
		return models.AppointmentOnly{}
	}
	if monthly, ok := parseMonthly(normalized); ok {
		return monthly
	}
	if containsAny(normalized, monthlyPhrases) {
		return models.MonthlyUnstructured{Original: text}
	}

	return parseWeekly(normalized, text)
}

// Normalize lower-cases text, drops periods ("a.m." -> "am"), turns en and em
// dashes into hyphens and collapses whitespace.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, ".", "")
	s = dashReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func parseMonthly(text string) (models.ParsedSchedule, bool) {
	m := monthlyRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	seen := make(map[models.Ordinal]bool)
	var ordinals []models.Ordinal
	for _, tok := range ordinalRe.FindAllString(m[1], -1) {
		o, ok := ordinalValue(tok)
		if !ok || seen[o] {
			continue
		}
		seen[o] = true
		ordinals = append(ordinals, o)
	}
	if len(ordinals) == 0 {
		return nil, false
	}

	// Ascending, with "last" after the positive ordinals.
	sort.Slice(ordinals, func(i, j int) bool {
		a, b := ordinals[i], ordinals[j]
		if a == models.OrdinalLast || b == models.OrdinalLast {
			return b == models.OrdinalLast && a != models.OrdinalLast
		}
		return a < b
	})

	return models.Monthly{Weekday: weekdayNames[m[2]], Ordinals: ordinals}, true
}

func ordinalValue(tok string) (models.Ordinal, bool) {
	switch tok {
	case "first", "1st":
		return models.OrdinalFirst, true
	case "second", "2nd":
		return models.OrdinalSecond, true
	case "third", "3rd":
		return models.OrdinalThird, true
	case "fourth", "4th":
		return models.OrdinalFourth, true
	case "last":
		return models.OrdinalLast, true
	}
	return 0, false
}

func parseWeekly(text, original string) models.ParsedSchedule {
	segments := strings.Split(text, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	hasDaySpecific := false
	totalDayMentions := 0
	segmentsWithTimes := 0

	for _, seg := range segments {
		segDays := len(daysIn(seg))
		totalDayMentions += segDays

		hasTime := timeRangeRe.MatchString(seg)
		if hasTime {
			segmentsWithTimes++
		}
		if segDays == 1 && hasTime {
			hasDaySpecific = true
		}
	}

	// A lone timed segment alongside several weekdays is one schedule shared
	// by all of them, even if that segment itself names a single day.
	if segmentsWithTimes == 1 && totalDayMentions > 1 {
		hasDaySpecific = false
	}

	dayTimes := make(map[time.Weekday][]models.TimeRange)
	if hasDaySpecific {
		for _, seg := range segments {
			ranges := timeRangesIn(seg)
			if len(ranges) == 0 {
				continue
			}
			for _, day := range daysIn(seg) {
				dayTimes[day] = ranges
			}
		}
	} else {
		days := daysIn(text)
		if len(days) == 0 {
			days = allDays()
		}
		ranges := timeRangesIn(text)
		for _, day := range days {
			dayTimes[day] = ranges
		}
	}

	if !hasAnyRange(dayTimes) {
		if n := len(daysIn(text)); n >= 1 && n <= 6 {
			return models.Unparseable{Original: original}
		}
		return models.Unknown{Original: original}
	}

	return models.Weekly{DayTimes: dayTimes}
}

// daysIn returns the weekdays mentioned anywhere in s, Monday first.
func daysIn(s string) []time.Weekday {
	var days []time.Weekday
	for _, dt := range dayTokens {
		if containsAny(s, dt.tokens) {
			days = append(days, dt.day)
		}
	}
	return days
}

func allDays() []time.Weekday {
	days := make([]time.Weekday, len(dayTokens))
	for i, dt := range dayTokens {
		days[i] = dt.day
	}
	return days
}

func timeRangesIn(s string) []models.TimeRange {
	var ranges []models.TimeRange
	for _, m := range timeRangeRe.FindAllStringSubmatch(s, -1) {
		start := clockMinutes(m[1], m[2], m[3])
		end := start + constants.DefaultVisitWindowMin
		if m[4] != "" {
			end = clockMinutes(m[4], m[5], m[6])
		}
		ranges = append(ranges, models.TimeRange{Start: start, End: end})
	}
	return ranges
}

// clockMinutes converts an hour, optional minutes and optional am/pm marker
// to minutes since midnight. Without a marker the hour is taken literally.
func clockMinutes(hourStr, minuteStr, period string) int {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}

	switch {
	case period == "pm" && hour != 12:
		hour += 12
	case period == "am" && hour == 12:
		hour = 0
	}

	return hour*60 + minute
}

func hasAnyRange(dayTimes map[time.Weekday][]models.TimeRange) bool {
	for _, ranges := range dayTimes {
		if len(ranges) > 0 {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
