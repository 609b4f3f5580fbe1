package models

import (
	"strings"

	"github.com/feedingfoundation/locator/internal/constants"
)

// ScheduleView is the serializable form of a ParsedSchedule.
type ScheduleView struct {
	Kind     constants.ScheduleKind `json:"kind"`
	DayTimes map[string][]TimeRange `json:"day_times,omitempty"`
	Weekday  string                 `json:"weekday,omitempty"`
	Ordinals []int                  `json:"ordinals,omitempty"`
	Original string                 `json:"original,omitempty"`
	Summary  string                 `json:"summary"`
}

// NewScheduleView converts s for output. A nil schedule yields nil.
func NewScheduleView(s ParsedSchedule) *ScheduleView {
	if s == nil {
		return nil
	}

	view := &ScheduleView{
		Kind:     s.Kind(),
		Original: OriginalText(s),
		Summary:  s.String(),
	}

	switch v := s.(type) {
	case Weekly:
		view.DayTimes = make(map[string][]TimeRange, len(v.DayTimes))
		for _, day := range v.Days() {
			view.DayTimes[strings.ToLower(day.String())] = v.DayTimes[day]
		}
	case Monthly:
		view.Weekday = strings.ToLower(v.Weekday.String())
		for _, o := range v.Ordinals {
			view.Ordinals = append(view.Ordinals, int(o))
		}
	}

	return view
}
