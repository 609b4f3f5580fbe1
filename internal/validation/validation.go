package validation

import (
	"fmt"
	"strings"

	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateLocation    ConflictType = "duplicate_location"
	ConflictDuplicateID          ConflictType = "duplicate_id"
	ConflictInvalidFields        ConflictType = "invalid_fields"
	ConflictInvertedRange        ConflictType = "inverted_range"
	ConflictUnstructuredSchedule ConflictType = "unstructured_schedule"
)

// Conflict is one problem found in the location data.
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // location names involved
	LocationIDs []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction records a change made by AutoFixDuplicates.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks location data before it is published.
type Validator struct {
	memo *schedule.Memo
}

func New() *Validator {
	return &Validator{memo: schedule.NewMemo()}
}

// ValidateLocations checks every location's fields and schedule, and looks
// for duplicates among the active ones.
func (v *Validator) ValidateLocations(locs []models.Location) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, loc := range locs {
		if err := loc.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidFields,
				Description: fmt.Sprintf("%q: %v", displayName(loc), err),
				Items:       []string{loc.Name},
				LocationIDs: []string{loc.ID},
			})
		}
		result.Conflicts = append(result.Conflicts, v.scheduleConflicts(loc)...)
	}

	result.Conflicts = append(result.Conflicts, duplicateIDs(locs)...)
	result.Conflicts = append(result.Conflicts, duplicateLocations(locs)...)
	return result
}

func (v *Validator) scheduleConflicts(loc models.Location) []Conflict {
	if loc.Schedule == "" {
		return nil
	}

	var conflicts []Conflict
	switch s := v.memo.Parse(loc.Schedule).(type) {
	case models.Weekly:
		for _, r := range s.InvertedRanges() {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvertedRange,
				Description: fmt.Sprintf("%q: range %s crosses midnight and never matches", displayName(loc), r),
				Items:       []string{loc.Name},
				LocationIDs: []string{loc.ID},
			})
		}
	case models.Unparseable, models.Unknown, models.MonthlyUnstructured:
		conflicts = append(conflicts, Conflict{
			Type:        ConflictUnstructuredSchedule,
			Description: fmt.Sprintf("%q: schedule %q has no usable hours (%s)", displayName(loc), loc.Schedule, s.Kind()),
			Items:       []string{loc.Name},
			LocationIDs: []string{loc.ID},
		})
	}
	return conflicts
}

func duplicateIDs(locs []models.Location) []Conflict {
	byID := make(map[string][]models.Location)
	var order []string
	for _, loc := range locs {
		if loc.ID == "" {
			continue
		}
		if _, ok := byID[loc.ID]; !ok {
			order = append(order, loc.ID)
		}
		byID[loc.ID] = append(byID[loc.ID], loc)
	}

	var conflicts []Conflict
	for _, id := range order {
		group := byID[id]
		if len(group) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("ID %s is used by %d locations", id, len(group)),
			Items:       names(group),
			LocationIDs: []string{id},
		})
	}
	return conflicts
}

// duplicateLocations groups active locations with the same name and address.
// Inactive records are kept for history and never count as duplicates.
func duplicateLocations(locs []models.Location) []Conflict {
	var groups [][]models.Location
	for _, loc := range locs {
		if !loc.IsActive() {
			continue
		}
		placed := false
		for i := range groups {
			if groups[i][0].SameAs(loc) {
				groups[i] = append(groups[i], loc)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []models.Location{loc})
		}
	}

	var conflicts []Conflict
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		ids := make([]string, len(group))
		for i, loc := range group {
			ids[i] = loc.ID
		}
		conflicts = append(conflicts, Conflict{
			Type:        ConflictDuplicateLocation,
			Description: fmt.Sprintf("%q at %q appears %d times", group[0].Name, group[0].Address, len(group)),
			Items:       names(group),
			LocationIDs: ids,
		})
	}
	return conflicts
}

// AutoFixDuplicates keeps the first location of each duplicate group and
// removes the rest with deleteFunc.
func AutoFixDuplicates(conflicts []Conflict, deleteFunc func(id string) error) []FixAction {
	var actions []FixAction
	for _, c := range conflicts {
		if c.Type != ConflictDuplicateLocation || len(c.LocationIDs) < 2 {
			continue
		}
		for _, id := range c.LocationIDs[1:] {
			if id == "" {
				continue
			}
			action := fmt.Sprintf("Deleted duplicate %q (ID: %s)", c.Items[0], id)
			if err := deleteFunc(id); err != nil {
				action = fmt.Sprintf("Failed to delete duplicate %q (ID: %s): %v", c.Items[0], id, err)
			}
			actions = append(actions, FixAction{Action: action, SourceConflict: c})
		}
	}
	return actions
}

func displayName(loc models.Location) string {
	if loc.Name != "" {
		return loc.Name
	}
	if loc.ID != "" {
		return loc.ID
	}
	return "(unnamed)"
}

func names(locs []models.Location) []string {
	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = loc.Name
	}
	return out
}
