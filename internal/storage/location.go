package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/feedingfoundation/locator/internal/models"
)

// NewID returns a fresh location ID.
func NewID() string {
	return uuid.NewString()
}

// Prepare fills in the defaults every store applies on insert.
func Prepare(loc models.Location) models.Location {
	if loc.ID == "" {
		loc.ID = NewID()
	}
	if loc.Active == nil {
		loc.SetActive(true)
	}
	return loc
}

// CheckDuplicate returns ErrDuplicate if loc matches one of existing.
func CheckDuplicate(existing []models.Location, loc models.Location) error {
	for _, e := range existing {
		if e.ID == loc.ID || e.SameAs(loc) {
			return fmt.Errorf("%w: %s (%s)", ErrDuplicate, loc.Name, loc.Address)
		}
	}
	return nil
}

// NotFound wraps ErrNotFound with the offending ID.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// BackfillIDs assigns IDs to locations that lack one and reports how many
// were filled. Hand-maintained locations.json files carry no IDs.
func BackfillIDs(locs []models.Location) ([]models.Location, int) {
	filled := 0
	out := make([]models.Location, len(locs))
	for i, loc := range locs {
		if loc.ID == "" {
			loc.ID = NewID()
			filled++
		}
		out[i] = loc
	}
	return out, filled
}
