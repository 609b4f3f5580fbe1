package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/schedule"
)

// LoadLocation loads an IANA timezone. "Local" or empty selects the system
// zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// NowInTimezone returns the current time in the given timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// MomentInTimezone resolves the current moment for open-now evaluation.
func MomentInTimezone(timezone string) (schedule.Moment, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return schedule.Moment{}, err
	}
	return schedule.MomentAt(now), nil
}

func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
