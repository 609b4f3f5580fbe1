package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/feedingfoundation/locator/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored under the requested entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry names a secret the locator keeps in the OS keyring.
type Entry string

const (
	ConnectionString Entry = constants.DefaultKeyringUser
	GoogleAPIKey     Entry = constants.APIKeyKeyringUser
)

// Entries lists every entry the CLI can manage.
var Entries = []Entry{ConnectionString, GoogleAPIKey}

// ParseEntry maps a user-supplied name onto an Entry.
func ParseEntry(name string) (Entry, error) {
	switch name {
	case "db", "database", string(ConnectionString):
		return ConnectionString, nil
	case "google", "api-key", string(GoogleAPIKey):
		return GoogleAPIKey, nil
	}
	return "", fmt.Errorf("unknown keyring entry %q (want db or google)", name)
}

// Get reads a secret. ErrNotFound means the keyring works but holds nothing
// for e.
func Get(e Entry) (string, error) {
	v, err := keyring.Get(constants.AppName, string(e))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func Set(e Entry, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", e)
	}
	if err := keyring.Set(constants.AppName, string(e), secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", e, err)
	}
	return nil
}

func Delete(e Entry) error {
	if err := keyring.Delete(constants.AppName, string(e)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", e, err)
	}
	return nil
}

// GetConnectionString returns the stored database connection string.
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// GetAPIKey returns the stored Google Maps API key.
func GetAPIKey() (string, error) {
	return Get(GoogleAPIKey)
}

// IsAvailable makes a best-effort read to see whether the OS keyring answers.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
