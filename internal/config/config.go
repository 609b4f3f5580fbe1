package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/keyring"
	"github.com/feedingfoundation/locator/internal/logger"
)

// Source says where a resolved setting came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
	SourceNone    Source = "none"
)

// Env holds the settings read from the environment.
type Env struct {
	GoogleAPIKey       string
	Timezone           string
	DBConnection       string
	NominatimUserAgent string
}

// LoadEnv reads an optional .env file (plus any extra files given) and then
// the process environment. Variables already set in the environment win.
func LoadEnv(files ...string) Env {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read env file", "error", err)
	}

	return Env{
		GoogleAPIKey:       strings.TrimSpace(os.Getenv(constants.EnvGoogleAPIKey)),
		Timezone:           getEnv(constants.EnvTimezone, constants.DefaultTimezone),
		DBConnection:       strings.TrimSpace(os.Getenv(constants.EnvDBConnection)),
		NominatimUserAgent: getEnv(constants.EnvNominatimUserAgent, constants.DefaultNominatimUA),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// APIKey returns the Google Maps key from the environment, falling back to
// the keyring. An empty key with SourceNone means geocoding through Google
// is unavailable.
func (e Env) APIKey() (string, Source) {
	if e.GoogleAPIKey != "" {
		return e.GoogleAPIKey, SourceEnv
	}
	key, err := keyring.GetAPIKey()
	if err == nil && key != "" {
		return key, SourceKeyring
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("keyring lookup failed", "entry", keyring.GoogleAPIKey, "error", err)
	}
	return "", SourceNone
}

// DataLocation picks the store to open: the --data flag when given, then
// LOCATOR_DB_CONNECTION, then a connection string saved in the keyring, and
// finally the default locations.json.
func (e Env) DataLocation(flag string) (string, Source) {
	if flag != "" {
		return flag, SourceFlag
	}
	if e.DBConnection != "" {
		return e.DBConnection, SourceEnv
	}
	if conn, err := keyring.GetConnectionString(); err == nil && conn != "" {
		return conn, SourceKeyring
	}
	return constants.DefaultDataPath, SourceDefault
}

// TimezoneOr returns flag when set, else the environment's timezone.
func (e Env) TimezoneOr(flag string) string {
	if flag != "" {
		return flag
	}
	return e.Timezone
}
