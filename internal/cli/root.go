package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/feedingfoundation/locator/internal/backup"
	"github.com/feedingfoundation/locator/internal/config"
	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/internal/storage/postgres"
	"github.com/feedingfoundation/locator/internal/storage/sqlite"
)

type Context struct {
	Store    storage.Provider
	Env      config.Env
	Location *time.Location
	Memo     *schedule.Memo
	// Now defaults to time.Now.
	Now func() time.Time
}

// Moment resolves the current time in the configured timezone.
func (c *Context) Moment() schedule.Moment {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return schedule.MomentAt(now().In(loc))
}

// OpenStore picks the provider for data. Connection strings given on the
// command line must not carry a password; env and keyring values may.
func OpenStore(data string, source config.Source) (storage.Provider, error) {
	if postgres.IsConnString(data) {
		if source == config.SourceFlag {
			if err := postgres.ValidateConnString(data); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w; store it with 'locator keyring set db' or use %s or .pgpass instead", err, constants.EnvDBConnection)
				}
				return nil, err
			}
		}
		return postgres.New(data), nil
	}

	if strings.EqualFold(filepath.Ext(data), ".db") {
		return sqlite.NewStore(data), nil
	}
	return storage.NewJSONStore(data), nil
}

// PerformAutomaticBackup backs up the store before a destructive command.
// Failures are logged and do not stop the command.
func (c *Context) PerformAutomaticBackup() string {
	mgr, err := backup.NewManager(c.Store.GetConfigPath())
	if err != nil {
		if !errors.Is(err, backup.ErrUnsupported) {
			logger.Warn("automatic backup failed", "error", err)
		}
		return ""
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("automatic backup failed", "error", err)
		return ""
	}
	logger.Debug("automatic backup created", "path", path)
	return path
}
