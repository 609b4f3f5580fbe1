package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	pq "github.com/lib/pq"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/migration"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// Store keeps locations in the "locator" schema of a PostgreSQL database.
type Store struct {
	storage.SQLLocations
	connStr string
}

func New(connStr string) *Store {
	return &Store{
		SQLLocations: storage.SQLLocations{
			Mark:    func(i int) string { return "$" + strconv.Itoa(i) },
			OrderBy: "seq",
		},
		connStr: withSearchPath(connStr),
	}
}

// IsConnString reports whether data names a PostgreSQL database rather than
// a local file.
func IsConnString(data string) bool {
	return strings.HasPrefix(data, "postgres://") || strings.HasPrefix(data, "postgresql://")
}

// withSearchPath pins search_path to the locator schema unless the caller
// already chose one.
func withSearchPath(connStr string) string {
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if hasDSNParam(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// hasDSNParam reports whether a key=value DSN sets key, ignoring case.
func hasDSNParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasDSNParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a usable URI or DSN and carries
// no password. Passwords belong in the keyring, the environment or .pgpass.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasDSNParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(constants.MaxOpenConns)
	db.SetMaxIdleConns(constants.MaxIdleConns)
	db.SetConnMaxLifetime(constants.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: add sslmode=disable to the connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.DB = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Validate()
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	s.DB = nil
	return err
}

// GetConfigPath returns a fixed label so the connection string never
// reaches logs or output.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.DB, sub, migration.Postgres), nil
}
