package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/feedingfoundation/locator/internal/logger"
)

// Dialect captures the SQL differences the runner has to care about.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// placeholder returns the bind marker for the n-th (1-based) parameter.
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Migration is one numbered schema change read from NNN_name.sql.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies embedded migrations and tracks the schema version in a
// single-row schema_version table.
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

func NewRunner(db *sql.DB, migrationFS fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: dialect}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, err
	}

	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the recorded schema version.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureVersionTable(); err != nil {
		return err
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if err := r.recordVersion(tx, version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *Runner) recordVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	insert := "INSERT INTO schema_version (version) VALUES (" + r.dialect.placeholder(1) + ")"
	if _, err := tx.Exec(insert, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// Migrations reads every NNN_name.sql file, sorted by version. Duplicate or
// non-positive versions are rejected.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid version in migration filename %s: %w", name, err)
		}
		if version < 1 {
			return nil, fmt.Errorf("invalid version in migration filename %s: must be at least 1", name)
		}

		content, err := fs.ReadFile(r.fs, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(rest, ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

// LatestVersion returns the highest available migration version.
func (r *Runner) LatestVersion() (int, error) {
	migrations, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}
	return migrations[len(migrations)-1].Version, nil
}

// Apply runs every pending migration, each in its own transaction together
// with the version bump, and returns how many were applied.
func (r *Runner) Apply() (int, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}
	migrations, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, newerSchemaError(current, latest)
	}

	start := time.Now()
	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		logger.Info("applying migration", "dialect", r.dialect, "version", m.Version, "name", m.Name)

		tx, err := r.db.Begin()
		if err != nil {
			return applied, fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if err := r.recordVersion(tx, m.Version); err != nil {
			_ = tx.Rollback()
			return applied, err
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		applied++
	}

	if applied > 0 {
		logger.Info("schema migrated", "dialect", r.dialect, "from", current, "to", latest, "applied", applied, "took", time.Since(start))
	}
	return applied, nil
}

// Validate fails when the database was migrated by a newer build.
func (r *Runner) Validate() error {
	current, err := r.CurrentVersion()
	if err != nil {
		return err
	}
	latest, err := r.LatestVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return newerSchemaError(current, latest)
	}
	return nil
}

func newerSchemaError(current, latest int) error {
	return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade locator", current, latest)
}
