package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/feedingfoundation/locator/internal/migration"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/migrations"
)

// Store keeps locations in a local SQLite file.
type Store struct {
	storage.SQLLocations
	path string
}

func NewStore(path string) *Store {
	return &Store{
		SQLLocations: storage.SQLLocations{
			Mark:    func(int) string { return "?" },
			OrderBy: "rowid",
		},
		path: path,
	}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
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
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'locator init' first")
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

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	s.DB = db
	return nil
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	s.DB = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB, sub, migration.SQLite), nil
}
