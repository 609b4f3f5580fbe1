// Package backup keeps timestamped copies of the local location store next to
// it, so a bulk rewrite such as "pregeocode --write" can be undone.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/feedingfoundation/locator/internal/logger"
)

const (
	// MaxBackups is the maximum number of backups to keep
	MaxBackups = 14
	// BackupDirName is the directory, beside the store, that holds backups
	BackupDirName = "backups"

	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrUnsupported is returned for stores that are not local files.
var ErrUnsupported = errors.New("backups are only supported for JSON and SQLite stores")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores backups of one store file.
type Manager struct {
	dataPath  string
	backupDir string
	prefix    string
	suffix    string
	now       func() time.Time
}

// NewManager returns a manager for the store at dataPath. Backups of
// "locations.json" are named "locations-YYYYMMDD-HHMM.json".
func NewManager(dataPath string) (*Manager, error) {
	if strings.Contains(dataPath, "://") {
		return nil, ErrUnsupported
	}
	ext := filepath.Ext(dataPath)
	return &Manager{
		dataPath:  dataPath,
		backupDir: filepath.Join(filepath.Dir(dataPath), BackupDirName),
		prefix:    strings.TrimSuffix(filepath.Base(dataPath), ext) + "-",
		suffix:    ext,
		now:       time.Now,
	}, nil
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) isSQLite() bool {
	return m.suffix == ".db"
}

// CreateBackup copies the store into the backup directory and prunes old
// backups beyond MaxBackups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return "", fmt.Errorf("store does not exist: %s", m.dataPath)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if m.isSQLite() {
		err = vacuumInto(m.dataPath, backupPath)
	} else {
		err = copyFile(m.dataPath, backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}
	logger.Info("created backup", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

// nextBackupPath uses minute precision, falling back to seconds and then a
// counter when that name is taken.
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	candidates := []string{now.Format(minuteLayout), now.Format(secondLayout)}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", now.Format(secondLayout), i))
	}
	for _, stamp := range candidates {
		p := filepath.Join(m.backupDir, m.prefix+stamp+m.suffix)
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// ListBackups returns the backups of this store, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, m.prefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}
		ts, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, m.prefix), m.suffix))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseStamp accepts both layouts with an optional "-N" counter.
func parseStamp(s string) (time.Time, bool) {
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, false
		}
		s = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the store with backupPath. The current store is
// backed up first. The store must not be open.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if m.isSQLite() {
		if err := verifySQLite(backupPath); err != nil {
			return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
		}
	}

	var current string
	if _, err := os.Stat(m.dataPath); err == nil {
		current, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	tempPath := m.dataPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dataPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore store: %w", err)
	}
	return current, nil
}

// vacuumInto writes a consistent copy of a SQLite database, falling back to
// a file copy when VACUUM INTO is unavailable.
func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := verifyOpen(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(src, dst)
	}
	return nil
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return verifyOpen(db)
}

func verifyOpen(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
