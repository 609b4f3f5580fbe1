package backups

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/feedingfoundation/locator/internal/backup"
	"github.com/feedingfoundation/locator/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		fmt.Printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or path."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.GetBackupDir(), path)
	}

	// Release the store's handle on the file before it is replaced.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	previous, err := mgr.RestoreBackup(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Printf("✓ Restored %s\n", filepath.Base(path))
	if previous != "" {
		fmt.Printf("  Previous data saved as %s\n", filepath.Base(previous))
	}
	return nil
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr, err := backup.NewManager(ctx.Store.GetConfigPath())
	if errors.Is(err, backup.ErrUnsupported) {
		return nil, fmt.Errorf("%w; use pg_dump for PostgreSQL", err)
	}
	return mgr, err
}
