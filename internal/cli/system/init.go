package system

import (
	"fmt"
	"os"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Back up and delete an existing store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force && !postgres.IsConnString(path) {
		if _, err := os.Stat(path); err == nil {
			if backupPath := ctx.PerformAutomaticBackup(); backupPath != "" {
				fmt.Fprintf(stdout, "Backed up existing store to: %s\n", backupPath)
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Fprintf(stdout, "Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Initialized locator storage at: %s\n", path)
	return nil
}
