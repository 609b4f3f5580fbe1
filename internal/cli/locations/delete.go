package locations

import (
	"errors"
	"fmt"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/storage"
)

type DeleteCmd struct {
	ID         string `arg:"" help:"Location ID."`
	Deactivate bool   `help:"Mark the location inactive instead of removing it."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Store.GetLocation(c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no location with ID %s", c.ID)
		}
		return err
	}

	if c.Deactivate {
		loc.SetActive(false)
		if err := ctx.Store.UpdateLocation(loc); err != nil {
			return fmt.Errorf("failed to deactivate location: %w", err)
		}
		logger.Info("location deactivated", "id", loc.ID, "name", loc.Name)
		fmt.Fprintf(stdout, "✓ Deactivated %s\n", loc.Name)
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteLocation(c.ID); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	logger.Info("location deleted", "id", loc.ID, "name", loc.Name)
	fmt.Fprintf(stdout, "✓ Deleted %s\n", loc.Name)
	return nil
}
