package system

import (
	"fmt"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Delete duplicate locations, keeping the first of each group."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	locs, err := ctx.Store.GetAllLocations()
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}

	fmt.Fprintf(stdout, "Validating %d locations...\n\n", len(locs))
	result := validation.New().ValidateLocations(locs)
	fmt.Fprintln(stdout, result.FormatReport())

	if !cmd.Fix || result.Count(validation.ConflictDuplicateLocation) == 0 {
		return nil
	}

	ctx.PerformAutomaticBackup()
	actions := validation.AutoFixDuplicates(result.Conflicts, ctx.Store.DeleteLocation)
	fmt.Fprintln(stdout, "Fixes applied:")
	for _, a := range actions {
		fmt.Fprintf(stdout, "- %s\n", a.Action)
	}
	return nil
}
