package locations

import (
	"errors"
	"fmt"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/finder"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/storage"
)

type StatusCmd struct {
	ID string `arg:"" help:"Location ID."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Store.GetLocation(c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no location with ID %s", c.ID)
		}
		return err
	}

	status := finder.EvaluateWith(ctx.Memo, loc, ctx.Moment())

	fmt.Fprintln(stdout, loc.Name)
	fmt.Fprintf(stdout, "  Status:   %s\n", status.Code())
	if badge := finder.Badge(status); badge != "" {
		fmt.Fprintf(stdout, "  Badge:    %s\n", badge)
	}
	fmt.Fprintf(stdout, "  Schedule: %s\n", loc.Schedule)
	if parsed := schedule.Parse(loc.Schedule); parsed != nil {
		fmt.Fprintf(stdout, "  Parsed:   %s\n", parsed)
	}
	if !loc.IsActive() {
		fmt.Fprintln(stdout, "  (inactive, hidden from listings)")
	}
	return nil
}
