package locations

import (
	"fmt"
	"io"
	"os"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/finder"
)

// Replaced in tests.
var stdout io.Writer = os.Stdout

type ListCmd struct {
	Search  string `short:"s" help:"Match name or address."`
	County  string `help:"Only locations in this county."`
	State   string `help:"Only locations in this state (two-letter code)."`
	Type    string `help:"Only locations of this type."`
	OpenNow bool   `help:"Only locations open right now." name:"open-now"`
	All     bool   `help:"Include inactive locations."`
	ShowIDs bool   `help:"Show location IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	locs, err := ctx.Store.GetAllLocations()
	if err != nil {
		return fmt.Errorf("failed to get locations: %w", err)
	}

	filter := finder.Filter{
		Query:           c.Search,
		County:          c.County,
		State:           c.State,
		Type:            c.Type,
		OpenNow:         c.OpenNow,
		IncludeInactive: c.All,
		Memo:            ctx.Memo,
	}
	results := filter.Apply(locs, ctx.Moment())
	if len(results) == 0 {
		fmt.Fprintln(stdout, "No locations found")
		return nil
	}

	fmt.Fprintf(stdout, "Locations (%d):\n", len(results))
	for _, r := range results {
		loc := r.Location

		badge := ""
		if b := finder.Badge(r.Status); b != "" {
			badge = fmt.Sprintf("[%s] ", b)
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", loc.ID)
		}
		inactive := ""
		if !loc.IsActive() {
			inactive = " (inactive)"
		}

		fmt.Fprintf(stdout, "  %s%s%s%s\n", badge, loc.Name, idStr, inactive)
		fmt.Fprintf(stdout, "      %s\n", loc.Address)
		if loc.Schedule != "" {
			fmt.Fprintf(stdout, "      %s\n", loc.Schedule)
		}
	}
	return nil
}
