package locations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/feedingfoundation/locator/internal/address"
	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/internal/tui"
)

type AddCmd struct {
	JSON string `arg:"" optional:"" help:"Location as a JSON object."`
	Form bool   `help:"Fill in the location interactively."`
}

func (c *AddCmd) Validate() error {
	if c.Form == (strings.TrimSpace(c.JSON) != "") {
		return errors.New("pass either a JSON location or --form")
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	var loc models.Location
	if c.Form {
		fm := &tui.LocationFormModel{}
		if err := tui.NewLocationForm(fm).Run(); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		loc = fm.ToLocation()
	} else {
		var err error
		if loc, err = decodeLocation(c.JSON); err != nil {
			return err
		}
	}

	saved, err := addLocation(ctx.Store, loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Added %s (ID: %s)\n", saved.Name, saved.ID)
	if status := schedulePreview(saved.Schedule); status != "" {
		fmt.Fprintf(stdout, "  Schedule understood as: %s\n", status)
	}
	return nil
}

// decodeLocation reads a JSON location and fills blank city, state, zip and
// county from the street address.
func decodeLocation(raw string) (models.Location, error) {
	var loc models.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return models.Location{}, fmt.Errorf("invalid location JSON: %w", err)
	}
	return fillFromAddress(loc), nil
}

func fillFromAddress(loc models.Location) models.Location {
	parsed := address.ParseAddress(loc.Address)
	if strings.TrimSpace(loc.City) == "" {
		loc.City = parsed.City
	}
	if strings.TrimSpace(loc.State) == "" {
		loc.State = parsed.State
	} else {
		loc.State = address.NormalizeStateAbbr(loc.State)
	}
	if strings.TrimSpace(loc.Zip) == "" {
		loc.Zip = parsed.Zip
	}
	if strings.TrimSpace(loc.County) == "" {
		loc.County = parsed.County
	} else {
		loc.County = address.TitleCase(address.NormalizeCounty(loc.County))
	}
	return loc
}

func addLocation(store storage.Provider, loc models.Location) (models.Location, error) {
	if err := loc.Validate(); err != nil {
		return models.Location{}, err
	}
	saved, err := store.AddLocation(loc)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.Location{}, fmt.Errorf("%q at %s is already listed", loc.Name, loc.Address)
		}
		return models.Location{}, fmt.Errorf("failed to add location: %w", err)
	}
	logger.Info("location added", "id", saved.ID, "name", saved.Name)
	return saved, nil
}
