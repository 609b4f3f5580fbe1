package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/feedingfoundation/locator/internal/address"
	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
)

// LocationFormModel holds the add-location form's raw input.
type LocationFormModel struct {
	Name        string
	Type        string
	Address     string
	City        string
	State       string
	Zip         string
	County      string
	Description string
	Schedule    string
	Website     string
	Phone       string
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewLocationForm builds the add-location form. City, state, zip and county
// may be left empty and are then filled from the address.
func NewLocationForm(fm *LocationFormModel) *huh.Form {
	if fm.Type == "" {
		fm.Type = constants.LocationTypes[0]
	}
	typeOptions := make([]huh.Option[string], len(constants.LocationTypes))
	for i, t := range constants.LocationTypes {
		typeOptions[i] = huh.NewOption(t, t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions...).
				Value(&fm.Type),
			huh.NewInput().
				Title("Address").
				Description("e.g. 12 Jackson St, Newnan, GA 30263").
				Value(&fm.Address).
				Validate(required("address")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("City").
				DescriptionFunc(func() string { return autofillHint(address.ParseAddress(fm.Address).City) }, &fm.Address).
				Value(&fm.City),
			huh.NewInput().
				Title("State").
				DescriptionFunc(func() string { return autofillHint(address.ParseAddress(fm.Address).State) }, &fm.Address).
				Value(&fm.State).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || address.IsValidStateAbbr(address.NormalizeStateAbbr(s)) {
						return nil
					}
					return fmt.Errorf("state must be a two-letter code or a state name")
				}),
			huh.NewInput().
				Title("Zip").
				DescriptionFunc(func() string { return autofillHint(address.ParseAddress(fm.Address).Zip) }, &fm.Address).
				Value(&fm.Zip).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || address.IsValidZip(s) {
						return nil
					}
					return fmt.Errorf("zip must be five digits")
				}),
			huh.NewInput().
				Title("County").
				DescriptionFunc(func() string { return autofillHint(address.ParseAddress(fm.Address).County) }, &fm.Address).
				Value(&fm.County),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Description").
				Value(&fm.Description).
				Validate(required("description")),
			huh.NewInput().
				Title("Schedule").
				DescriptionFunc(func() string { return schedulePreview(fm.Schedule) }, &fm.Schedule).
				Value(&fm.Schedule).
				Validate(required("schedule")),
			huh.NewInput().
				Title("Website").
				Value(&fm.Website).
				Validate(required("website")),
			huh.NewInput().
				Title("Phone").
				Description("Optional").
				Value(&fm.Phone),
		),
	).WithTheme(huh.ThemeDracula())
}

func autofillHint(v string) string {
	if v == "" {
		return "Not found in the address"
	}
	return "Leave empty to use " + v
}

func schedulePreview(text string) string {
	if strings.TrimSpace(text) == "" {
		return "e.g. Thursdays, 9 am - 12 pm"
	}
	return "Understood as " + schedule.Parse(text).String()
}

// ToLocation trims and normalizes the input, filling blank address parts
// from the street address. The location starts out active.
func (fm LocationFormModel) ToLocation() models.Location {
	parsed := address.ParseAddress(fm.Address)

	loc := models.Location{
		Name:        strings.TrimSpace(fm.Name),
		Type:        strings.TrimSpace(fm.Type),
		Address:     strings.TrimSpace(fm.Address),
		City:        firstNonEmpty(address.TitleCase(fm.City), parsed.City),
		Zip:         firstNonEmpty(strings.TrimSpace(fm.Zip), parsed.Zip),
		County:      firstNonEmpty(address.TitleCase(address.NormalizeCounty(fm.County)), parsed.County),
		Description: strings.TrimSpace(fm.Description),
		Schedule:    strings.TrimSpace(fm.Schedule),
		Website:     strings.TrimSpace(fm.Website),
		Phone:       strings.TrimSpace(fm.Phone),
	}
	if s := strings.TrimSpace(fm.State); s != "" {
		loc.State = address.NormalizeStateAbbr(s)
	} else {
		loc.State = parsed.State
	}
	loc.SetActive(true)
	return loc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
