package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Location is a single food-assistance site as kept in locations.json.
type Location struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required,len=2,alpha"`
	Zip         string   `json:"zip" validate:"required,len=5,numeric"`
	County      string   `json:"county" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Schedule    string   `json:"schedule" validate:"required"`
	Website     string   `json:"website" validate:"required"`
	Phone       string   `json:"phone,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Lat         *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng         *float64 `json:"lng" validate:"omitempty,longitude"`
}

// IsActive reports whether the location should be shown. Records written
// before the field existed have no value and count as active.
func (l Location) IsActive() bool {
	return l.Active == nil || *l.Active
}

// SetActive sets the active flag.
func (l *Location) SetActive(active bool) {
	l.Active = &active
}

// HasCoordinates reports whether both lat and lng are set.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// SameAs reports whether other describes the same site: equal name and
// address, ignoring case.
func (l Location) SameAs(other Location) bool {
	return strings.EqualFold(strings.TrimSpace(l.Name), strings.TrimSpace(other.Name)) &&
		strings.EqualFold(strings.TrimSpace(l.Address), strings.TrimSpace(other.Address))
}

// Validate checks the fields a maintainer must supply when adding a location.
// Missing required fields are reported together.
func (l Location) Validate() error {
	err := validate.Struct(l)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", name, describeTag(fe)))
	}

	var msgs []string
	if len(missing) > 0 {
		msgs = append(msgs, "missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		msgs = append(msgs, "invalid fields: "+strings.Join(invalid, ", "))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "len":
		return "must be " + fe.Param() + " characters"
	case "alpha":
		return "letters only"
	case "numeric":
		return "digits only"
	case "latitude", "longitude":
		return "out of range"
	default:
		return fe.Tag()
	}
}
