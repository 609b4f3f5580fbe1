package geocode

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/feedingfoundation/locator/internal/address"
	"github.com/feedingfoundation/locator/internal/constants"
)

// Component types that name the populated place, in order of preference.
var googleCityTypes = []string{"locality", "postal_town", "sublocality", "neighborhood", "administrative_area_level_3"}

// Google is a client for the Google Maps Geocoding API.
type Google struct {
	apiKey string
	*client
}

// NewGoogle creates a Google client. Requests are spaced by
// constants.GoogleRequestInterval unless overridden.
func NewGoogle(apiKey string, opts ...Option) *Google {
	return &Google{
		apiKey: apiKey,
		client: newClient("google", constants.GoogleGeocodeURL, constants.GoogleRequestInterval, opts),
	}
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []googleComponent `json:"address_components"`
	} `json:"results"`
}

type googleComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

func (g *Google) Geocode(ctx context.Context, addr string) (Result, error) {
	q := url.Values{}
	q.Set("address", addr)
	q.Set("key", g.apiKey)

	var resp googleResponse
	if err := g.getJSON(ctx, "", q, &resp); err != nil {
		return Result{}, err
	}

	switch {
	case resp.Status == "ZERO_RESULTS":
		return Result{}, ErrNoResult
	case resp.Status != "OK":
		return Result{}, fmt.Errorf("google: geocode failed: %s %s", resp.Status, resp.ErrorMessage)
	case len(resp.Results) == 0:
		return Result{}, ErrNoResult
	}

	first := resp.Results[0]
	res := Result{
		Lat: first.Geometry.Location.Lat,
		Lng: first.Geometry.Location.Lng,
	}
	for _, c := range first.AddressComponents {
		switch {
		case res.City == "" && hasAnyType(c, googleCityTypes):
			res.City = c.LongName
		case res.State == "" && hasAnyType(c, []string{"administrative_area_level_1"}):
			res.State = address.NormalizeStateAbbr(c.ShortName)
		case res.County == "" && hasAnyType(c, []string{"administrative_area_level_2"}):
			res.County = address.NormalizeCounty(c.LongName)
		case res.Zip == "" && hasAnyType(c, []string{"postal_code"}):
			res.Zip = c.LongName
		}
	}
	return res, nil
}

func hasAnyType(c googleComponent, types []string) bool {
	for _, t := range types {
		if slices.Contains(c.Types, t) {
			return true
		}
	}
	return false
}
