package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/feedingfoundation/locator/internal/address"
	"github.com/feedingfoundation/locator/internal/constants"
)

// Nominatim is a client for the OpenStreetMap Nominatim API. The public
// instance allows one request per second and requires a User-Agent.
type Nominatim struct {
	*client
}

// NewNominatim creates a Nominatim client identified by userAgent.
func NewNominatim(userAgent string, opts ...Option) *Nominatim {
	opts = append([]Option{WithUserAgent(userAgent)}, opts...)
	return &Nominatim{
		client: newClient("nominatim", constants.NominatimBaseURL, constants.NominatimRequestInterval, opts),
	}
}

type nominatimPlace struct {
	Lat     string            `json:"lat"`
	Lon     string            `json:"lon"`
	Address map[string]string `json:"address"`
}

// Keys that name the populated place, in order of preference. County is
// deliberately absent.
var nominatimCityKeys = []string{
	"city", "town", "municipality", "village", "hamlet", "locality", "city_district", "suburb", "neighbourhood",
}

func (n *Nominatim) Geocode(ctx context.Context, addr string) (Result, error) {
	q := url.Values{}
	q.Set("q", addr)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")

	var places []nominatimPlace
	if err := n.getJSON(ctx, "/search", q, &places); err != nil {
		return Result{}, err
	}
	if len(places) == 0 {
		return Result{}, ErrNoResult
	}
	return places[0].result()
}

// Reverse looks up the address at the given coordinates.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (Result, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	var place nominatimPlace
	if err := n.getJSON(ctx, "/reverse", q, &place); err != nil {
		return Result{}, err
	}
	if place.Lat == "" && len(place.Address) == 0 {
		return Result{}, ErrNoResult
	}
	return place.result()
}

func (p nominatimPlace) result() (Result, error) {
	var res Result
	if p.Lat != "" || p.Lon != "" {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return Result{}, fmt.Errorf("nominatim: invalid latitude %q", p.Lat)
		}
		lng, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return Result{}, fmt.Errorf("nominatim: invalid longitude %q", p.Lon)
		}
		res.Lat, res.Lng = lat, lng
	}

	for _, key := range nominatimCityKeys {
		if v := p.Address[key]; v != "" {
			res.City = v
			break
		}
	}
	res.County = address.NormalizeCounty(p.Address["county"])
	res.Zip = p.Address["postcode"]

	// "ISO3166-2-lvl4" is "US-GA" for US states.
	if iso, ok := strings.CutPrefix(p.Address["ISO3166-2-lvl4"], "US-"); ok && len(iso) == 2 {
		res.State = iso
	} else if s := p.Address["state"]; s != "" {
		res.State = address.NormalizeStateAbbr(s)
	}
	return res, nil
}
