package geocode

import (
	"context"
	"strings"

	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
)

// Outcome is what Backfill did with one location.
type Outcome int

const (
	OutcomeGeocoded Outcome = iota
	OutcomeHasCoordinates
	OutcomeNoAddress
	OutcomeNoGeocoder
	OutcomeFailed
)

// Summary counts Backfill outcomes.
type Summary struct {
	Geocoded       int
	HasCoordinates int
	NoAddress      int
	Skipped        int
	Failed         int
}

// Progress is called once per location, in order.
type Progress func(i int, loc models.Location, outcome Outcome, err error)

// Backfill sets lat/lng on every location that has an address but no
// coordinates. A failed lookup is logged and leaves the location unchanged.
// With a nil geocoder nothing is looked up. The input slice is not modified.
// On cancellation the locations processed so far are returned with ctx.Err().
func Backfill(ctx context.Context, g Geocoder, locs []models.Location, progress Progress) ([]models.Location, Summary, error) {
	out := make([]models.Location, len(locs))
	copy(out, locs)

	var sum Summary
	report := func(i int, outcome Outcome, err error) {
		if progress != nil {
			progress(i, out[i], outcome, err)
		}
	}

	for i := range out {
		loc := &out[i]
		switch {
		case loc.HasCoordinates():
			sum.HasCoordinates++
			report(i, OutcomeHasCoordinates, nil)
			continue
		case strings.TrimSpace(loc.Address) == "":
			sum.NoAddress++
			report(i, OutcomeNoAddress, nil)
			continue
		case g == nil:
			sum.Skipped++
			report(i, OutcomeNoGeocoder, nil)
			continue
		}

		if err := ctx.Err(); err != nil {
			return out, sum, err
		}

		res, err := g.Geocode(ctx, loc.Address)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, sum, ctxErr
			}
			logger.Warn("geocode failed", "name", loc.Name, "address", loc.Address, "error", err)
			sum.Failed++
			report(i, OutcomeFailed, err)
			continue
		}

		lat, lng := res.Lat, res.Lng
		loc.Lat, loc.Lng = &lat, &lng
		sum.Geocoded++
		report(i, OutcomeGeocoded, nil)
	}
	return out, sum, nil
}
