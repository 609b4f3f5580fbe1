package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/feedingfoundation/locator/internal/logger"
)

// BestEffort asks Nominatim first. A missing city is looked up by reverse
// geocoding the coordinates, and any component still missing is taken from
// Google when a key is configured. Nominatim values win when both answer.
type BestEffort struct {
	nominatim *Nominatim
	google    Geocoder
}

// NewBestEffort combines the providers. google may be nil.
func NewBestEffort(nominatim *Nominatim, google *Google) *BestEffort {
	b := &BestEffort{nominatim: nominatim}
	if google != nil {
		b.google = google
	}
	return b
}

func (b *BestEffort) Geocode(ctx context.Context, addr string) (Result, error) {
	res, err := b.nominatim.Geocode(ctx, addr)
	found := err == nil
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		logger.Debug("nominatim lookup failed", "address", addr, "error", err)
	}

	if found && res.City == "" {
		rev, revErr := b.nominatim.Reverse(ctx, res.Lat, res.Lng)
		if revErr == nil {
			res = res.fill(rev)
		} else {
			logger.Debug("nominatim reverse lookup failed", "address", addr, "error", revErr)
		}
	}

	if b.google != nil && (!found || !res.Complete()) {
		g, gErr := b.google.Geocode(ctx, addr)
		switch {
		case gErr != nil:
			logger.Debug("google lookup failed", "address", addr, "error", gErr)
			if !found {
				err = errors.Join(err, gErr)
			}
		case found:
			res = res.fill(g)
		default:
			res, found = g, true
		}
	}

	if !found {
		return Result{}, fmt.Errorf("all geocoders failed: %w", err)
	}
	return res, nil
}
