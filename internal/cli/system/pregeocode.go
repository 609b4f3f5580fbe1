package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/config"
	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/geocode"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/storage"
	"github.com/feedingfoundation/locator/internal/storage/postgres"
)

type PregeocodeCmd struct {
	Write        bool   `help:"Replace the store contents with the geocoded locations."`
	UseNominatim bool   `help:"Query OpenStreetMap Nominatim first, falling back to Google." name:"use-nominatim"`
	Output       string `help:"Where to write the geocoded copy. Defaults to locations.pregeo.json next to the store." type:"path"`
}

func (cmd *PregeocodeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd.run(sigCtx, ctx, geocoderFor(ctx.Env, cmd.UseNominatim))
}

// geocoderFor returns nil when no geocoding service can be used.
func geocoderFor(env config.Env, useNominatim bool) geocode.Geocoder {
	key, source := env.APIKey()
	var google *geocode.Google
	if key != "" {
		logger.Debug("using Google geocoder", "key_source", source)
		google = geocode.NewGoogle(key)
	}

	if useNominatim {
		return geocode.NewBestEffort(geocode.NewNominatim(env.NominatimUserAgent), google)
	}
	if google != nil {
		return google
	}
	return nil
}

func (cmd *PregeocodeCmd) run(ctx context.Context, appCtx *cli.Context, g geocode.Geocoder) error {
	locs, err := appCtx.Store.GetAllLocations()
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}

	if g == nil {
		logger.Warn("no geocoder available, coordinates will not be looked up",
			"hint", fmt.Sprintf("set %s or pass --use-nominatim", constants.EnvGoogleAPIKey))
		fmt.Fprintf(stdout, "⚠ No %s and no --use-nominatim: skipping geocoding\n", constants.EnvGoogleAPIKey)
	}

	progress := func(i int, loc models.Location, outcome geocode.Outcome, err error) {
		switch outcome {
		case geocode.OutcomeGeocoded:
			fmt.Fprintf(stdout, "  [%d/%d] ✓ %s\n", i+1, len(locs), loc.Name)
		case geocode.OutcomeFailed:
			fmt.Fprintf(stdout, "  [%d/%d] ✗ %s: %v\n", i+1, len(locs), loc.Name, err)
		}
	}

	out, summary, runErr := geocode.Backfill(ctx, g, locs, progress)

	outPath := cmd.outputPath(appCtx.Store.GetConfigPath())
	if err := storage.WriteDocument(outPath, storage.Document{Locations: out}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nGeocoded %d, already had coordinates %d, no address %d, skipped %d, failed %d\n",
		summary.Geocoded, summary.HasCoordinates, summary.NoAddress, summary.Skipped, summary.Failed)
	fmt.Fprintf(stdout, "Wrote %s\n", outPath)

	if runErr != nil {
		return fmt.Errorf("geocoding interrupted: %w", runErr)
	}

	if cmd.Write && summary.Geocoded > 0 {
		appCtx.PerformAutomaticBackup()
		if err := appCtx.Store.ReplaceAll(out); err != nil {
			return fmt.Errorf("failed to update store: %w", err)
		}
		fmt.Fprintln(stdout, "✓ Store updated")
	}
	return nil
}

func (cmd *PregeocodeCmd) outputPath(storePath string) string {
	if cmd.Output != "" {
		return cmd.Output
	}
	if postgres.IsConnString(storePath) {
		return constants.PregeoFileName
	}
	return filepath.Join(filepath.Dir(storePath), constants.PregeoFileName)
}
