package crimemap

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crime-map/internal/colorscale"
	"github.com/sells-group/crime-map/internal/config"
	"github.com/sells-group/crime-map/internal/dataset"
	"github.com/sells-group/crime-map/internal/fetcher"
	"github.com/sells-group/crime-map/internal/model"
	"github.com/sells-group/crime-map/internal/render"
)

// Sources maps the data configuration onto loader sources.
func Sources(cfg *config.Config) dataset.Sources {
	return dataset.Sources{
		Incidents:        cfg.Data.Incidents,
		Boundaries:       cfg.Data.Boundaries,
		Aggregates:       cfg.Data.Aggregates,
		DistrictProperty: cfg.Data.DistrictProperty,
		Charset:          cfg.Data.Charset,
		Sheet:            cfg.Data.Sheet,
		IncidentTable:    cfg.Data.Table,
		AggregateTable:   cfg.Data.AggregateTable,
		TempDir:          cfg.Data.TempDir,
		Fetcher:          remoteFetcher(cfg.Fetch),
	}
}

func remoteFetcher(cfg config.FetchConfig) fetcher.Fetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return fetcher.NewSchemeFetcher(
		fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.UserAgent,
			Timeout:    timeout,
			MaxRetries: cfg.MaxRetries,
		}),
		fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: timeout}),
	)
}

// RenderOptions maps the map configuration onto renderer options.
func RenderOptions(cfg config.MapConfig) render.Options {
	opts := render.DefaultOptions()
	opts.CenterLat = cfg.CenterLat
	opts.CenterLon = cfg.CenterLon
	opts.Zoom = cfg.Zoom
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.FillOpacity = cfg.FillOpacity
	opts.ClusterRadius = cfg.ClusterRadius
	if cfg.Title != "" {
		opts.Title = cfg.Title
	}
	return opts
}

// FromBase builds a service over already loaded data. The color scale spans
// zero to the largest aggregate crime level.
func FromBase(base *model.Base, cfg config.MapConfig) (*Service, error) {
	palettes, err := colorscale.Load(cfg.PaletteFile)
	if err != nil {
		return nil, eris.Wrap(err, "crimemap: load palettes")
	}
	name := cfg.Palette
	if name == "" {
		name = colorscale.DefaultPalette
	}
	scale, err := palettes.Scale(name, 0, base.MaxCrimeLevel)
	if err != nil {
		return nil, eris.Wrap(err, "crimemap: build color scale")
	}
	return New(base, render.New(base, scale, RenderOptions(cfg)), nil), nil
}

// Build loads every source named by cfg and returns a ready service.
func Build(ctx context.Context, cfg *config.Config) (*Service, error) {
	base, err := dataset.Load(ctx, Sources(cfg))
	if err != nil {
		return nil, err
	}
	return FromBase(base, cfg.Map)
}
