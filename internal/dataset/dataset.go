// Package dataset loads the incident table, the aggregate table and the
// district boundaries once at startup and builds the immutable model.Base.
package dataset

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/crime-map/internal/enrich"
	"github.com/sells-group/crime-map/internal/fetcher"
	"github.com/sells-group/crime-map/internal/model"
)

// Sources locates the three inputs. Each is a local path or an http(s) or
// ftp URL; the extension selects the format.
type Sources struct {
	Incidents  string
	Boundaries string
	Aggregates string

	// DistrictProperty is the boundary attribute holding the district name.
	DistrictProperty string
	// Charset is the encoding of CSV tables. Empty means UTF-8.
	Charset string
	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet string
	// IncidentTable and AggregateTable name the tables read from SQLite
	// sources.
	IncidentTable  string
	AggregateTable string
	// TempDir receives downloads and extracted archives.
	TempDir string

	// Fetcher downloads remote sources. Required only when a source is a URL.
	Fetcher fetcher.Fetcher
}

func (s Sources) withDefaults() Sources {
	if s.DistrictProperty == "" {
		s.DistrictProperty = "DISTRICT"
	}
	if s.IncidentTable == "" {
		s.IncidentTable = "incidents"
	}
	if s.AggregateTable == "" {
		s.AggregateTable = "crime_level"
	}
	return s
}

// Load reads all three sources concurrently, joins the aggregates onto the
// boundaries and returns the startup context. Any missing file, parse error or
// missing column aborts the whole load.
func Load(ctx context.Context, src Sources) (*model.Base, error) {
	src = src.withDefaults()
	log := zap.L().With(zap.String("component", "dataset"))
	start := time.Now()

	var (
		incidents  []model.Incident
		aggregates []model.Aggregate
		boundaries []model.District
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := fetcher.Localize(gctx, src.Fetcher, src.Incidents, src.TempDir)
		if err != nil {
			return eris.Wrap(err, "dataset: locate incidents")
		}
		rows, err := readTable(gctx, path, src, src.IncidentTable)
		if err != nil {
			return eris.Wrap(err, "dataset: read incidents")
		}
		incidents, err = ParseIncidents(rows)
		return err
	})
	g.Go(func() error {
		path, err := fetcher.Localize(gctx, src.Fetcher, src.Aggregates, src.TempDir)
		if err != nil {
			return eris.Wrap(err, "dataset: locate aggregates")
		}
		rows, err := readTable(gctx, path, src, src.AggregateTable)
		if err != nil {
			return eris.Wrap(err, "dataset: read aggregates")
		}
		aggregates, err = ParseAggregates(rows)
		return err
	})
	g.Go(func() error {
		path, err := fetcher.Localize(gctx, src.Fetcher, src.Boundaries, src.TempDir)
		if err != nil {
			return eris.Wrap(err, "dataset: locate boundaries")
		}
		boundaries, err = LoadBoundaries(path, src.DistrictProperty, src.TempDir)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	base := &model.Base{
		Incidents:     incidents,
		Districts:     enrich.Apply(boundaries, aggregates),
		Aggregates:    aggregates,
		TotalCrime:    enrich.Total(aggregates),
		MaxCrimeLevel: enrich.MaxLevel(aggregates),
	}

	log.Info("dataset: loaded",
		zap.Int("incidents", len(incidents)),
		zap.Int("districts", len(base.Districts)),
		zap.Int("aggregates", len(aggregates)),
		zap.Float64("total_crime", base.TotalCrime),
		zap.Float64("max_crime_level", base.MaxCrimeLevel),
		zap.Duration("elapsed", time.Since(start)),
	)
	return base, nil
}
