package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/fetcher"
	"github.com/sells-group/crime-map/internal/model"
)

// LoadBoundaries reads district polygons from a GeoJSON FeatureCollection, a
// shapefile, or a ZIP archive holding one shapefile. nameProp is the
// attribute carrying the district name.
func LoadBoundaries(path, nameProp, tempDir string) ([]model.District, error) {
	switch ext := fetcher.Ext(path); ext {
	case ".geojson", ".json":
		return loadGeoJSON(path, nameProp)
	case ".shp":
		return loadShapefile(path, nameProp)
	case ".zip":
		if err := os.MkdirAll(tempDir, 0o755); err != nil {
			return nil, eris.Wrap(err, "dataset: create temp dir")
		}
		dir, err := os.MkdirTemp(tempDir, "shp-")
		if err != nil {
			return nil, eris.Wrap(err, "dataset: create extract dir")
		}
		files, err := fetcher.ExtractZIP(path, dir)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: extract boundaries")
		}
		if files, err = lowerShapefileExts(files); err != nil {
			return nil, err
		}
		shpPath, err := fetcher.FindByExt(files, ".shp")
		if err != nil {
			return nil, eris.Wrap(err, "dataset: find shapefile")
		}
		return loadShapefile(shpPath, nameProp)
	default:
		return nil, eris.Errorf("dataset: unsupported boundary format %q (%s)", ext, path)
	}
}

func loadGeoJSON(path, nameProp string) ([]model.District, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}

	// Features are decoded by hand so non-string feature ids do not fail
	// the whole collection.
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry   json.RawMessage `json:"geometry"`
			Properties map[string]any  `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "dataset: decode geojson %s", path)
	}
	if fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("dataset: %s: expected FeatureCollection, got %q", path, fc.Type)
	}

	out := make([]model.District, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, err := featureName(f.Properties, nameProp)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: feature %d", i)
		}
		var g geom.T
		if len(f.Geometry) > 0 && string(f.Geometry) != "null" {
			if err := geojson.Unmarshal(f.Geometry, &g); err != nil {
				return nil, eris.Wrapf(err, "dataset: feature %d (%s): decode geometry", i, name)
			}
		}
		if err := checkPolygonal(g); err != nil {
			return nil, eris.Wrapf(err, "dataset: feature %d (%s)", i, name)
		}
		out = append(out, model.District{
			Name:       name,
			Geometry:   g,
			Properties: f.Properties,
		})
	}

	zap.L().Debug("dataset: decoded geojson boundaries",
		zap.String("path", path),
		zap.Int("features", len(out)),
	)
	return out, nil
}

func featureName(props map[string]any, nameProp string) (string, error) {
	v, ok := props[nameProp]
	if !ok || v == nil {
		return "", eris.Errorf("missing %q property", nameProp)
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), nil
	default:
		return fmt.Sprint(x), nil
	}
}

func checkPolygonal(g geom.T) error {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return nil
	case nil:
		return eris.New("missing geometry")
	default:
		return eris.Errorf("geometry %T is not a polygon", g)
	}
}
