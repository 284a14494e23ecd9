package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/crime-map/internal/model"
)

// shapefileExts are the members of a shapefile set that go-shp opens by
// swapping the extension of the .shp path.
var shapefileExts = map[string]bool{".shp": true, ".shx": true, ".dbf": true}

func loadShapefile(path, nameProp string) ([]model.District, error) {
	// go-shp derives the .shx and .dbf names by replacing the last three
	// characters of path, so only a lowercase .shp finds its sidecars.
	if filepath.Ext(path) != ".shp" {
		return nil, eris.Errorf("dataset: shapefile %s: extension must be lowercase .shp", path)
	}
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	nameIdx := fieldIndex(fields, nameProp)
	if nameIdx < 0 {
		return nil, eris.Errorf("dataset: shapefile %s has no %q field", path, nameProp)
	}

	var out []model.District
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			return nil, eris.Errorf("dataset: shapefile record %d: shape %T is not a polygon", n, shape)
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			return nil, eris.Errorf("dataset: shapefile record %d: empty polygon", n)
		}

		props := make(map[string]any, len(fields))
		for i, f := range fields {
			props[fieldName(f)] = attribute(reader, i)
		}
		out = append(out, model.District{
			Name:       attribute(reader, nameIdx),
			Geometry:   g,
			Properties: props,
		})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "dataset: read shapefile %s", path)
	}
	return out, nil
}

// attribute returns a DBF value without the NUL and space padding of its
// fixed-width field.
func attribute(r *shp.Reader, i int) string {
	return strings.Trim(r.Attribute(i), " \x00")
}

// lowerShapefileExts renames extracted shapefile members whose extension is
// not lowercase, returning the updated paths.
func lowerShapefileExts(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		ext := filepath.Ext(p)
		lower := strings.ToLower(ext)
		if ext == lower || !shapefileExts[lower] {
			out[i] = p
			continue
		}
		renamed := strings.TrimSuffix(p, ext) + lower
		if err := os.Rename(p, renamed); err != nil {
			return nil, eris.Wrapf(err, "dataset: rename %s", p)
		}
		out[i] = renamed
	}
	return out, nil
}

func fieldName(f shp.Field) string {
	return strings.TrimRight(f.String(), "\x00")
}

func fieldIndex(fields []shp.Field, name string) int {
	for i, f := range fields {
		if strings.EqualFold(fieldName(f), name) {
			return i
		}
	}
	return -1
}

// polygonToMultiPolygon groups shapefile rings into polygons. Clockwise rings
// start a new polygon; counter-clockwise rings are holes of the current one.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	var current *geom.Polygon
	flush := func() {
		if current != nil && current.NumLinearRings() > 0 {
			_ = mp.Push(current)
		}
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 4 {
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)

		if current == nil || signedArea(flat) <= 0 {
			flush()
			current = geom.NewPolygon(geom.XY)
		}
		_ = current.Push(ring)
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// signedArea is positive for counter-clockwise rings.
func signedArea(flat []float64) float64 {
	var a float64
	n := len(flat) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return a / 2
}
