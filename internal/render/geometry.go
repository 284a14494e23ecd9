package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/crime-map/internal/cluster"
)

// ErrMalformedGeometry is returned when a district boundary cannot be drawn.
var ErrMalformedGeometry = errors.New("render: malformed geometry")

// svgPath converts a polygonal geometry into SVG path data in viewport
// pixels. Each ring becomes one closed subpath.
func svgPath(g geom.T, proj cluster.Projection) (string, error) {
	var b strings.Builder
	switch t := g.(type) {
	case *geom.Polygon:
		if err := writePolygon(&b, t, proj); err != nil {
			return "", err
		}
	case *geom.MultiPolygon:
		if t.NumPolygons() == 0 {
			return "", eris.New("empty multipolygon")
		}
		for i := 0; i < t.NumPolygons(); i++ {
			if err := writePolygon(&b, t.Polygon(i), proj); err != nil {
				return "", eris.Wrapf(err, "polygon %d", i)
			}
		}
	case nil:
		return "", eris.New("missing geometry")
	default:
		return "", eris.Errorf("unsupported geometry %T", g)
	}
	return b.String(), nil
}

func writePolygon(b *strings.Builder, p *geom.Polygon, proj cluster.Projection) error {
	if p.NumLinearRings() == 0 {
		return eris.New("polygon has no rings")
	}
	stride := p.Layout().Stride()
	for i := 0; i < p.NumLinearRings(); i++ {
		flat := p.LinearRing(i).FlatCoords()
		if len(flat) < stride || stride < 2 {
			return eris.Errorf("ring %d is empty", i)
		}
		for j := 0; j+1 < len(flat); j += stride {
			pt := proj.Project(flat[j], flat[j+1])
			if j == 0 {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString("M")
			} else {
				b.WriteString(" L")
			}
			b.WriteString(coord(pt.X))
			b.WriteByte(',')
			b.WriteString(coord(pt.Y))
		}
		b.WriteString(" Z")
	}
	return nil
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
