// Package render turns the startup data and a district selection into a
// self-contained HTML map document: a choropleth of district polygons plus
// one clustered marker group per selected district.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/cluster"
	"github.com/sells-group/crime-map/internal/colorscale"
	"github.com/sells-group/crime-map/internal/model"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.New("map.html.tmpl").ParseFS(templateFS, "templates/map.html.tmpl"))

// DefaultStroke is the district outline color.
const DefaultStroke = "#3388ff"

// Options configures the map canvas.
type Options struct {
	CenterLat     float64
	CenterLon     float64
	Zoom          int
	Width         int
	Height        int
	FillOpacity   float64
	ClusterRadius float64
	Stroke        string
	Title         string
	// PolygonLayer names the district layer in the layer control.
	PolygonLayer string
}

// DefaultOptions returns the San Francisco canvas.
func DefaultOptions() Options {
	return Options{
		CenterLat:     37.77,
		CenterLon:     -122.42,
		Zoom:          12,
		Width:         1000,
		Height:        600,
		FillOpacity:   0.8,
		ClusterRadius: cluster.DefaultRadius,
		Stroke:        DefaultStroke,
		Title:         "San Francisco crime by police district",
		PolygonLayer:  "San Francisco Neighborhoods",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Stroke == "" {
		o.Stroke = d.Stroke
	}
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.PolygonLayer == "" {
		o.PolygonLayer = d.PolygonLayer
	}
	return o
}

// Renderer renders map documents from an immutable base. It holds no mutable
// state and is safe for concurrent use.
type Renderer struct {
	base  *model.Base
	scale *colorscale.Scale
	opts  Options
	proj  cluster.Projection

	// points[i] is the viewport position of base.Incidents[i].
	points []cluster.Point
	// byDistrict lists incident indices per district, in table order.
	byDistrict map[string][]int
}

// New builds a renderer. Incident positions are projected once here.
func New(base *model.Base, scale *colorscale.Scale, opts Options) *Renderer {
	opts = opts.withDefaults()
	r := &Renderer{
		base:       base,
		scale:      scale,
		opts:       opts,
		proj:       cluster.NewProjection(opts.CenterLat, opts.CenterLon, opts.Zoom, opts.Width, opts.Height),
		points:     make([]cluster.Point, len(base.Incidents)),
		byDistrict: make(map[string][]int),
	}
	for i, inc := range base.Incidents {
		r.points[i] = r.proj.Project(inc.Longitude, inc.Latitude)
		r.byDistrict[inc.District] = append(r.byDistrict[inc.District], i)
	}
	return r
}

// Options returns the effective canvas options.
func (r *Renderer) Options() Options { return r.opts }

// Render produces the document for sel. Duplicate names are dropped and the
// first occurrence fixes group order. Unknown names yield empty groups.
func (r *Renderer) Render(sel model.Selection) (model.Document, error) {
	start := time.Now()

	p, err := r.build(sel)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, p); err != nil {
		return "", eris.Wrap(err, "render: execute template")
	}
	doc := model.Document(buf.String())

	zap.L().Info("render: map rendered",
		zap.Strings("selection", p.selection),
		zap.Int("groups", len(p.Groups)),
		zap.Int("markers", p.markers),
		zap.Int("bytes", doc.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

// Levels returns the effective crime level of every district for sel:
// selected districts keep their level, all others are zero. The base is not
// modified.
func (r *Renderer) Levels(sel model.Selection) map[string]float64 {
	set := sel.Set()
	levels := make(map[string]float64, len(r.base.Districts))
	for _, d := range r.base.Districts {
		if _, ok := set[d.Name]; ok {
			levels[d.Name] = d.CrimeLevel
		} else {
			levels[d.Name] = 0
		}
	}
	return levels
}
