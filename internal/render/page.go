package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crime-map/internal/cluster"
	"github.com/sells-group/crime-map/internal/model"
)

// page is the template view of one document.
type page struct {
	Title        string
	Width        int
	Height       int
	FillOpacity  string
	Stroke       string
	PolygonLayer string
	Polygons     []polygonView
	Groups       []groupView
	Legend       legendView

	selection []string
	markers   int
}

type polygonView struct {
	District   string
	Percentage string
	Level      float64
	Path       string
	Fill       string
}

type groupView struct {
	Index    int
	Name     string
	Total    int
	Clusters []clusterView
}

type clusterView struct {
	X, Y   string
	Count  int
	Size   string
	Radius int
	Fill   string
	Title  string
	// Spread is the hover area radius covering every member.
	Spread string
	// Members holds one marker per incident of a multi-incident cluster.
	Members []memberView
}

type memberView struct {
	X, Y  string
	Title string
}

type legendView struct {
	Name  string
	Width int
	Step  int
	Stops []legendStop
	Min   string
	Max   string
}

type legendStop struct {
	X    int
	Fill string
}

const legendStep = 18

func (r *Renderer) build(sel model.Selection) (*page, error) {
	groups := sel.Unique()
	levels := r.Levels(groups)

	p := &page{
		Title:        r.opts.Title,
		Width:        r.opts.Width,
		Height:       r.opts.Height,
		FillOpacity:  strconv.FormatFloat(r.opts.FillOpacity, 'f', -1, 64),
		Stroke:       r.opts.Stroke,
		PolygonLayer: r.opts.PolygonLayer,
		Polygons:     make([]polygonView, 0, len(r.base.Districts)),
		Groups:       make([]groupView, 0, len(groups)),
		Legend:       r.legend(),
		selection:    groups,
	}

	for _, d := range r.base.Districts {
		path, err := svgPath(d.Geometry, r.proj)
		if err != nil {
			return nil, eris.Wrapf(ErrMalformedGeometry, "district %q: %s", d.Name, err.Error())
		}
		level := levels[d.Name]
		p.Polygons = append(p.Polygons, polygonView{
			District:   d.Name,
			Percentage: d.Percentage,
			Level:      level,
			Path:       path,
			Fill:       r.scale.Color(level).Hex(),
		})
	}

	for i, name := range groups {
		g := r.group(i, name)
		p.markers += g.Total
		p.Groups = append(p.Groups, g)
	}
	return p, nil
}

// group clusters the incidents of one district.
func (r *Renderer) group(index int, name string) groupView {
	idx := r.byDistrict[name]
	pts := make([]cluster.Point, len(idx))
	for i, inc := range idx {
		pts[i] = r.points[inc]
	}

	g := groupView{Index: index, Name: name, Total: len(idx)}
	for _, c := range cluster.Group(pts, r.opts.ClusterRadius) {
		incidents := make([]model.Incident, len(c.Members))
		members := make([]cluster.Point, len(c.Members))
		for i, m := range c.Members {
			incidents[i] = r.base.Incidents[idx[m]]
			members[i] = pts[m]
		}
		g.Clusters = append(g.Clusters, clusterMarker(c, members, incidents))
	}
	return g
}

// memberRadius is the pixel radius of a single incident marker.
const memberRadius = 6

// clusterMarker builds the view of c. points and incidents are parallel to
// c.Members.
func clusterMarker(c cluster.Cluster, points []cluster.Point, incidents []model.Incident) clusterView {
	v := clusterView{
		X:     coord(c.Center.X),
		Y:     coord(c.Center.Y),
		Count: c.Count(),
	}
	if v.Count == 1 {
		v.Title = incidentTitle(incidents[0])
		return v
	}

	switch {
	case v.Count < 10:
		v.Size, v.Radius, v.Fill = "small", 15, "#6ecc39"
	case v.Count < 100:
		v.Size, v.Radius, v.Fill = "medium", 18, "#f0c20c"
	default:
		v.Size, v.Radius, v.Fill = "large", 22, "#f18017"
	}
	v.Title = categorySummary(incidents)

	spread := float64(v.Radius)
	v.Members = make([]memberView, len(incidents))
	for i, inc := range incidents {
		pt := points[i]
		v.Members[i] = memberView{X: coord(pt.X), Y: coord(pt.Y), Title: incidentTitle(inc)}
		spread = math.Max(spread, math.Hypot(pt.X-c.Center.X, pt.Y-c.Center.Y)+memberRadius+2)
	}
	v.Spread = coord(spread)
	return v
}

func incidentTitle(inc model.Incident) string {
	lines := []string{inc.Category}
	if inc.Description != "" {
		lines = append(lines, inc.Description)
	}
	if when := strings.TrimSpace(inc.DayOfWeek + " " + inc.Date); when != "" {
		lines = append(lines, when)
	}
	if inc.Address != "" {
		lines = append(lines, inc.Address)
	}
	if inc.Resolution != "" {
		lines = append(lines, "Resolution: "+inc.Resolution)
	}
	return strings.Join(lines, "\n")
}

// categorySummary lists category counts, most frequent first.
func categorySummary(incidents []model.Incident) string {
	counts := make(map[string]int)
	for _, inc := range incidents {
		counts[inc.Category]++
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%d incidents", len(incidents))
	for _, c := range cats {
		fmt.Fprintf(&b, "\n%s: %d", c, counts[c])
	}
	return b.String()
}

func (r *Renderer) legend() legendView {
	stops := r.scale.Stops()
	lv := legendView{
		Name:  r.scale.Name(),
		Width: legendStep * len(stops),
		Step:  legendStep,
		Stops: make([]legendStop, len(stops)),
	}
	for i, s := range stops {
		lv.Stops[i] = legendStop{X: i * legendStep, Fill: s.Hex()}
	}
	minV, maxV := r.scale.Domain()
	lv.Min = strconv.FormatFloat(minV, 'f', -1, 64)
	lv.Max = strconv.FormatFloat(maxV, 'f', -1, 64)
	return lv
}
