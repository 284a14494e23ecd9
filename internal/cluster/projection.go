// Package cluster projects incident coordinates into viewport pixels and
// groups nearby markers the way a marker-cluster layer does at a fixed zoom.
package cluster

import "math"

// TileSize is the Web Mercator tile edge in pixels.
const TileSize = 256

// maxLat is the latitude limit of the Web Mercator square.
const maxLat = 85.05112878

// Point is a position in viewport pixels, origin top-left.
type Point struct {
	X, Y float64
}

// Projection maps lon/lat onto a viewport of Width x Height pixels centered
// on a coordinate at a zoom level.
type Projection struct {
	Width, Height float64

	scale  float64
	origin Point
}

// NewProjection builds a projection centered on (centerLat, centerLon).
func NewProjection(centerLat, centerLon float64, zoom, width, height int) Projection {
	p := Projection{
		Width:  float64(width),
		Height: float64(height),
		scale:  TileSize * math.Pow(2, float64(zoom)),
	}
	c := p.world(centerLon, centerLat)
	p.origin = Point{X: c.X - p.Width/2, Y: c.Y - p.Height/2}
	return p
}

// world returns global pixel coordinates at the projection's zoom.
func (p Projection) world(lon, lat float64) Point {
	lon = math.Max(-180, math.Min(180, lon))
	lat = math.Max(-maxLat, math.Min(maxLat, lat))
	latRad := lat * math.Pi / 180

	x := (lon + 180) / 360
	y := 0.5 - math.Log(math.Tan(latRad*0.5+math.Pi/4))/math.Pi*0.5
	return Point{X: x * p.scale, Y: y * p.scale}
}

// Project returns the viewport position of lon/lat.
func (p Projection) Project(lon, lat float64) Point {
	w := p.world(lon, lat)
	return Point{X: w.X - p.origin.X, Y: w.Y - p.origin.Y}
}

