package model

import (
	"github.com/twpayne/go-geom"
)

// District is a police district boundary with its enrichment fields.
// CrimeLevel and Percentage are filled once by the enricher and are read-only
// afterwards; renders derive their own level map instead of mutating them.
type District struct {
	Name       string         `json:"district"`
	Geometry   geom.T         `json:"-"`
	CrimeLevel float64        `json:"crime_level"`
	Percentage string         `json:"percentage"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Clone returns a copy of d. Geometry is shared; geometries are never mutated
// after load.
func (d District) Clone() District {
	out := d
	if d.Properties != nil {
		out.Properties = make(map[string]any, len(d.Properties))
		for k, v := range d.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
