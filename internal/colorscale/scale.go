package colorscale

import "math"

// Scale maps values in [min, max] onto evenly spaced palette stops. It is
// immutable and safe for concurrent use.
type Scale struct {
	name     string
	stops    []RGBA
	min, max float64
}

// New builds a scale from a builtin palette.
func New(palette string, minV, maxV float64) (*Scale, error) {
	p, err := Builtin()
	if err != nil {
		return nil, err
	}
	return p.Scale(palette, minV, maxV)
}

// Name returns the palette name.
func (s *Scale) Name() string { return s.name }

// Domain returns the scale bounds.
func (s *Scale) Domain() (minV, maxV float64) { return s.min, s.max }

// Stops returns a copy of the palette stops.
func (s *Scale) Stops() []RGBA {
	out := make([]RGBA, len(s.stops))
	copy(out, s.stops)
	return out
}

// Color returns the interpolated color of v. Values outside the domain are
// clamped; a degenerate domain always yields the first stop.
func (s *Scale) Color(v float64) RGBA {
	if s.max == s.min || math.IsNaN(v) || v <= s.min {
		return s.stops[0]
	}
	if v >= s.max {
		return s.stops[len(s.stops)-1]
	}

	pos := (v - s.min) / (s.max - s.min) * float64(len(s.stops)-1)
	i := int(pos)
	if i >= len(s.stops)-1 {
		return s.stops[len(s.stops)-1]
	}
	f := pos - float64(i)
	a, b := s.stops[i], s.stops[i+1]
	return RGBA{
		R: lerp(a.R, b.R, f),
		G: lerp(a.G, b.G, f),
		B: lerp(a.B, b.B, f),
		A: lerp(a.A, b.A, f),
	}
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
