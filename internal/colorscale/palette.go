// Package colorscale maps crime levels onto sequential color palettes.
package colorscale

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultPalette is the palette used when none is configured.
const DefaultPalette = "PuRd_09"

//go:embed palettes.yaml
var builtinYAML []byte

// RGBA is an 8-bit color with alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Hex returns the color as lowercase #rrggbbaa.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseHex parses #rrggbb or #rrggbbaa. A missing alpha is opaque.
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, eris.Errorf("colorscale: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, eris.Wrapf(err, "colorscale: invalid color %q", s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Palettes holds named color ramps.
type Palettes map[string][]RGBA

type paletteFile struct {
	Palettes map[string][]string `yaml:"palettes"`
}

var (
	builtinOnce sync.Once
	builtin     Palettes
	builtinErr  error
)

// Builtin returns the embedded ColorBrewer palettes. The returned map must not
// be modified; use Clone first.
func Builtin() (Palettes, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinYAML)
	})
	return builtin, builtinErr
}

// Parse decodes a palettes YAML document. Every palette needs at least two
// stops.
func Parse(data []byte) (Palettes, error) {
	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrap(err, "colorscale: parse palettes")
	}
	out := make(Palettes, len(pf.Palettes))
	for name, stops := range pf.Palettes {
		if len(stops) < 2 {
			return nil, eris.Errorf("colorscale: palette %s needs at least 2 colors, got %d", name, len(stops))
		}
		colors := make([]RGBA, len(stops))
		for i, s := range stops {
			c, err := ParseHex(s)
			if err != nil {
				return nil, eris.Wrapf(err, "colorscale: palette %s", name)
			}
			colors[i] = c
		}
		out[name] = colors
	}
	return out, nil
}

// Load returns the builtin palettes merged with those of an optional YAML
// file. File palettes replace builtin ones of the same name.
func Load(path string) (Palettes, error) {
	base, err := Builtin()
	if err != nil {
		return nil, err
	}
	out := base.Clone()
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "colorscale: read palette file %s", path)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for name, colors := range extra {
		out[name] = colors
	}
	return out, nil
}

// Clone returns a shallow copy of the palette map.
func (p Palettes) Clone() Palettes {
	out := make(Palettes, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns the palette names, sorted.
func (p Palettes) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Scale builds a linear scale for the named palette over [min, max].
func (p Palettes) Scale(name string, minV, maxV float64) (*Scale, error) {
	stops, ok := p[name]
	if !ok {
		return nil, eris.Errorf("colorscale: unknown palette %q (have %s)", name, strings.Join(p.Names(), ", "))
	}
	if maxV < minV {
		return nil, eris.Errorf("colorscale: max %g below min %g", maxV, minV)
	}
	return &Scale{name: name, stops: stops, min: minV, max: maxV}, nil
}
