package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/crime-map/internal/config"
)

const testIncidents = `Category,Descript,PdDistrict,X,Y
ASSAULT,BATTERY,MISSION,-122.4194,37.7650
VANDALISM,MALICIOUS MISCHIEF,BAYVIEW,-122.3900,37.7300
LARCENY/THEFT,GRAND THEFT,MISSION,-122.4210,37.7600
`

const testAggregates = `DISTRICT,CrimeLevel
MISSION,75
BAYVIEW,25
`

const testBoundaries = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"DISTRICT":"MISSION"},"geometry":{"type":"Polygon","coordinates":[[[-122.43,37.75],[-122.40,37.75],[-122.40,37.77],[-122.43,37.77],[-122.43,37.75]]]}},
{"type":"Feature","properties":{"DISTRICT":"BAYVIEW"},"geometry":{"type":"Polygon","coordinates":[[[-122.40,37.70],[-122.37,37.70],[-122.37,37.74],[-122.40,37.74],[-122.40,37.70]]]}}
]}`

// testConfig writes the three fixture sources and returns a config that
// points at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	return &config.Config{
		Data: config.DataConfig{
			Incidents:        write("fixed_data.csv", testIncidents),
			Aggregates:       write("crime_level.csv", testAggregates),
			Boundaries:       write("san-francisco.geojson", testBoundaries),
			DistrictProperty: "DISTRICT",
			TempDir:          filepath.Join(dir, "tmp"),
		},
		Map: config.MapConfig{
			CenterLat:     37.77,
			CenterLon:     -122.42,
			Zoom:          12,
			Width:         1000,
			Height:        600,
			FillOpacity:   0.8,
			Palette:       "PuRd_09",
			ClusterRadius: 80,
			Title:         "SF crime",
		},
		Server: config.ServerConfig{Port: 8005, RateLimit: 20, RateBurst: 40, CORSOrigins: []string{"*"}},
		Fetch:  config.FetchConfig{UserAgent: "test", TimeoutSecs: 5, MaxRetries: 1},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}
