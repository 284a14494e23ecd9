package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestLoadBoundaries_GeoJSON(t *testing.T) {
	path := writeFixture(t, "sf.geojson", boundariesGeoJSON)

	got, err := LoadBoundaries(path, "DISTRICT", t.TempDir())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "MISSION", got[0].Name)
	assert.IsType(t, &geom.Polygon{}, got[0].Geometry)
	assert.Equal(t, "D", got[0].Properties["COMPANY"])

	assert.Equal(t, "BAYVIEW", got[1].Name)
	assert.IsType(t, &geom.MultiPolygon{}, got[1].Geometry)
}

func TestLoadBoundaries_GeoJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not json", "{", "decode geojson"},
		{"not a collection", `{"type":"Feature"}`, "expected FeatureCollection"},
		{
			"missing name",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}]}`,
			`missing "DISTRICT" property`,
		},
		{
			"point geometry",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"DISTRICT":"A"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`,
			"is not a polygon",
		},
		{
			"null geometry",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"DISTRICT":"A"},"geometry":null}]}`,
			"missing geometry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "b.geojson", tt.body)
			_, err := LoadBoundaries(path, "DISTRICT", t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBoundaries_Shapefile(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "MISSION", "BAYVIEW")

	got, err := LoadBoundaries(path, "district", t.TempDir())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MISSION", got[0].Name)
	assert.Equal(t, "BAYVIEW", got[1].Name)
	assert.Equal(t, "BAYVIEW", got[1].Properties["DISTRICT"])

	mp, ok := got[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestLoadBoundaries_ShapefileMissingField(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "MISSION")

	_, err := LoadBoundaries(path, "NAME", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "NAME" field`)
}

func TestLoadBoundaries_ZippedShapefile(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "PARK", "RICHMOND", "TARAVAL")
	zipPath := zipDir(t, dir)

	got, err := LoadBoundaries(zipPath, "DISTRICT", t.TempDir())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "PARK", got[0].Name)
	assert.Equal(t, "RICHMOND", got[1].Name)
	assert.Equal(t, "TARAVAL", got[2].Name)
}

func TestLoadBoundaries_ZippedShapefileUppercaseExtensions(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "MISSION", "BAYVIEW")
	upperShapefileExts(t, dir)
	zipPath := zipDir(t, dir)

	got, err := LoadBoundaries(zipPath, "DISTRICT", t.TempDir())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MISSION", got[0].Name)
	assert.Equal(t, "BAYVIEW", got[1].Name)
}

func TestLoadBoundaries_UppercaseShapefilePath(t *testing.T) {
	dir := t.TempDir()
	writeShapefile(t, dir, "MISSION")
	upperShapefileExts(t, dir)

	_, err := LoadBoundaries(filepath.Join(dir, "DISTRICTS.SHP"), "DISTRICT", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension must be lowercase .shp")
}

func TestLowerShapefileExts(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "A.SHP"),
		filepath.Join(dir, "A.Dbf"),
		filepath.Join(dir, "README.TXT"),
		filepath.Join(dir, "a.shx"),
	}
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	got, err := lowerShapefileExts(paths)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "A.shp"),
		filepath.Join(dir, "A.dbf"),
		filepath.Join(dir, "README.TXT"),
		filepath.Join(dir, "a.shx"),
	}, got)
	assert.FileExists(t, filepath.Join(dir, "A.shp"))
}

func TestLoadBoundaries_UnsupportedFormat(t *testing.T) {
	path := writeFixture(t, "districts.kml", "<kml/>")
	_, err := LoadBoundaries(path, "DISTRICT", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported boundary format")
}

func TestPolygonToMultiPolygon_Holes(t *testing.T) {
	pl := shp.NewPolyLine([][]shp.Point{
		// outer, clockwise
		{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}},
		// hole, counter-clockwise
		{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}},
		// second outer
		{{X: 20, Y: 0}, {X: 20, Y: 5}, {X: 25, Y: 5}, {X: 25, Y: 0}, {X: 20, Y: 0}},
	})
	poly := shp.Polygon(*pl)

	mp := polygonToMultiPolygon(&poly)
	require.NotNil(t, mp)
	require.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 2, mp.Polygon(0).NumLinearRings())
	assert.Equal(t, 1, mp.Polygon(1).NumLinearRings())
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}

func TestSignedArea(t *testing.T) {
	ccw := []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}
	cw := []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}
	assert.InDelta(t, 1.0, signedArea(ccw), 1e-9)
	assert.InDelta(t, -1.0, signedArea(cw), 1e-9)
}
