package dataset

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/crime-map/internal/model"
)

const incidentsCSV = `IncidntNum,Category,Descript,DayOfWeek,Dates,PdDistrict,Resolution,Address,X,Y
1,ASSAULT,BATTERY,Monday,2015-05-13,MISSION,NONE,16TH ST,-122.4194,37.7650
2,VANDALISM,MALICIOUS MISCHIEF,Tuesday,2015-05-14,BAYVIEW,NONE,3RD ST,-122.3900,37.7300
3,LARCENY/THEFT,GRAND THEFT,Friday,2015-05-15,MISSION,ARREST,VALENCIA ST,-122.4210,37.7600
`

const aggregatesCSV = `DISTRICT,CrimeLevel
MISSION,75
BAYVIEW,25
`

const boundariesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 1, "properties": {"DISTRICT": "MISSION", "COMPANY": "D"},
     "geometry": {"type": "Polygon", "coordinates": [[[-122.43,37.75],[-122.40,37.75],[-122.40,37.77],[-122.43,37.77],[-122.43,37.75]]]}},
    {"type": "Feature", "id": 2, "properties": {"DISTRICT": "BAYVIEW"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[-122.40,37.70],[-122.37,37.70],[-122.37,37.74],[-122.40,37.74],[-122.40,37.70]]]]}}
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeShapefile writes a polygon shapefile with one square per name.
func writeShapefile(t *testing.T, dir string, names ...string) string {
	t.Helper()
	path := filepath.Join(dir, "districts.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("DISTRICT", 32)}))

	for i, name := range names {
		x := -122.5 + float64(i)*0.05
		pl := shp.NewPolyLine([][]shp.Point{{
			{X: x, Y: 37.70},
			{X: x, Y: 37.74},
			{X: x + 0.04, Y: 37.74},
			{X: x + 0.04, Y: 37.70},
			{X: x, Y: 37.70},
		}})
		poly := shp.Polygon(*pl)
		row := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, name))
	}
	w.Close()

	// The go-shp writer names the attribute file without the dot before
	// "dbf"; the reader expects districts.dbf.
	dbf := filepath.Join(dir, "districts.dbf")
	matches, err := filepath.Glob(filepath.Join(dir, "districts*dbf"))
	require.NoError(t, err)
	for _, m := range matches {
		if m != dbf {
			require.NoError(t, os.Rename(m, dbf))
		}
	}
	require.FileExists(t, dbf)
	return path
}

// upperShapefileExts renames the shapefile set in dir to uppercase
// extensions, as some GIS exports ship them.
func upperShapefileExts(t *testing.T, dir string) {
	t.Helper()
	for _, ext := range []string{"shp", "shx", "dbf"} {
		from := filepath.Join(dir, "districts."+ext)
		require.NoError(t, os.Rename(from, filepath.Join(dir, "DISTRICTS."+strings.ToUpper(ext))))
	}
}

func districtByName(t *testing.T, base *model.Base, name string) model.District {
	t.Helper()
	for _, d := range base.Districts {
		if d.Name == name {
			return d
		}
	}
	require.Failf(t, "district not found", "%q", name)
	return model.District{}
}

// zipDir packs every file of dir into a ZIP archive.
func zipDir(t *testing.T, dir string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "districts.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	defer out.Close() //nolint:errcheck

	zw := zip.NewWriter(out)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		fw, err := zw.Create("sfpd/" + e.Name())
		require.NoError(t, err)
		in, err := os.Open(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		_, err = io.Copy(fw, in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
	}
	require.NoError(t, zw.Close())
	return zipPath
}

func writeXLSX(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	require.NoError(t, err)
	for _, r := range rows {
		row := s.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "levels.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func writeSQLite(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crime.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return path
}
