package dataset

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crime-map/internal/model"
)

// Column aliases, lowercase. The first header matching any alias wins.
var (
	districtCols    = []string{"district", "pddistrict"}
	categoryCols    = []string{"category"}
	longitudeCols   = []string{"longitude", "x", "lon", "lng"}
	latitudeCols    = []string{"latitude", "y", "lat"}
	descriptionCols = []string{"descript", "description"}
	dayOfWeekCols   = []string{"dayofweek", "day_of_week"}
	dateCols        = []string{"dates", "date"}
	resolutionCols  = []string{"resolution"}
	addressCols     = []string{"address"}
	crimeLevelCols  = []string{"crimelevel", "crime_level"}
)

// header maps lowercase column names to their index.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// find returns the index of the first alias present, or -1.
func (h header) find(aliases []string) int {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i
		}
	}
	return -1
}

func (h header) require(table string, aliases []string) (int, error) {
	i := h.find(aliases)
	if i < 0 {
		return -1, eris.Errorf("dataset: %s: missing required column %q", table, aliases[0])
	}
	return i, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseNumber(table string, rowNum int, column, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: %s row %d: invalid %s %q", table, rowNum, column, raw)
	}
	return v, nil
}

// ParseIncidents maps table rows (header first) onto incidents. PdDistrict,
// X and Y headers are accepted for district, longitude and latitude.
func ParseIncidents(rows [][]string) ([]model.Incident, error) {
	if len(rows) == 0 {
		return nil, eris.New("dataset: incidents: missing header row")
	}
	h := newHeader(rows[0])

	districtIdx, err := h.require("incidents", districtCols)
	if err != nil {
		return nil, err
	}
	categoryIdx, err := h.require("incidents", categoryCols)
	if err != nil {
		return nil, err
	}
	lonIdx, err := h.require("incidents", longitudeCols)
	if err != nil {
		return nil, err
	}
	latIdx, err := h.require("incidents", latitudeCols)
	if err != nil {
		return nil, err
	}
	descIdx := h.find(descriptionCols)
	dowIdx := h.find(dayOfWeekCols)
	dateIdx := h.find(dateCols)
	resIdx := h.find(resolutionCols)
	addrIdx := h.find(addressCols)

	out := make([]model.Incident, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rowNum := n + 2
		lon, err := parseNumber("incidents", rowNum, "longitude", cell(row, lonIdx))
		if err != nil {
			return nil, err
		}
		lat, err := parseNumber("incidents", rowNum, "latitude", cell(row, latIdx))
		if err != nil {
			return nil, err
		}
		out = append(out, model.Incident{
			District:    cell(row, districtIdx),
			Category:    cell(row, categoryIdx),
			Longitude:   lon,
			Latitude:    lat,
			Description: cell(row, descIdx),
			DayOfWeek:   cell(row, dowIdx),
			Date:        cell(row, dateIdx),
			Resolution:  cell(row, resIdx),
			Address:     cell(row, addrIdx),
		})
	}
	return out, nil
}

// ParseAggregates maps table rows (header first) onto per-district crime
// levels, keeping table order.
func ParseAggregates(rows [][]string) ([]model.Aggregate, error) {
	if len(rows) == 0 {
		return nil, eris.New("dataset: aggregates: missing header row")
	}
	h := newHeader(rows[0])

	districtIdx, err := h.require("aggregates", districtCols)
	if err != nil {
		return nil, err
	}
	levelIdx, err := h.require("aggregates", crimeLevelCols)
	if err != nil {
		return nil, err
	}

	out := make([]model.Aggregate, 0, len(rows)-1)
	for n, row := range rows[1:] {
		level, err := parseNumber("aggregates", n+2, "CrimeLevel", cell(row, levelIdx))
		if err != nil {
			return nil, err
		}
		out = append(out, model.Aggregate{
			District:   cell(row, districtIdx),
			CrimeLevel: level,
		})
	}
	return out, nil
}
