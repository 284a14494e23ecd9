// Package enrich joins the aggregate crime table onto district boundaries.
package enrich

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/model"
)

// Apply returns a copy of districts with CrimeLevel and Percentage filled from
// aggregates. Names match exactly. A district with no aggregate row gets level
// 0. The input slice is not modified.
func Apply(districts []model.District, aggregates []model.Aggregate) []model.District {
	levels := make(map[string]float64, len(aggregates))
	for _, a := range aggregates {
		levels[a.District] = a.CrimeLevel
	}
	total := Total(aggregates)

	out := make([]model.District, len(districts))
	for i, d := range districts {
		e := d.Clone()
		level, ok := levels[d.Name]
		if !ok {
			zap.L().Debug("enrich: no aggregate for district, using 0",
				zap.String("district", d.Name),
			)
		}
		e.CrimeLevel = level
		e.Percentage = FormatPercentage(level, total)
		out[i] = e
	}
	return out
}

// Total is the sum of CrimeLevel over the aggregate table.
func Total(aggregates []model.Aggregate) float64 {
	var sum float64
	for _, a := range aggregates {
		sum += a.CrimeLevel
	}
	return sum
}

// MaxLevel is the largest CrimeLevel in the aggregate table, or 0 when the
// table is empty.
func MaxLevel(aggregates []model.Aggregate) float64 {
	var m float64
	for i, a := range aggregates {
		if i == 0 || a.CrimeLevel > m {
			m = a.CrimeLevel
		}
	}
	return m
}

// FormatPercentage renders level/total as a percentage rounded to two
// decimals in its shortest form with at least one fractional digit:
// 25/100 is "25.0%", 1/3 is "33.33%". A zero total yields "0.00%".
func FormatPercentage(level, total float64) string {
	if total == 0 {
		return "0.00%"
	}
	// Fixed-precision formatting rounds the exact binary value, with ties to
	// even.
	p, err := strconv.ParseFloat(strconv.FormatFloat(level/total*100, 'f', 2, 64), 64)
	if err != nil {
		return "0.00%"
	}
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}
