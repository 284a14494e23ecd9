package model

// Base is the immutable data context built once at startup: the loaded
// tables plus the enriched district boundaries. It is passed explicitly to the
// renderer and shared read-only by every render.
type Base struct {
	Incidents  []Incident
	Districts  []District
	Aggregates []Aggregate

	// TotalCrime is the sum of CrimeLevel over the aggregate table.
	TotalCrime float64
	// MaxCrimeLevel is the largest CrimeLevel in the aggregate table.
	MaxCrimeLevel float64
}

// DistrictNames returns the names of the aggregate table districts in table
// order.
func (b *Base) DistrictNames() []string {
	names := make([]string, 0, len(b.Aggregates))
	for _, a := range b.Aggregates {
		names = append(names, a.District)
	}
	return names
}
