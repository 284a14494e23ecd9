package model

// Incident is a single reported crime incident. Incidents are immutable once
// loaded.
type Incident struct {
	District  string  `json:"district"`
	Category  string  `json:"category"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`

	// Optional columns carried from the SF open-data export when present.
	Description string `json:"description,omitempty"`
	DayOfWeek   string `json:"day_of_week,omitempty"`
	Date        string `json:"date,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Aggregate is the per-district crime magnitude from the aggregate table.
type Aggregate struct {
	District   string  `json:"district"`
	CrimeLevel float64 `json:"crime_level"`
}
