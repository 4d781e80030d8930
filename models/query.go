package models

// Location is the geocoded place a query refers to
type Location struct {
	ID        int      `json:"id,omitempty"`
	Name      string   `json:"name"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Label renders "name, country", dropping the country when unknown
func (l *Location) Label() string {
	if l == nil {
		return ""
	}
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// Observation is one day of historical temperatures
type Observation struct {
	Date  string   `json:"date"`
	TMin  *float64 `json:"t_min"`
	TMax  *float64 `json:"t_max"`
	TMean *float64 `json:"t_mean"`
}

// Query is a saved request for historical observations over a date range.
// Location is nil when the backend did not embed it.
type Query struct {
	ID           int           `json:"id"`
	Location     *Location     `json:"location"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	CreatedAt    string        `json:"created_at,omitempty"`
	Observations []Observation `json:"observations,omitempty"`
}

// LocationName returns the location name or an empty string
func (q Query) LocationName() string {
	if q.Location == nil {
		return ""
	}
	return q.Location.Name
}

// QueryInput is the body sent when creating or updating a query
type QueryInput struct {
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
