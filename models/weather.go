package models

// Condition is one entry of the "weather" array returned by the backend
type Condition struct {
	ID          int    `json:"id,omitempty"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WeatherSnapshot represents the current weather for a location as relayed by the backend.
// Numeric fields are pointers because the backend omits values it did not receive upstream.
type WeatherSnapshot struct {
	Provider string      `json:"provider,omitempty"`
	Name     string      `json:"name"`
	Dt       int64       `json:"dt,omitempty"`
	Weather  []Condition `json:"weather"`
	Sys      struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// PrimaryCondition returns the first reported condition, or the zero value
func (w WeatherSnapshot) PrimaryCondition() Condition {
	if len(w.Weather) == 0 {
		return Condition{}
	}
	return w.Weather[0]
}
