package models

import (
	"time"
)

// ForecastItem is a single 3-hourly forecast point
type ForecastItem struct {
	Dt   int64 `json:"dt"` // unix seconds
	Main struct {
		Temp    *float64 `json:"temp"`
		TempMin *float64 `json:"temp_min"`
		TempMax *float64 `json:"temp_max"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
}

// Time returns the forecast instant in UTC
func (f ForecastItem) Time() time.Time {
	return time.Unix(f.Dt, 0).UTC()
}

// Day returns the UTC calendar day the item falls on, formatted YYYY-MM-DD
func (f ForecastItem) Day() string {
	return f.Time().Format("2006-01-02")
}

// ForecastResponse is the body of GET /api/weather/forecast
type ForecastResponse struct {
	List []ForecastItem `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// DailyForecast aggregates all forecast items of one calendar day
type DailyForecast struct {
	Day  string   `json:"day"`   // YYYY-MM-DD, UTC
	TMin *float64 `json:"t_min"` // nil when no item carried a temperature
	TMax *float64 `json:"t_max"`
	Icon string   `json:"icon"` // dominant icon or condition code
}
