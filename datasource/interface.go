package datasource

import (
	"context"

	"weather-desk/models"
)

// QueryStore is the CRUD surface of the backend "queries" resource
type QueryStore interface {
	CreateQuery(ctx context.Context, in models.QueryInput) (models.Query, error)
	ListQueries(ctx context.Context) ([]models.Query, error)
	GetQuery(ctx context.Context, id int) (models.Query, error)
	UpdateQuery(ctx context.Context, id int, in models.QueryInput) (models.Query, error)
	DeleteQuery(ctx context.Context, id int) error

	// Export downloads every query with its observations, format is "json" or "csv"
	Export(ctx context.Context, format string) ([]byte, error)
}

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// CurrentWeather fetches current weather for a place
	CurrentWeather(ctx context.Context, place models.Place) (models.WeatherSnapshot, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch weather forecasts
type ForecastSource interface {
	// FetchForecast fetches the 3-hourly forecast for a place
	FetchForecast(ctx context.Context, place models.Place) (models.ForecastResponse, error)

	// Name returns the source's name
	Name() string
}
