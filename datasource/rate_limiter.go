package datasource

import (
	"context"
	"fmt"

	"weather-desk/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a backend that serves both current weather and forecasts.
// Each endpoint gets its own limiter so a burst of forecast lookups cannot starve current weather.
type RateLimitedProvider struct {
	provider        WeatherProvider
	forecastSrc     ForecastSource
	weatherLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// WeatherBackend is implemented by sources serving both endpoints, such as *Client
type WeatherBackend interface {
	WeatherProvider
	ForecastSource
}

// NewRateLimitedProvider creates a provider that implements both interfaces with rate limiting
// weatherRPS and forecastRPS are the maximum requests per second for weather and forecast APIs
func NewRateLimitedProvider(backend WeatherBackend, weatherRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        backend,
		forecastSrc:     backend,
		weatherLimiter:  rate.NewLimiter(rate.Limit(weatherRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", backend.Name()),
	}
}

// CurrentWeather implements WeatherProvider interface with rate limiting
func (r *RateLimitedProvider) CurrentWeather(ctx context.Context, place models.Place) (models.WeatherSnapshot, error) {
	if err := r.weatherLimiter.Wait(ctx); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.CurrentWeather(ctx, place)
}

// FetchForecast implements ForecastSource interface with rate limiting
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, place models.Place) (models.ForecastResponse, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return models.ForecastResponse{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.forecastSrc.FetchForecast(ctx, place)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// RateLimitedQueryStore wraps a QueryStore with a single limiter shared by all CRUD calls
type RateLimitedQueryStore struct {
	store   QueryStore
	limiter *rate.Limiter
}

// NewRateLimitedQueryStore creates a new rate limited query store
// rps is the maximum requests per second allowed
// burst is the maximum burst size allowed
func NewRateLimitedQueryStore(store QueryStore, rps float64, burst int) *RateLimitedQueryStore {
	return &RateLimitedQueryStore{
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedQueryStore) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

// CreateQuery forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) CreateQuery(ctx context.Context, in models.QueryInput) (models.Query, error) {
	if err := r.wait(ctx); err != nil {
		return models.Query{}, err
	}
	return r.store.CreateQuery(ctx, in)
}

// ListQueries forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) ListQueries(ctx context.Context) ([]models.Query, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.store.ListQueries(ctx)
}

// GetQuery forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) GetQuery(ctx context.Context, id int) (models.Query, error) {
	if err := r.wait(ctx); err != nil {
		return models.Query{}, err
	}
	return r.store.GetQuery(ctx, id)
}

// UpdateQuery forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) UpdateQuery(ctx context.Context, id int, in models.QueryInput) (models.Query, error) {
	if err := r.wait(ctx); err != nil {
		return models.Query{}, err
	}
	return r.store.UpdateQuery(ctx, id, in)
}

// DeleteQuery forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) DeleteQuery(ctx context.Context, id int) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	return r.store.DeleteQuery(ctx, id)
}

// Export forwards to the wrapped store once the limiter allows it
func (r *RateLimitedQueryStore) Export(ctx context.Context, format string) ([]byte, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.store.Export(ctx, format)
}

// Verify that our rate limited types implement the required interfaces
var (
	_ WeatherProvider = (*RateLimitedProvider)(nil)
	_ ForecastSource  = (*RateLimitedProvider)(nil)
	_ QueryStore      = (*RateLimitedQueryStore)(nil)
)
