package datasource

import (
	"context"
	"net/http"

	"weather-desk/models"
)

// CurrentWeather fetches the current weather snapshot relayed by the backend
func (c *Client) CurrentWeather(ctx context.Context, place models.Place) (models.WeatherSnapshot, error) {
	res, err := c.send(ctx, http.MethodGet, "/api/weather/current", placeParams(place), nil)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	var snapshot models.WeatherSnapshot
	if err := decode(res, &snapshot); err != nil {
		return models.WeatherSnapshot{}, err
	}
	return snapshot, nil
}

// FetchForecast fetches the 5-day / 3-hour forecast relayed by the backend
func (c *Client) FetchForecast(ctx context.Context, place models.Place) (models.ForecastResponse, error) {
	res, err := c.send(ctx, http.MethodGet, "/api/weather/forecast", placeParams(place), nil)
	if err != nil {
		return models.ForecastResponse{}, err
	}

	var forecast models.ForecastResponse
	if err := decode(res, &forecast); err != nil {
		return models.ForecastResponse{}, err
	}
	return forecast, nil
}
