// Package panel renders current weather and the 5-day forecast for a place.
package panel

import (
	"context"
	"errors"
	"strings"
	"time"

	"weather-desk/datasource"
	"weather-desk/geo"
	"weather-desk/models"
	"weather-desk/page"

	"go.uber.org/zap"
)

// Region ids used by the weather panel
const (
	RegionPlace    = "q"
	RegionCurrent  = "currentOut"
	RegionForecast = "forecastOut"
)

// User-facing messages
const (
	MsgNoPlace        = "Enter a location or use geolocation"
	MsgNoForecast     = "No forecast yet."
	MsgGeoUnsupported = "Geolocation unsupported"
	MsgCurrentFailed  = "Failed to load current weather."
	MsgForecastFailed = "Failed to load forecast."
)

// GeolocationTimeout bounds a single position lookup
const GeolocationTimeout = 10 * time.Second

// Panel fetches weather from the backend and renders it
type Panel struct {
	weather  datasource.WeatherProvider
	forecast datasource.ForecastSource
	locator  geo.Locator
	logger   *zap.SugaredLogger
}

// New creates a weather panel. A nil locator means geolocation is unavailable.
func New(weather datasource.WeatherProvider, forecast datasource.ForecastSource, locator geo.Locator, logger *zap.SugaredLogger) *Panel {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Panel{
		weather:  weather,
		forecast: forecast,
		locator:  locator,
		logger:   logger,
	}
}

// resolve picks coordinates when given, else the typed place name.
// It alerts and reports false when neither is available.
func (p *Panel) resolve(doc *page.Document, coords *models.Coordinates) (models.Place, bool) {
	if coords != nil {
		return models.Place{Coords: coords}, true
	}
	if name := strings.TrimSpace(doc.Value(RegionPlace)); name != "" {
		return models.Place{Name: name}, true
	}
	doc.Alert(MsgNoPlace)
	return models.Place{}, false
}

// FetchCurrent renders the current weather for coords, or for the typed place when coords is nil
func (p *Panel) FetchCurrent(ctx context.Context, doc *page.Document, coords *models.Coordinates) {
	place, ok := p.resolve(doc, coords)
	if !ok {
		return
	}

	out := doc.Lookup(RegionCurrent)
	snapshot, err := p.weather.CurrentWeather(ctx, place)
	if err != nil {
		p.logger.Warnw("current weather failed", "place", place.String(), "error", err)
		out.SetHTML(page.Render(errorTmpl, datasource.Message(err, MsgCurrentFailed)))
		return
	}
	out.SetHTML(renderCurrent(snapshot))
}

// FetchForecast renders up to five day cards for coords, or for the typed place when coords is nil
func (p *Panel) FetchForecast(ctx context.Context, doc *page.Document, coords *models.Coordinates) {
	place, ok := p.resolve(doc, coords)
	if !ok {
		return
	}

	out := doc.Lookup(RegionForecast)
	resp, err := p.forecast.FetchForecast(ctx, place)
	if err != nil {
		p.logger.Warnw("forecast failed", "place", place.String(), "error", err)
		out.SetHTML(page.Render(errorTmpl, datasource.Message(err, MsgForecastFailed)))
		return
	}
	out.SetHTML(renderForecast(BucketForecast(resp.List, MaxForecastDays)))
}

// UseGeo locates the user once and then loads current weather and forecast for that position
func (p *Panel) UseGeo(ctx context.Context, doc *page.Document) {
	if p.locator == nil {
		doc.Alert(MsgGeoUnsupported)
		return
	}

	opts := geo.Options{HighAccuracy: true, Timeout: GeolocationTimeout}
	lookupCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	coords, err := p.locator.CurrentPosition(lookupCtx, opts)
	cancel()
	if errors.Is(err, geo.ErrUnsupported) {
		doc.Alert(MsgGeoUnsupported)
		return
	}
	if err != nil {
		p.logger.Warnw("geolocation failed", "error", err)
		doc.Alert(err.Error())
		return
	}

	p.logger.Debugw("geolocated", "coords", coords.String())
	p.FetchCurrent(ctx, doc, &coords)
	p.FetchForecast(ctx, doc, &coords)
}
