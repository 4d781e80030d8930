// Package geo resolves the user's position, the server-side stand-in for browser geolocation.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"weather-desk/models"

	"github.com/segmentio/encoding/json"
)

// ErrUnsupported is returned when no geolocation capability is configured
var ErrUnsupported = errors.New("geolocation unsupported")

// Options mirror the one-shot position request knobs
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
}

// Locator resolves a single position
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (models.Coordinates, error)
}

// Fixed always reports the same position
type Fixed models.Coordinates

// CurrentPosition implements Locator
func (f Fixed) CurrentPosition(ctx context.Context, _ Options) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	return models.Coordinates(f), nil
}

// IPLocator asks an ip-api.com compatible service where the host is
type IPLocator struct {
	url        string
	httpClient *http.Client
}

// NewIPLocator creates a locator querying url
func NewIPLocator(url string, httpClient *http.Client) *IPLocator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &IPLocator{url: url, httpClient: httpClient}
}

// CurrentPosition implements Locator. HighAccuracy has no effect on IP lookups.
func (l *IPLocator) CurrentPosition(ctx context.Context, opts Options) (models.Coordinates, error) {
	if l.url == "" {
		return models.Coordinates{}, ErrUnsupported
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Coordinates{}, fmt.Errorf("position lookup timed out after %s", opts.Timeout)
		}
		return models.Coordinates{}, fmt.Errorf("position unavailable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, fmt.Errorf("position unavailable: status %d", resp.StatusCode)
	}

	var answer struct {
		Status  string   `json:"status"`
		Message string   `json:"message"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &answer); err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if answer.Status != "" && answer.Status != "success" {
		return models.Coordinates{}, fmt.Errorf("position unavailable: %s", answer.Message)
	}
	if answer.Lat == nil || answer.Lon == nil {
		return models.Coordinates{}, errors.New("position unavailable: no coordinates in response")
	}

	return models.Coordinates{Latitude: *answer.Lat, Longitude: *answer.Lon}, nil
}

// New builds the locator for a configured mode. "none" and "" yield a nil Locator.
func New(mode string, lat, lon float64, ipURL string) (Locator, error) {
	switch mode {
	case "", "none":
		return nil, nil
	case "fixed":
		return Fixed{Latitude: lat, Longitude: lon}, nil
	case "ip":
		if ipURL == "" {
			return nil, errors.New("geo: ip mode needs a lookup url")
		}
		return NewIPLocator(ipURL, nil), nil
	}
	return nil, fmt.Errorf("geo: unknown mode %q", mode)
}

var (
	_ Locator = Fixed{}
	_ Locator = (*IPLocator)(nil)
)
