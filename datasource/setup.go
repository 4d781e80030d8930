package datasource

import (
	"net/http"

	"go.uber.org/zap"
)

// NewBackend builds the backend client described by config, rate limited when enabled
func NewBackend(config *Config, logger *zap.SugaredLogger) (QueryStore, WeatherBackend) {
	client := NewClient(config.Backend.BaseURL,
		WithHTTPClient(&http.Client{Timeout: config.Backend.Timeout.Duration}),
		WithLogger(logger),
		WithRetry(config.Backend.RetryAttempts, config.Backend.RetryDelay.Duration),
	)

	if !config.RateLimit.Enabled {
		return client, client
	}

	rps, burst := config.RateLimit.RPS, config.RateLimit.Burst
	logger.Infow("applied rate limiting to backend", "rps", rps, "burst", burst)
	return NewRateLimitedQueryStore(client, rps, burst), NewRateLimitedProvider(client, rps, rps, burst)
}
