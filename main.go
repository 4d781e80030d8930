package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-desk/api"
	"weather-desk/datasource"
	"weather-desk/geo"
	"weather-desk/logging"
	"weather-desk/panel"
	"weather-desk/queries"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the UI server on")
	configFile := flag.String("config", "config.yaml", "Path to configuration file (.yaml or .json)")
	backendURL := flag.String("backend", "", "Backend base URL, overrides the configuration")
	enableRateLimiting := flag.Bool("rate-limit", false, "Enable backend rate limiting")
	flag.Parse()

	// Load configuration
	config, err := datasource.LoadConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: %s not found, using defaults", *configFile)
		config, err = datasource.DefaultConfig(), nil
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	if *backendURL != "" {
		config.Backend.BaseURL = *backendURL
	}
	if *enableRateLimiting {
		config.RateLimit.Enabled = true
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(config.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	store, weather := datasource.NewBackend(config, logger)

	locator, err := geo.New(config.Geo.Mode, config.Geo.Latitude, config.Geo.Longitude, config.Geo.IPURL)
	if err != nil {
		logger.Fatalf("geolocation: %v", err)
	}

	server := api.NewServer(
		queries.NewManager(store, logger),
		panel.New(weather, weather, locator, logger),
		config.Layout.Regions,
		*port,
		logger,
	)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the UI server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server stopped: %v", err)
		}
	}()
	logger.Infow("weather desk ready", "port", *port, "backend", config.Backend.BaseURL)

	// Wait for shutdown signal
	sig := <-shutdownChan
	logger.Infow("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warnw("error during shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}
