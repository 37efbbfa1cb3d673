package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/archanaprabhat/VoiceNotes/internal/capture"
	"github.com/archanaprabhat/VoiceNotes/internal/config"
	"github.com/archanaprabhat/VoiceNotes/internal/enrichment"
	"github.com/archanaprabhat/VoiceNotes/internal/metrics"
	"github.com/archanaprabhat/VoiceNotes/internal/playback"
	"github.com/archanaprabhat/VoiceNotes/internal/recorder"
	"github.com/archanaprabhat/VoiceNotes/internal/store"
	"github.com/archanaprabhat/VoiceNotes/internal/waveform"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "voicenotesd"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.String("storage_path", cfg.Storage.Path),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Int("frame_interval_ms", cfg.Waveform.FrameIntervalMs),
		slog.Bool("enrichment_enabled", cfg.Enrichment.APIKey != ""),
		slog.String("transcription_endpoint", cfg.Enrichment.TranscriptionEndpoint),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Open the note store
	noteStore, err := store.Open(cfg.Storage.Path)
	if err != nil {
		logger.Error("Failed to open note store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer noteStore.Close()
	logger.Info("Note store opened", slog.String("path", cfg.Storage.Path))

	// Create the enrichment client and pipeline
	enrichmentClient, err := enrichment.NewClient(enrichment.Config{
		TranscriptionEndpoint: cfg.Enrichment.TranscriptionEndpoint,
		ChatEndpoint:          cfg.Enrichment.ChatEndpoint,
		APIKey:                cfg.Enrichment.APIKey,
		TranscribeModel:       cfg.Enrichment.TranscribeModel,
		ChatModel:             cfg.Enrichment.ChatModel,
		Temperature:           cfg.Enrichment.Temperature,
		MaxTokens:             cfg.Enrichment.MaxTokens,
		Timeout:               cfg.Enrichment.GetTimeoutDuration(),
		MaxConcurrent:         cfg.Enrichment.MaxConcurrent,
	})
	if err != nil {
		logger.Error("Failed to create enrichment client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline, err := enrichment.NewPipeline(enrichmentClient, noteStore, logger, appMetrics, cfg.Audio.SampleRate)
	if err != nil {
		logger.Error("Failed to create enrichment pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Enrichment pipeline initialized",
		slog.Bool("disabled", enrichmentClient.Config().Disabled()))

	// Create the capture device. Headless builds use the synthetic
	// microphone; UI builds substitute a platform device.
	mic, err := capture.NewSyntheticMicrophone(capture.SyntheticConfig{
		SampleRate:  cfg.Audio.SampleRate,
		ChunkPeriod: cfg.Audio.GetChunkPeriod(),
	})
	if err != nil {
		logger.Error("Failed to create capture device", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create the recording controller
	canvas := &waveform.NullCanvas{
		Width:  cfg.Waveform.CanvasWidth,
		Height: cfg.Waveform.CanvasHeight,
	}
	rec, err := recorder.NewController(mic, noteStore, pipeline, canvas,
		recorder.Config{FrameInterval: cfg.Waveform.GetFrameInterval()}, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to create recording controller", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Recording controller initialized")

	// Create the playback controller
	player, err := playback.NewController(noteStore, &playback.ClockOutput{}, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to create playback controller", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Playback controller initialized")

	// Start the optional metrics listener
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Metrics.Address, cfg.Metrics.Port),
			Handler: mux,
		}

		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics listener failed", slog.String("error", err.Error()))
			}
		}()

		logger.Info("Metrics listener started",
			slog.String("address", metricsServer.Addr))
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...")

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Starting graceful shutdown...")

	// Discard any recording still in flight; its resources must be released.
	if _, err := rec.Stop(context.Background(), false); err != nil {
		logger.Error("Error stopping recording", slog.String("error", err.Error()))
	}

	// Stop playback
	player.Stop()

	// Wait for in-flight enrichment tasks so no note is left in the
	// processing state by the shutdown itself.
	pipeline.Wait()

	// Stop the metrics listener
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error stopping metrics listener", slog.String("error", err.Error()))
		}
	}

	// Final statistics
	stats := enrichmentClient.GetStats()
	logger.Info("Final enrichment statistics",
		slog.Uint64("total_requests", stats.TotalRequests),
		slog.Uint64("success_requests", stats.SuccessRequests),
		slog.Uint64("failed_requests", stats.FailedRequests),
	)

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
