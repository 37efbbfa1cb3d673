package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Audio      AudioConfig      `yaml:"audio"`
	Waveform   WaveformConfig   `yaml:"waveform"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StorageConfig contains note store configuration.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AudioConfig contains audio capture parameters.
type AudioConfig struct {
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	BitDepth   int    `yaml:"bit_depth"`
	ChunkMs    int    `yaml:"chunk_ms"` // capture chunk period in milliseconds
	MimeType   string `yaml:"mime_type"`
}

// WaveformConfig contains waveform renderer configuration.
type WaveformConfig struct {
	FrameIntervalMs int     `yaml:"frame_interval_ms"`
	CanvasWidth     float64 `yaml:"canvas_width"`
	CanvasHeight    float64 `yaml:"canvas_height"`
}

// EnrichmentConfig contains external AI service configuration. An empty
// api_key disables enrichment; notes are finalized with default content
// instead.
type EnrichmentConfig struct {
	TranscriptionEndpoint string  `yaml:"transcription_endpoint"`
	ChatEndpoint          string  `yaml:"chat_endpoint"`
	APIKey                string  `yaml:"api_key"`
	TranscribeModel       string  `yaml:"transcribe_model"`
	ChatModel             string  `yaml:"chat_model"`
	Temperature           float64 `yaml:"temperature"`
	MaxTokens             int     `yaml:"max_tokens"`
	Timeout               int     `yaml:"timeout"` // seconds
	MaxConcurrent         int     `yaml:"max_concurrent"`
}

// MetricsConfig contains the optional Prometheus listener configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Waveform.Validate(); err != nil {
		return fmt.Errorf("waveform config: %w", err)
	}

	if err := c.Enrichment.Validate(); err != nil {
		return fmt.Errorf("enrichment config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates storage configuration.
func (s *StorageConfig) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	return nil
}

// Validate validates audio configuration.
func (a *AudioConfig) Validate() error {
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", a.SampleRate)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono), got %d", a.Channels)
	}

	if a.BitDepth != 16 {
		return fmt.Errorf("bit_depth must be 16, got %d", a.BitDepth)
	}

	if a.ChunkMs < 10 || a.ChunkMs > 5000 {
		return fmt.Errorf("chunk_ms must be between 10 and 5000, got %d", a.ChunkMs)
	}

	if a.MimeType == "" {
		return fmt.Errorf("mime_type cannot be empty")
	}

	return nil
}

// Validate validates waveform configuration.
func (w *WaveformConfig) Validate() error {
	if w.FrameIntervalMs < 1 || w.FrameIntervalMs > 1000 {
		return fmt.Errorf("frame_interval_ms must be between 1 and 1000, got %d", w.FrameIntervalMs)
	}

	if w.CanvasWidth <= 0 {
		return fmt.Errorf("canvas_width must be positive, got %f", w.CanvasWidth)
	}

	if w.CanvasHeight <= 0 {
		return fmt.Errorf("canvas_height must be positive, got %f", w.CanvasHeight)
	}

	return nil
}

// Validate validates enrichment configuration. An empty api_key is valid
// and disables the feature; endpoints are only required when enabled.
func (e *EnrichmentConfig) Validate() error {
	if e.APIKey == "" {
		return nil
	}

	if e.TranscriptionEndpoint == "" {
		return fmt.Errorf("transcription_endpoint cannot be empty when api_key is set")
	}

	if e.ChatEndpoint == "" {
		return fmt.Errorf("chat_endpoint cannot be empty when api_key is set")
	}

	if e.Temperature < 0 || e.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", e.Temperature)
	}

	if e.MaxTokens < 0 {
		return fmt.Errorf("max_tokens cannot be negative, got %d", e.MaxTokens)
	}

	if e.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %d", e.Timeout)
	}

	if e.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent cannot be negative, got %d", e.MaxConcurrent)
	}

	return nil
}

// Validate validates metrics configuration.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.Port < 1 || m.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", m.Port)
		}

		if m.Address == "" {
			return fmt.Errorf("address cannot be empty when metrics are enabled")
		}
	}

	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	// Output accepts stdout, stderr, or a file path.
	return nil
}

// GetFrameInterval returns the waveform frame interval as a time.Duration.
func (w *WaveformConfig) GetFrameInterval() time.Duration {
	return time.Duration(w.FrameIntervalMs) * time.Millisecond
}

// GetChunkPeriod returns the capture chunk period as a time.Duration.
func (a *AudioConfig) GetChunkPeriod() time.Duration {
	return time.Duration(a.ChunkMs) * time.Millisecond
}

// GetTimeoutDuration returns the enrichment timeout as a time.Duration.
func (e *EnrichmentConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(e.Timeout) * time.Second
}
