// Package config loads and validates server configuration.
//
// Configuration is a JSON document. Any field left out of the file keeps its
// value from Default, so a file only needs to name what it changes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/dental-xray-mcp/internal/contour"
	"github.com/ironsheep/dental-xray-mcp/internal/diagnosis"
	"github.com/ironsheep/dental-xray-mcp/internal/imaging"
	"github.com/ironsheep/dental-xray-mcp/internal/layout"
	"github.com/ironsheep/dental-xray-mcp/internal/pipeline"
	"github.com/ironsheep/dental-xray-mcp/internal/render"
)

// Config holds the application configuration.
type Config struct {
	Classifier diagnosis.Thresholds `json:"classifier"`
	Contour    contour.Options      `json:"contour"`
	Layout     LayoutConfig         `json:"layout"`
	Render     render.Options       `json:"render"`
	Output     OutputConfig         `json:"output"`
}

// LayoutConfig holds label placement settings.
type LayoutConfig struct {
	MaxAttempts int `json:"max_attempts"`
	Workers     int `json:"workers"` // Enrichment concurrency; 0 = GOMAXPROCS
}

// OutputConfig holds settings for the annotated image artifact.
type OutputConfig struct {
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Classifier: diagnosis.DefaultThresholds,
		Contour:    contour.DefaultOptions(),
		Layout: LayoutConfig{
			MaxAttempts: layout.MaxAttempts,
		},
		Render: render.DefaultOptions(),
		Output: OutputConfig{
			Format:  string(imaging.FormatJPEG),
			Quality: 95,
		},
	}
}

// LoadFromFile loads configuration from a JSON file on top of Default and
// validates the result.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a JSON file, creating its directory.
func (c *Config) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	th := c.Classifier
	ordered := []struct {
		name  string
		value float64
	}{
		{"low", th.Low},
		{"fracture", th.Fracture},
		{"moderate", th.Moderate},
		{"healthy", th.Healthy},
		{"strong_healthy", th.StrongHealthy},
		{"override", th.Override},
	}
	for i, v := range ordered {
		if v.value < 0 || v.value > 1 {
			return fmt.Errorf("classifier.%s must be between 0 and 1", v.name)
		}
		if i > 0 && ordered[i-1].value > v.value {
			return fmt.Errorf("classifier.%s must not exceed classifier.%s", ordered[i-1].name, v.name)
		}
	}

	if c.Contour.Padding < 0 {
		return fmt.Errorf("contour.padding must not be negative")
	}
	if c.Contour.Iterations < 1 {
		return fmt.Errorf("contour.iterations must be positive")
	}
	if c.Contour.Epsilon <= 0 || c.Contour.Epsilon >= 1 {
		return fmt.Errorf("contour.epsilon must be between 0 and 1")
	}
	if c.Contour.CloseRadius < 0 || c.Contour.BlurRadius < 0 {
		return fmt.Errorf("contour radii must not be negative")
	}

	if c.Layout.MaxAttempts < 1 {
		return fmt.Errorf("layout.max_attempts must be positive")
	}
	if c.Layout.Workers < 0 {
		return fmt.Errorf("layout.workers must not be negative")
	}

	if c.Render.OutlineWidth < 1 {
		return fmt.Errorf("render.outline_width must be positive")
	}
	if c.Render.LabelPadding < 0 || c.Render.BorderWidth < 0 {
		return fmt.Errorf("render.label_padding and render.border_width must not be negative")
	}

	if _, err := imaging.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	return nil
}

// PipelineOptions converts the configuration into pipeline settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Thresholds:     c.Classifier,
		Contour:        c.Contour,
		Render:         c.Render,
		LayoutAttempts: c.Layout.MaxAttempts,
		Workers:        c.Layout.Workers,
	}
}

// OutputFormat returns the validated output format.
func (c *Config) OutputFormat() imaging.Format {
	f, err := imaging.ParseFormat(c.Output.Format)
	if err != nil {
		return imaging.FormatJPEG
	}
	return f
}
