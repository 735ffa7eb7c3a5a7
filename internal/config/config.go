// Package config loads the figura driver configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/figura"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up by the driver.
const DefaultPath = "figura.yaml"

// Config is the driver configuration.
type Config struct {
	Canvas Canvas `yaml:"canvas"`
	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
	FPS    int    `yaml:"fps"`
	Frames int    `yaml:"frames"`
	Parse  Parse  `yaml:"parse"`
}

// Canvas describes the render target.
type Canvas struct {
	Background string `yaml:"background"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
}

// Output controls frame files. An empty Dir disables rendering to disk.
type Output struct {
	Dir   string `yaml:"dir"`
	Every int    `yaml:"every"`
}

// Parse mirrors figura.ParseOptions.
type Parse struct {
	Comments bool `yaml:"comments"`
}

// Log controls driver logging.
type Log struct {
	Level string `yaml:"level"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}

	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}

	return b.String()
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: Canvas{Width: 800, Height: 600, Background: "#ffffff"},
		FPS:    60,
		Frames: 120,
		Output: Output{Every: 1},
		Log:    Log{Level: "info"},
	}
}

// Load reads and validates a configuration file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}

	return cfg, nil
}

// Decode reads and validates a configuration. Unknown keys are rejected.
// An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs ValidationError
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := figura.ParseColor(c.Canvas.Background); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("canvas.background: %v", err))
	}
	if c.FPS <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("fps must be positive, got %d", c.FPS))
	}
	if c.Frames < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("frames must not be negative, got %d", c.Frames))
	}
	if c.Output.Every < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("output.every must be at least 1, got %d", c.Output.Every))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level: %v", err))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}

	return nil
}

// Background returns the parsed canvas background.
func (c *Config) Background() figura.Color {
	col, err := figura.ParseColor(c.Canvas.Background)
	if err != nil {
		return figura.SetColorRGB(255, 255, 255)
	}

	return col
}

// FrameStep returns the nominal frame duration in milliseconds.
func (c *Config) FrameStep() float64 {
	return 1000 / float64(c.FPS)
}

// FrameInterval returns the nominal frame duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

// ParseOptions returns the parser options.
func (c *Config) ParseOptions() *figura.ParseOptions {
	return &figura.ParseOptions{Comments: c.Parse.Comments}
}

// RunOptions returns interpreter options placing built-in shapes at the
// canvas center.
func (c *Config) RunOptions(logger *slog.Logger) *figura.RunOptions {
	return &figura.RunOptions{
		Logger: logger,
		Origin: figura.Vec2{X: float64(c.Canvas.Width) / 2, Y: float64(c.Canvas.Height) / 2},
	}
}

// parseLevel maps a level name to slog. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}
