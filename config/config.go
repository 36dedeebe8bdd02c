// Package config holds the settings of a rendering context and the demo window.
//
// Settings are read from YAML on top of Default, so a file only needs
// the keys it wants to change.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Window struct {
	Title  string `yaml:"title"`
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

type Render struct {
	// InverseDepth maps depth to [1, 0] and tests with GREATER, which gives
	// better precision far from the camera
	InverseDepth  bool `yaml:"inverse_depth"`
	Multisampling bool `yaml:"multisampling"`

	// StrictShaders makes shader compile/link failures return errors.
	// When false failures are logged and the program silently does nothing on bind.
	StrictShaders bool `yaml:"strict_shaders"`

	// BufferCacheCapacity is the hard cap of distinct (geometry, shader) pairs.
	// Going over it is an error, nothing is ever evicted.
	BufferCacheCapacity int `yaml:"buffer_cache_capacity"`

	MaxSamplers uint32 `yaml:"max_samplers"`
}

type Content struct {
	DataDir      string `yaml:"data_dir"`
	WatchShaders bool   `yaml:"watch_shaders"`
}

type Config struct {
	Window  Window  `yaml:"window"`
	Render  Render  `yaml:"render"`
	Content Content `yaml:"content"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "nrender",
			Width:  800,
			Height: 600,
		},
		Render: Render{
			Multisampling:       true,
			BufferCacheCapacity: 50,
			MaxSamplers:         8,
		},
		Content: Content{
			DataDir: "./res",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (Config, error) {

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {

	var errs []error
	if c.Window.Width == 0 || c.Window.Height == 0 {
		errs = append(errs, fmt.Errorf("window size must be non-zero, got %dx%d", c.Window.Width, c.Window.Height))
	}

	if c.Render.BufferCacheCapacity <= 0 {
		errs = append(errs, fmt.Errorf("render.buffer_cache_capacity must be positive, got %d", c.Render.BufferCacheCapacity))
	}

	if c.Render.MaxSamplers == 0 {
		errs = append(errs, errors.New("render.max_samplers must be positive"))
	}

	return errors.Join(errs...)
}
