// Package config loads the small JSON document that configures the core's
// runtime knobs: APU sample rate, palette tint file, and mapper strictness.
// Window/video/input/save-state settings are a frontend concern and are not
// modeled here.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the emulator core's configurable knobs.
type Config struct {
	Audio   AudioConfig   `json:"audio"`
	Palette PaletteConfig `json:"palette"`
	Mapper  MapperConfig  `json:"mapper"`
}

// AudioConfig contains APU sample-generation settings.
type AudioConfig struct {
	SampleRate int  `json:"sample_rate"`
	Enabled    bool `json:"enabled"`
}

// PaletteConfig selects the RGB decode table.
type PaletteConfig struct {
	// Path to an external 1536-byte palette file. Empty means use the
	// built-in NTSC table.
	Path string `json:"path"`
}

// MapperConfig controls how strictly the cartridge loader treats headers
// and mapper numbers it doesn't recognize.
type MapperConfig struct {
	// StrictHeader is read from the config file, but the cartridge loader
	// does not consult it: headers are decoded the same way either way.
	StrictHeader bool `json:"strict_header"`
}

// Default returns the configuration used when no config file is supplied.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: 44100,
			Enabled:    true,
		},
		Palette: PaletteConfig{
			Path: "",
		},
		Mapper: MapperConfig{
			StrictHeader: false,
		},
	}
}

// Load reads and parses a JSON config file, starting from Default so that
// fields the file omits keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
