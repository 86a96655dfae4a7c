package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SnapshotConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	PixelRatio  float64 `yaml:"pixel_ratio"`
	PointRadius float64 `yaml:"point_radius"`
	Background  string  `yaml:"background"`
}

type Config struct {
	DefaultAttribute   string         `yaml:"default_attribute"`
	ExcludedAttributes []string       `yaml:"excluded_attributes"`
	MaxPixelRatio      float64        `yaml:"max_pixel_ratio"`
	Highlight          string         `yaml:"highlight"`
	Palette            []string       `yaml:"palette"`
	Gradient           []string       `yaml:"gradient"`
	Snapshot           SnapshotConfig `yaml:"snapshot"`
}

func DefaultConfig() *Config {
	return &Config{
		DefaultAttribute:   "Labels",
		ExcludedAttributes: []string{"Tags"},
		MaxPixelRatio:      1.5,
		Highlight:          "#FFA500",
		Palette: []string{
			"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
			"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
		},
		Gradient: []string{"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"},
		Snapshot: SnapshotConfig{
			Width:       800,
			Height:      600,
			PixelRatio:  1,
			PointRadius: 2,
			Background:  "#0c0c0b",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultConfig().Palette
	}
	if len(cfg.Gradient) == 0 {
		cfg.Gradient = DefaultConfig().Gradient
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
