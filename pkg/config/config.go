package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Audio    AudioConfig    `yaml:"audio"`
	LogLevel string         `yaml:"log_level"`
}

// GraphicsConfig contains window and presentation configuration
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FrameRate  int  `yaml:"framerate"` // cap when vsync is off, 0 = uncapped
}

// PipelineConfig contains post-processing defaults
type PipelineConfig struct {
	BlurRadius     float32  `yaml:"blur_radius"`
	BlurCurve      float32  `yaml:"blur_curve"`
	BloomThreshold float32  `yaml:"bloom_threshold"`
	BitStep        float32  `yaml:"bit_step"`
	GrainSize      float32  `yaml:"grain_size"`
	Seed           int64    `yaml:"seed"`    // 0 means time-based
	Effects        []string `yaml:"effects"` // effects enabled at startup
}

// AudioConfig contains configuration for the ambient audio layer
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FrameRate:  60,
		},
		Pipeline: PipelineConfig{
			BlurRadius:     10,
			BlurCurve:      1.0,
			BloomThreshold: 0.7,
			BitStep:        16,
			GrainSize:      8,
			Seed:           0,
			Effects:        []string{},
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.4,
		},
		LogLevel: "info",
	}
}

// Load loads the configuration from a file, falling back to defaults
func Load(filePath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %v", err)
	}

	return cfg, nil
}

// Save saves the configuration to a file
func Save(cfg *Config, filePath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}
