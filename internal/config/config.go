package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTheme        = "chalk"
	DefaultFadeMs       = 150
	DefaultCanvasWidth  = 60
	DefaultCanvasHeight = 18
	DefaultPreset       = "front"
)

type Config struct {
	Theme       string       `yaml:"theme"`
	FadeMs      int          `yaml:"fade_ms"`
	FadeAll     bool         `yaml:"fade_all"`
	AddressSeed int64        `yaml:"address_seed"`
	Camera      CameraConfig `yaml:"camera"`
	Canvas      CanvasConfig `yaml:"canvas"`
	Scripts     []string     `yaml:"scripts"`
	StartTopic  string       `yaml:"start_topic"`
}

// CameraConfig is the initial orbit of the scene camera. A named preset is
// applied first; explicit angles then override it.
type CameraConfig struct {
	Preset string  `yaml:"preset"`
	RotX   float64 `yaml:"rot_x"`
	RotY   float64 `yaml:"rot_y"`
	Zoom   float64 `yaml:"zoom"`
}

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	p := Presets[DefaultPreset]
	return &Config{
		Theme:  DefaultTheme,
		FadeMs: DefaultFadeMs,
		Camera: CameraConfig{
			Preset: DefaultPreset,
			RotX:   p.RotX,
			RotY:   p.RotY,
			Zoom:   p.Zoom,
		},
		Canvas: CanvasConfig{
			Width:  DefaultCanvasWidth,
			Height: DefaultCanvasHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) normalize() {
	if c.FadeMs < 0 {
		c.FadeMs = 0
	}
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = DefaultCanvasWidth
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = DefaultCanvasHeight
	}
	if c.Camera.Zoom <= 0 {
		c.Camera.Zoom = 1
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

// Fade is the step transition delay for a topic; topics that don't ask
// for a fade get one only with fade_all.
func (c *Config) Fade(topicFades bool) time.Duration {
	if !topicFades && !c.FadeAll {
		return 0
	}
	return time.Duration(c.FadeMs) * time.Millisecond
}

// ApplyPreset replaces the camera angles with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown camera preset %q", name)
	}
	c.Camera = CameraConfig{Preset: name, RotX: p.RotX, RotY: p.RotY, Zoom: p.Zoom}
	return nil
}
