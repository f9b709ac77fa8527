package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != DefaultTheme {
		t.Errorf("expected theme %s, got %s", DefaultTheme, cfg.Theme)
	}
	if cfg.FadeMs != 150 {
		t.Errorf("expected fade 150ms, got %d", cfg.FadeMs)
	}
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		t.Error("canvas size should be positive")
	}
	if cfg.Camera.Preset != "front" {
		t.Errorf("expected front camera, got %s", cfg.Camera.Preset)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepviz.yaml")
	data := "theme: blueprint\nfade_ms: 0\ncanvas:\n  width: 80\ncamera:\n  preset: top\n  rot_x: 1.2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "blueprint" {
		t.Errorf("theme = %s", cfg.Theme)
	}
	if cfg.FadeMs != 0 {
		t.Errorf("fade = %d, want 0", cfg.FadeMs)
	}
	if cfg.Canvas.Width != 80 || cfg.Canvas.Height != DefaultCanvasHeight {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Camera.RotX != 1.2 {
		t.Errorf("rot_x = %f", cfg.Camera.RotX)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("theme: [unclosed"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "phosphor"
	cfg.Scripts = []string{"packs"}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Theme != "phosphor" || len(got.Scripts) != 1 {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestFade(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		fadeAll, topic bool
		want           time.Duration
	}{
		{false, false, 0},
		{false, true, 150 * time.Millisecond},
		{true, false, 150 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg.FadeAll = tt.fadeAll
		if got := cfg.Fade(tt.topic); got != tt.want {
			t.Errorf("Fade(fadeAll=%v, topic=%v) = %v, want %v", tt.fadeAll, tt.topic, got, tt.want)
		}
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("top")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.RotX != 1.1 {
		t.Errorf("expected rot_x 1.1, got %f", p.RotX)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("close"); err != nil {
		t.Fatal(err)
	}
	if cfg.Camera.Zoom != 1.6 {
		t.Errorf("zoom = %f", cfg.Camera.Zoom)
	}
	if err := cfg.ApplyPreset("nope"); err == nil {
		t.Error("expected error")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("got %d names", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Error("presets not sorted")
		}
	}
}
