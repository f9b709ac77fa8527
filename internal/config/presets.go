package config

import "sort"

// CameraPreset is a named starting orbit.
type CameraPreset struct {
	Description string
	RotX, RotY  float64
	Zoom        float64
}

var Presets = map[string]CameraPreset{
	"front": {Description: "straight on, slight tilt", RotX: 0.15, RotY: -0.25, Zoom: 1.0},
	"flat":  {Description: "orthogonal front view", RotX: 0, RotY: 0, Zoom: 1.0},
	"top":   {Description: "looking down", RotX: 1.1, RotY: 0, Zoom: 0.9},
	"side":  {Description: "three-quarter view", RotX: 0.35, RotY: -0.8, Zoom: 1.0},
	"close": {Description: "zoomed in", RotX: 0.15, RotY: -0.25, Zoom: 1.6},
}

func GetPreset(name string) *CameraPreset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

// ListPresets returns preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
