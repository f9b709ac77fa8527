package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/scene"
)

// Theme is a colour scheme shared by the terminal, SVG and window
// renderers. The chrome colours style panels and text; Inks colours scene
// primitives by role.
type Theme struct {
	Name string

	Title      lipgloss.Color
	Subtitle   lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Faint      lipgloss.Color
	Alert      lipgloss.Color

	Inks map[scene.Color]lipgloss.Color
}

var (
	// ThemeChalk uses the lesson colours: blue values, amber focus, green
	// output, purple ownership.
	ThemeChalk = Theme{
		Name:       "chalk",
		Title:      "#ffd54f",
		Subtitle:   "#64b5f6",
		Background: "#1d2321",
		Text:       "#eceff1",
		Faint:      "#6b7b75",
		Alert:      "#e57373",
		Inks: map[scene.Color]lipgloss.Color{
			scene.Base:    "#64b5f6",
			scene.Active:  "#ffd54f",
			scene.Muted:   "#546e7a",
			scene.Danger:  "#e57373",
			scene.Success: "#81c784",
			scene.Accent:  "#ff8a65",
			scene.Owner:   "#9575cd",
			scene.Text:    "#eceff1",
		},
	}

	ThemeBlueprint = Theme{
		Name:       "blueprint",
		Title:      "#e0fbfc",
		Subtitle:   "#98c1d9",
		Background: "#0b2545",
		Text:       "#e0fbfc",
		Faint:      "#3d5a80",
		Alert:      "#ee6c4d",
		Inks: map[scene.Color]lipgloss.Color{
			scene.Base:    "#98c1d9",
			scene.Active:  "#ffffff",
			scene.Muted:   "#3d5a80",
			scene.Danger:  "#ee6c4d",
			scene.Success: "#a8dadc",
			scene.Accent:  "#ffb703",
			scene.Owner:   "#c8b6ff",
			scene.Text:    "#e0fbfc",
		},
	}

	// ThemePaper is for light terminals and printed SVGs.
	ThemePaper = Theme{
		Name:       "paper",
		Title:      "#3b3b98",
		Subtitle:   "#227093",
		Background: "#fbf8f1",
		Text:       "#2d3436",
		Faint:      "#a4a4a4",
		Alert:      "#c0392b",
		Inks: map[scene.Color]lipgloss.Color{
			scene.Base:    "#227093",
			scene.Active:  "#e67e22",
			scene.Muted:   "#b2bec3",
			scene.Danger:  "#c0392b",
			scene.Success: "#27ae60",
			scene.Accent:  "#8e44ad",
			scene.Owner:   "#d35400",
			scene.Text:    "#2d3436",
		},
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Title:      "#39ff14",
		Subtitle:   "#20c20e",
		Background: "#020a02",
		Text:       "#b6ffb0",
		Faint:      "#1f5f1a",
		Alert:      "#ffb000",
		Inks: map[scene.Color]lipgloss.Color{
			scene.Base:    "#20c20e",
			scene.Active:  "#e4ff7a",
			scene.Muted:   "#1f5f1a",
			scene.Danger:  "#ffb000",
			scene.Success: "#39ff14",
			scene.Accent:  "#8fff6b",
			scene.Owner:   "#c2ff9e",
			scene.Text:    "#b6ffb0",
		},
	}

	ThemeRust = Theme{
		Name:       "rust",
		Title:      "#f74c00",
		Subtitle:   "#dea584",
		Background: "#1b1210",
		Text:       "#f5e6dc",
		Faint:      "#6e4b3a",
		Alert:      "#ff5f56",
		Inks: map[scene.Color]lipgloss.Color{
			scene.Base:    "#dea584",
			scene.Active:  "#f74c00",
			scene.Muted:   "#6e4b3a",
			scene.Danger:  "#ff5f56",
			scene.Success: "#a3be8c",
			scene.Accent:  "#ebcb8b",
			scene.Owner:   "#b48ead",
			scene.Text:    "#f5e6dc",
		},
	}

	Themes = []Theme{ThemeChalk, ThemeBlueprint, ThemePaper, ThemePhosphor, ThemeRust}
)

// GetTheme returns a theme by name, falling back to chalk.
func GetTheme(name string) Theme {
	if t, ok := LookupTheme(name); ok {
		return t
	}
	return ThemeChalk
}

func LookupTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Ink resolves a scene colour role. Roles the theme does not list draw in
// the text colour.
func (t Theme) Ink(c scene.Color) lipgloss.Color {
	if col, ok := t.Inks[c]; ok {
		return col
	}
	return t.Text
}

// RGB is Ink as 8-bit channels. Non-hex colours come back white.
func (t Theme) RGB(c scene.Color) (r, g, b uint8) {
	ri, gi, bi := parseHex(string(t.Ink(c)))
	return uint8(ri), uint8(gi), uint8(bi)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
