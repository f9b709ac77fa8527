package gui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/stepviz/internal/audio"
	"github.com/san-kum/stepviz/internal/config"
	"github.com/san-kum/stepviz/internal/logging"
	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
)

const (
	screenW = 1280
	screenH = 720

	buttonW   = 220
	buttonH   = 44
	buttonGap = 16
	menuCols  = 4

	camDistance = 22.0
	orbitStep   = 0.05
	fontPath    = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// Options configure a window session.
type Options struct {
	Registry *topics.Registry
	Config   *config.Config
	Start    string
	// Sound plays a tone on every step change.
	Sound bool
}

type App struct {
	Reg      *topics.Registry
	Cfg      *config.Config
	Keys     []string
	Names    map[string]string
	Selected int
	InMenu   bool
	Status   string

	Topic   topics.Topic
	Player  *playback.Player
	lastPos int

	Camera    rl.Camera3D
	RotX      float64
	RotY      float64
	Distance  float64
	AutoOrbit bool

	Theme viz.Theme
	Font  rl.Font
	Audio *audio.Processor
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "stepviz")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg := opts.Registry
	if reg == nil {
		reg = topics.WithSeed(cfg.AddressSeed)
	}
	app := &App{
		Reg:    reg,
		Cfg:    cfg,
		InMenu: true,
		Theme:  viz.GetTheme(cfg.Theme),
		Font:   loadFont(),
	}
	app.Keys = reg.Keys()
	app.Names = make(map[string]string, len(app.Keys))
	for _, t := range reg.All() {
		app.Names[t.Key()] = t.Name()
	}

	if opts.Sound {
		proc := audio.NewProcessor()
		if err := proc.Start(); err == nil {
			app.Audio = proc
		}
	}
	if opts.Start != "" {
		app.open(opts.Start)
	}
	return app
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(opts)
	defer app.close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) close() {
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

func (a *App) open(key string) {
	t, err := a.Reg.Lookup(key)
	if err == nil {
		var ctrl *playback.Controller
		ctrl, err = playback.New(t.Len())
		if err == nil {
			a.Topic = t
			a.Player = playback.NewPlayer(ctrl, a.Cfg.Fade(t.Fades()))
			a.lastPos = 0
			a.InMenu = false
			a.Status = ""
			a.resetCamera()
			logging.Logger().Info("topic opened", "key", key, "ui", "gui")
			return
		}
	}
	logging.Logger().Warn("topic open failed", "key", key, "err", err)
	a.Status = err.Error()
	a.InMenu = true
}

func (a *App) back() {
	if a.Topic != nil {
		logging.Logger().Info("topic closed", "key", a.Topic.Key(), "ui", "gui")
	}
	a.Topic = nil
	a.Player = nil
	a.InMenu = true
}

func (a *App) resetCamera() {
	cam := viz.NewCamera()
	if a.Topic != nil {
		viz.FitTopic(cam, a.Topic)
	}
	a.RotX = a.Cfg.Camera.RotX
	a.RotY = a.Cfg.Camera.RotY
	a.Distance = camDistance / math.Max(0.1, a.Cfg.Camera.Zoom)
	a.AutoOrbit = false
	a.Camera = rl.NewCamera3D(
		orbitPosition(vec(cam.Target), a.RotX, a.RotY, a.Distance),
		vec(cam.Target),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
}

// orbitPosition places the eye on a sphere around target. rotX tilts the
// view from above, rotY swings it around the vertical axis.
func orbitPosition(target rl.Vector3, rotX, rotY, dist float64) rl.Vector3 {
	x := dist * math.Cos(rotX) * math.Sin(-rotY)
	y := dist * math.Sin(rotX)
	z := dist * math.Cos(rotX) * math.Cos(rotY)
	return rl.NewVector3(target.X+float32(x), target.Y+float32(y), target.Z+float32(z))
}

// gridMove moves a cursor over n cells laid out in cols columns.
func gridMove(cursor, n, cols, dx, dy int) int {
	next := cursor + dx + dy*cols
	if next < 0 || next >= n {
		return cursor
	}
	return next
}

// menuRects lays out n buttons row by row from (x, y).
func menuRects(n, cols int, x, y float32) []rl.Rectangle {
	out := make([]rl.Rectangle, n)
	for i := range out {
		col, row := i%cols, i/cols
		out[i] = rl.NewRectangle(
			x+float32(col)*(buttonW+buttonGap),
			y+float32(row)*(buttonH+buttonGap),
			buttonW, buttonH)
	}
	return out
}

func pressed(keys ...int32) bool {
	for _, k := range keys {
		if rl.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// Update handles one frame of input. It returns false when the app should
// exit.
func (a *App) Update() bool {
	if a.InMenu {
		return a.updateMenu()
	}
	a.updateTopic()
	return true
}

func (a *App) updateMenu() bool {
	if pressed(rl.KeyQ) {
		return false
	}
	n := len(a.Keys)
	switch {
	case pressed(rl.KeyRight, rl.KeyL):
		a.Selected = gridMove(a.Selected, n, menuCols, 1, 0)
	case pressed(rl.KeyLeft, rl.KeyH):
		a.Selected = gridMove(a.Selected, n, menuCols, -1, 0)
	case pressed(rl.KeyDown, rl.KeyJ):
		a.Selected = gridMove(a.Selected, n, menuCols, 0, 1)
	case pressed(rl.KeyUp, rl.KeyK):
		a.Selected = gridMove(a.Selected, n, menuCols, 0, -1)
	case pressed(rl.KeyEnter, rl.KeySpace):
		if n > 0 {
			a.open(a.Keys[a.Selected])
		}
		return true
	}

	mouse := rl.GetMousePosition()
	for i, r := range menuRects(n, menuCols, 50, 160) {
		if rl.CheckCollisionPointRec(mouse, r) {
			a.Selected = i
			if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
				a.open(a.Keys[i])
			}
		}
	}
	return true
}

func (a *App) updateTopic() {
	now := time.Now()
	switch {
	case pressed(rl.KeyEscape, rl.KeyB):
		a.back()
		return
	case pressed(rl.KeyRight, rl.KeyL, rl.KeyN, rl.KeySpace):
		a.Player.Next(now)
	case pressed(rl.KeyLeft, rl.KeyH, rl.KeyP):
		a.Player.Prev(now)
	case pressed(rl.KeyHome, rl.KeyG, rl.KeyR):
		a.Player.Reset(now)
	case pressed(rl.KeyZero):
		a.resetCamera()
	case pressed(rl.KeyO):
		a.AutoOrbit = !a.AutoOrbit
	}
	a.Player.Settle(now)

	if pos := a.Player.Position(); pos != a.lastPos {
		a.lastPos = pos
		if a.Audio != nil {
			a.Audio.Cue(a.Player.Controller().Progress())
		}
	}

	if a.AutoOrbit {
		rl.UpdateCamera(&a.Camera, rl.CameraOrbital)
		return
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.RotY -= orbitStep
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.RotY += orbitStep
	}
	if rl.IsKeyDown(rl.KeyW) {
		a.RotX = math.Min(a.RotX+orbitStep, 1.5)
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.RotX = math.Max(a.RotX-orbitStep, -1.5)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Distance = math.Max(4, math.Min(80, a.Distance-float64(wheel)))
	}
	if pressed(rl.KeyEqual, rl.KeyKpAdd) {
		a.Distance = math.Max(4, a.Distance/1.2)
	}
	if pressed(rl.KeyMinus, rl.KeyKpSubtract) {
		a.Distance = math.Min(80, a.Distance*1.2)
	}
	a.Camera.Position = orbitPosition(a.Camera.Target, a.RotX, a.RotY, a.Distance)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	r, g, b := hexRGB(string(a.Theme.Background))
	rl.ClearBackground(rl.NewColor(r, g, b, 255))

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawTopic()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) color(c string, alpha uint8) rl.Color {
	r, g, b := hexRGB(c)
	return rl.NewColor(r, g, b, alpha)
}

func (a *App) drawMenu() {
	th := a.Theme
	a.drawText("stepviz", 50, 50, 40, a.color(string(th.Title), 255))
	a.drawText("Select a topic", 50, 100, 16, a.color(string(th.Faint), 255))

	for i, r := range menuRects(len(a.Keys), menuCols, 50, 160) {
		sel := i == a.Selected
		fill := a.color(string(th.Faint), 40)
		border := a.color(string(th.Faint), 255)
		text := a.color(string(th.Text), 255)
		if sel {
			fill = a.color(string(th.Title), 60)
			border = a.color(string(th.Title), 255)
		}
		rl.DrawRectangleRec(r, fill)
		rl.DrawRectangleLinesEx(r, 2, border)
		a.drawText(a.Names[a.Keys[i]], int(r.X)+12, int(r.Y)+12, 18, text)
	}

	if a.Status != "" {
		a.drawText(a.Status, 50, 640, 16, a.color(string(th.Alert), 255))
	}
	a.drawText("ARROWS/HJKL: NAVIGATE  ENTER: OPEN  Q: QUIT", 780, 680, 14, a.color(string(th.Faint), 255))
}

func (a *App) drawTopic() {
	th := a.Theme
	f := a.Topic.Frame(a.Player.Position())

	rl.BeginMode3D(a.Camera)
	labels := a.DrawScene(f.Scene)
	rl.EndMode3D()
	a.drawLabels(labels)

	a.drawText(a.Topic.Title(), 30, 24, 24, a.color(string(th.Title), 255))
	a.drawText(fmt.Sprintf("Step %d / %d", f.Index+1, f.Total), 30, 56, 16, a.color(string(th.Faint), 255))
	bar := rl.NewRectangle(160, 60, 240, 8)
	rl.DrawRectangleRec(bar, a.color(string(th.Faint), 80))
	bar.Width *= float32(a.Player.Controller().Progress())
	rl.DrawRectangleRec(bar, a.color(string(th.Subtitle), 255))

	a.drawCode(f, 860, 90)

	alpha := uint8(255)
	if !a.Player.Visible() {
		alpha = 60
	}
	y := 560
	for _, line := range wrapText(viz.PlainProse(f.Text), 90) {
		a.drawText(line, 30, y, 18, a.color(string(th.Text), alpha))
		y += 24
	}

	a.drawText("N/SPACE: NEXT  P: PREV  R: RESET  WASD: ORBIT  O: AUTO  0: CAMERA  ESC: MENU", 30, 690, 14, a.color(string(th.Faint), 255))
}

func (a *App) drawCode(f topics.Frame, x, y int) {
	th := a.Theme
	for i, line := range a.Topic.Code() {
		col := a.color(string(th.Faint), 255)
		mark := "  "
		if i == f.Cursor.Line {
			col = a.color(string(th.Ink(scene.Active)), 255)
			mark = "> "
			rl.DrawRectangle(int32(x-6), int32(y-2), 400, 22, a.color(string(th.Title), 40))
		}
		a.drawText(fmt.Sprintf("%s%2d %s", mark, i+1, line), x, y, 16, col)
		y += 22
	}
}

// wrapText breaks s into lines of at most width runes on word boundaries.
func wrapText(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len([]rune(cur))+1+len([]rune(w)) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		lines = append(lines, cur)
	}
	return lines
}

func hexRGB(hex string) (r, g, b uint8) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 255, 255, 255
	}
	return uint8(ri), uint8(gi), uint8(bi)
}
