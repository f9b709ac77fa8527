package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/stepviz/internal/config"
	"github.com/san-kum/stepviz/internal/gui"
	"github.com/san-kum/stepviz/internal/logging"
	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/scriptpack"
	"github.com/san-kum/stepviz/internal/storage"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/tui"
	"github.com/san-kum/stepviz/internal/viz"
	"github.com/spf13/cobra"
)

// cli holds flag values and the state built from them before a command runs.
type cli struct {
	configFile string
	dataDir    string
	theme      string
	preset     string
	scripts    []string
	watch      bool
	logPath    string
	debug      bool
	seed       int64

	cfg     *config.Config
	reg     *topics.Registry
	packs   *scriptpack.Installer
	logFile *os.File
}

func main() {
	c := &cli{}
	err := c.rootCmd().Execute()
	c.closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command { return (&cli{}).rootCmd() }

// closeLog closes the --log file. Cobra skips post-run hooks when a command
// fails, so main calls this after Execute.
func (c *cli) closeLog() {
	if c.logFile == nil {
		return
	}
	logging.SetLogger(nil)
	c.logFile.Close()
	c.logFile = nil
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "stepviz",
		Short:        "step-through visualizations of programming concepts",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(c.shellOptions(c.cfg.StartTopic))
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&c.dataDir, "data", ".stepviz", "data directory for exports")
	pf.StringVar(&c.theme, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&c.preset, "camera", "", "camera preset")
	pf.StringSliceVar(&c.scripts, "scripts", nil, "directories of yaml topic packs")
	pf.BoolVar(&c.watch, "watch", false, "reload script packs when they change")
	pf.StringVar(&c.logPath, "log", "", "write logs to this file")
	pf.BoolVar(&c.debug, "debug", false, "debug logging")
	pf.Int64Var(&c.seed, "seed", 0, "seed for memory cell addresses")

	rootCmd.AddCommand(
		c.listCmd(),
		c.playCmd(),
		c.showCmd(),
		c.traceCmd(),
		c.exportCmd(),
		c.exportsCmd(),
		c.guiCmd(),
		c.presetsCmd(),
	)
	return rootCmd
}

// setup loads config, applies changed flags over it, installs the logger
// and builds the topic registry.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if c.configFile != "" {
		loaded, err := config.Load(c.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("theme") {
		if _, ok := viz.LookupTheme(c.theme); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", c.theme, strings.Join(viz.ThemeNames(), ", "))
		}
		cfg.Theme = c.theme
	}
	if flags.Changed("camera") {
		if err := cfg.ApplyPreset(c.preset); err != nil {
			return err
		}
	}
	if flags.Changed("seed") {
		cfg.AddressSeed = c.seed
	}
	if flags.Changed("scripts") {
		cfg.Scripts = append(cfg.Scripts, c.scripts...)
	}
	c.cfg = cfg

	switch {
	case c.logPath != "":
		f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		c.logFile = f
		logging.SetLogger(logging.NewText(f, c.debug))
	case c.debug:
		logging.SetLogger(logging.NewText(cmd.ErrOrStderr(), true))
	}

	c.reg = topics.WithSeed(cfg.AddressSeed)
	c.packs = scriptpack.NewInstaller(c.reg)
	for _, dir := range cfg.Scripts {
		ts, err := scriptpack.LoadDir(dir)
		if err != nil {
			logging.Logger().Warn("script packs failed to load", "dir", dir, "err", err)
			return err
		}
		if err := c.packs.Sync(dir, ts); err != nil {
			return fmt.Errorf("scripts %s: %w", dir, err)
		}
		logging.Logger().Info("script packs loaded", "dir", dir, "topics", len(ts))
	}
	return nil
}

func (c *cli) shellOptions(start string) tui.Options {
	opts := tui.Options{Registry: c.reg, Packs: c.packs, Config: c.cfg, Start: start}
	if c.watch {
		opts.WatchDirs = c.cfg.Scripts
	}
	return opts
}

func (c *cli) view(width, height int) viz.View {
	th := viz.GetTheme(c.cfg.Theme)
	return viz.View{
		Styles: viz.NewStyles(th),
		Camera: viz.OrbitCamera(c.cfg.Camera.RotX, c.cfg.Camera.RotY, c.cfg.Camera.Zoom),
		Width:  width,
		Height: height,
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tSTEPS\tTITLE")
			for _, t := range c.reg.All() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Key(), t.Name(), t.Len(), t.Title())
			}
			return w.Flush()
		},
	}
}

func (c *cli) playCmd() *cobra.Command {
	var (
		auto     bool
		interval time.Duration
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "play [topic]",
		Short: "open the shell on a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !auto {
				return tui.Run(c.shellOptions(args[0]))
			}
			t, err := c.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			v := c.view(c.cfg.Canvas.Width, c.cfg.Canvas.Height)
			viz.FitTopic(v.Camera, t)
			r := tui.NewLiveRenderer(cmd.OutOrStdout(), v, interval)
			r.Plain = plain
			err = r.Play(ctx, t)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "play every step to stdout without the shell")
	cmd.Flags().DurationVar(&interval, "interval", 1500*time.Millisecond, "time per step with --auto")
	cmd.Flags().BoolVar(&plain, "plain", false, "no colour with --auto")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var (
		step          int
		width, height int
		plain         bool
	)
	cmd := &cobra.Command{
		Use:   "show [topic]",
		Short: "print one step of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			ctrl, err := playback.New(t.Len())
			if err != nil {
				return err
			}
			ctrl.Seek(step)

			if !cmd.Flags().Changed("width") {
				width = c.cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") {
				height = c.cfg.Canvas.Height
			}
			v := c.view(width, height)
			viz.FitTopic(v.Camera, t)

			f := t.Frame(ctrl.Position())
			out := v.Plain(t, f)
			if !plain {
				out = v.Render(t, f, true)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&step, "step", 0, "step index, from 0 (clamped)")
	cmd.Flags().IntVar(&width, "width", config.DefaultCanvasWidth, "canvas width in cells")
	cmd.Flags().IntVar(&height, "height", config.DefaultCanvasHeight, "canvas height in cells")
	cmd.Flags().BoolVar(&plain, "plain", false, "no colour")
	return cmd
}

func (c *cli) traceCmd() *cobra.Command {
	var exportID string
	cmd := &cobra.Command{
		Use:   "trace [topic] [value]",
		Short: "plot a step observable across a topic",
		Long: "Plots how a named value (len, count, size, ...) changes from step to step.\n" +
			"With no value every observable of the topic is plotted.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				names  []string
				series map[string][]float64
				err    error
			)
			if exportID != "" {
				names, series, err = c.exportSeries(exportID)
			} else {
				names, series, err = c.topicSeries(args[0])
			}
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if _, ok := series[args[1]]; !ok {
					return fmt.Errorf("no value %q in %s (have: %s)", args[1], args[0], strings.Join(names, ", "))
				}
				names = []string{args[1]}
			}
			if len(names) == 0 {
				return fmt.Errorf("%s has no observables", args[0])
			}
			out := cmd.OutOrStdout()
			for _, n := range names {
				plotSeries(out, n, series[n])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportID, "export", "", "read values from a saved export instead")
	return cmd
}

func (c *cli) topicSeries(key string) ([]string, map[string][]float64, error) {
	t, err := c.reg.Lookup(key)
	if err != nil {
		return nil, nil, err
	}
	names, series := topics.Series(t)
	return names, series, nil
}

func (c *cli) exportSeries(id string) ([]string, map[string][]float64, error) {
	st := storage.New(c.dataDir)
	names, rows, err := st.LoadValues(id)
	if err != nil {
		return nil, nil, err
	}
	series := make(map[string][]float64, len(names))
	for j, n := range names {
		vals := make([]float64, len(rows))
		for i, row := range rows {
			vals[i] = math.NaN()
			if j < len(row) {
				vals[i] = row[j]
			}
		}
		series[n] = vals
	}
	return names, series, nil
}

// plotSeries draws one observable. Steps without the value (NaN) are left
// as gaps.
func plotSeries(w io.Writer, name string, data []float64) {
	finite := false
	for _, v := range data {
		finite = finite || !math.IsNaN(v)
	}
	if !finite {
		return
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(max(len(data)*4, 24)),
		asciigraph.Caption(name+" by step"),
	)
	fmt.Fprintln(w, graph)
	fmt.Fprintln(w)
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		scale  float64
	)
	cmd := &cobra.Command{
		Use:   "export [topic]",
		Short: "write frames and step dumps of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			formats, err := parseFormats(format)
			if err != nil {
				return err
			}
			st := storage.New(c.dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			v := c.view(c.cfg.Canvas.Width, c.cfg.Canvas.Height)
			viz.FitTopic(v.Camera, t)
			id, err := st.SaveTopic(t, storage.Options{
				Formats: formats,
				Theme:   v.Styles.Theme,
				Camera:  v.Camera,
				Width:   v.Width,
				Height:  v.Height,
				Scale:   scale,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d steps) to %s/%s\n", t.Key(), t.Len(), st.Dir(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "all", "svg, json, csv or all (comma separated)")
	cmd.Flags().Float64Var(&scale, "scale", 4, "svg pixels per braille dot")
	return cmd
}

func parseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(strings.ToLower(f))
		switch f {
		case "all":
			return storage.AllFormats, nil
		case storage.FormatSVG, storage.FormatJSON, storage.FormatCSV:
			out = append(out, f)
		case "":
		default:
			return nil, fmt.Errorf("unknown format %q", f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no export format given")
	}
	return out, nil
}

func (c *cli) exportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "list saved exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(c.dataDir)
			list, err := st.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "no exports found")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOPIC\tTIME\tSTEPS\tFORMATS\tTHEME")
			for _, m := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					m.ID,
					m.Topic,
					m.Timestamp.Format("2006-01-02 15:04:05"),
					m.Steps,
					strings.Join(m.Formats, ","),
					m.Theme,
				)
			}
			return w.Flush()
		},
	}
}

func (c *cli) guiCmd() *cobra.Command {
	var sound bool
	cmd := &cobra.Command{
		Use:   "gui [topic]",
		Short: "open the topics in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := c.cfg.StartTopic
			if len(args) > 0 {
				start = args[0]
			}
			gui.Run(gui.Options{Registry: c.reg, Config: c.cfg, Start: start, Sound: sound})
			return nil
		},
	}
	cmd.Flags().BoolVar(&sound, "sound", false, "play a tone on each step")
	return cmd
}

func (c *cli) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list camera presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROT_X\tROT_Y\tZOOM\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%s\n", name, p.RotX, p.RotY, p.Zoom, p.Description)
			}
			return w.Flush()
		},
	}
}
