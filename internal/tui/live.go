package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer plays a topic to a plain terminal without taking over input,
// one step per interval.
type LiveRenderer struct {
	out      io.Writer
	view     viz.View
	interval time.Duration
	// Plain disables colour.
	Plain bool
}

func NewLiveRenderer(out io.Writer, view viz.View, interval time.Duration) *LiveRenderer {
	if interval <= 0 {
		interval = time.Second
	}
	return &LiveRenderer{out: out, view: view, interval: interval}
}

// Play draws every step of t in order and returns after the last one, or
// when ctx is done.
func (r *LiveRenderer) Play(ctx context.Context, t topics.Topic) error {
	ctrl, err := playback.New(t.Len())
	if err != nil {
		return err
	}
	if r.view.Camera == nil {
		r.view.Camera = viz.NewCamera()
		viz.FitTopic(r.view.Camera, t)
	}

	r.start()
	defer r.stop()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.render(t, t.Frame(ctrl.Position()))
		if !ctrl.Next() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *LiveRenderer) render(t topics.Topic, f topics.Frame) {
	body := r.view.Plain(t, f)
	if !r.Plain {
		body = r.view.Render(t, f, true)
	}
	fmt.Fprint(r.out, clearScreen+body+"\n")
}

func (r *LiveRenderer) start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) stop()  { fmt.Fprint(r.out, showCursor) }
