package playback

import "time"

type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Player puts an optional fade between choosing a new position and
// committing it. Time is passed in by the caller.
type Player struct {
	ctrl     *Controller
	delay    time.Duration
	phase    Phase
	pending  int
	deadline time.Time
}

func NewPlayer(c *Controller, delay time.Duration) *Player {
	if delay < 0 {
		delay = 0
	}
	return &Player{ctrl: c, delay: delay}
}

func (p *Player) Controller() *Controller { return p.ctrl }
func (p *Player) Position() int           { return p.ctrl.Position() }
func (p *Player) Phase() Phase            { return p.phase }
func (p *Player) Deadline() time.Time     { return p.deadline }
func (p *Player) Delay() time.Duration    { return p.delay }

// Visible reports whether the explanation should be shown.
func (p *Player) Visible() bool { return p.phase == Idle }

// Pending returns the target of an in-flight transition.
func (p *Player) Pending() (int, bool) {
	return p.pending, p.phase == Transitioning
}

// Next requests the step after the committed position. It reports whether a
// commit or transition was started.
func (p *Player) Next(now time.Time) bool {
	if p.ctrl.AtEnd() {
		return false
	}
	return p.request(p.ctrl.Position()+1, now)
}

func (p *Player) Prev(now time.Time) bool {
	if p.ctrl.AtStart() {
		return false
	}
	return p.request(p.ctrl.Position()-1, now)
}

// Reset requests step 0. It is never ignored: at step 0 it still fades.
func (p *Player) Reset(now time.Time) bool {
	return p.request(0, now)
}

func (p *Player) request(target int, now time.Time) bool {
	if p.delay == 0 {
		p.ctrl.Seek(target)
		return true
	}
	p.phase = Transitioning
	p.pending = target
	p.deadline = now.Add(p.delay)
	return true
}

// Settle commits a pending transition once its deadline has passed.
func (p *Player) Settle(now time.Time) bool {
	if p.phase != Transitioning || now.Before(p.deadline) {
		return false
	}
	p.ctrl.Seek(p.pending)
	p.phase = Idle
	return true
}
