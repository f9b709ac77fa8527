package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/stepviz/internal/logging"
)

const (
	SampleRate = 44100
	BufferSize = 512

	// BaseFreq is the cue pitch at the first step; the last step sounds an
	// octave higher.
	BaseFreq = 220.0
	// Decay is the per-second exponential fall of a cue.
	Decay = 9.0
)

// Processor plays a short tone whenever a step changes. Cue is called from
// the render loop; ProcessAudio runs on the portaudio thread.
type Processor struct {
	Stream *portaudio.Stream

	mu      sync.Mutex
	freq    float64
	env     float64
	pending bool

	phase       float64
	FilterState [2]float64
	Volume      float64

	Active bool
}

func NewProcessor() *Processor {
	return &Processor{Volume: 0.25, freq: BaseFreq}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		logging.Logger().Warn("audio init failed", "err", err)
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		logging.Logger().Warn("audio stream failed", "err", err)
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		logging.Logger().Warn("audio start failed", "err", err)
		stream.Close()
		portaudio.Terminate()
		return err
	}
	logging.Logger().Info("audio started", "rate", SampleRate)
	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// Cue triggers a tone for a step at the given playback progress in [0,1].
func (a *Processor) Cue(progress float64) {
	progress = math.Max(0, math.Min(1, progress))
	a.mu.Lock()
	a.freq = BaseFreq * math.Pow(2, progress)
	a.pending = true
	a.mu.Unlock()
}

// Triangle wave, softer than a saw.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (a *Processor) ProcessAudio(out [][]float32) {
	a.mu.Lock()
	if a.pending {
		a.env = 1
		a.pending = false
	}
	freq := a.freq
	a.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	fall := math.Exp(-Decay * dt)
	cutoff := freq * 4

	for i := range out[0] {
		s := triangle(a.phase) * a.env
		a.phase += freq * dt
		a.env *= fall

		var l, r float64
		l, a.FilterState[0] = lpf(s, cutoff, dt, a.FilterState[0])
		r, a.FilterState[1] = lpf(s, cutoff*1.01, dt, a.FilterState[1])
		out[0][i] = float32(l * a.Volume)
		if len(out) > 1 {
			out[1][i] = float32(r * a.Volume)
		}
	}
	if a.env < 1e-4 {
		a.env = 0
	}
}
