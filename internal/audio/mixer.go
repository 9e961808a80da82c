package audio

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// DefaultSampleRate is used when the configured rate is not positive.
const DefaultSampleRate = 44100

// maxVoices caps concurrently mixed cues; further cues are dropped.
const maxVoices = 32

// Mixer synthesizes cues into a beep.Mixer. Play never blocks on the audio
// device: it only appends a streamer to the mix.
type Mixer struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	rng     *rand.Rand
	volume  float64
	started bool
	dropped int

	log *zap.Logger
}

// NewMixer returns a mixer that is not yet attached to a speaker. volume is
// the master gain in [0,1].
func NewMixer(sampleRate int, volume float64, log *zap.Logger) *Mixer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Mixer{
		rate:   beep.SampleRate(sampleRate),
		mixer:  &beep.Mixer{},
		rng:    rand.New(rand.NewSource(1)),
		volume: volume,
		log:    log,
	}
}

// Start opens the speaker with the given buffer length and plays the mix.
func (m *Mixer) Start(buffer time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.started = true
	m.log.Info("audio started", zap.Int("sample_rate", int(m.rate)), zap.Duration("buffer", buffer))
	return nil
}

// Play mixes in the cue at volume (scaled by the master gain).
func (m *Mixer) Play(id SoundID, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := cue(id, m.rate, m.rng)
	if s == nil {
		m.log.Debug("unknown sound", zap.Int("id", int(id)))
		return
	}
	s = withVolume(s, volume*m.volume)

	if m.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	if m.mixer.Len() >= maxVoices {
		m.dropped++
		return
	}
	m.mixer.Add(s)
}

// Voices returns the number of cues still in the mix.
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return m.mixer.Len()
}

// Dropped returns how many cues were discarded because the mix was full.
func (m *Mixer) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Render pulls n samples from the mix. It is used when no speaker is
// attached, e.g. to render offline or in tests.
func (m *Mixer) Render(n int) [][2]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([][2]float64, n)
	m.mixer.Stream(buf)
	return buf
}

// Close stops playback and drops every pending cue.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		m.mixer.Clear()
		return
	}
	speaker.Clear()
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.started = false
}
