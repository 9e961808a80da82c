package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(buf [][2]float64) float64 {
	var p float64
	for _, s := range buf {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestMixerRendersCues(t *testing.T) {
	for _, id := range []SoundID{FireballLaunch, FireballHit, CreatureHit} {
		t.Run(id.String(), func(t *testing.T) {
			m := NewMixer(8000, 1, nil)
			m.Play(id, 1)
			require.Equal(t, 1, m.Voices())

			buf := m.Render(800)
			assert.Greater(t, peak(buf), 0.0)

			// every cue is well under a second long
			m.Render(8000)
			assert.Zero(t, m.Voices())
		})
	}
}

func TestMixerSilentVolume(t *testing.T) {
	m := NewMixer(8000, 1, nil)
	m.Play(FireballHit, 0)
	assert.Zero(t, peak(m.Render(800)))
}

func TestMixerUnknownSound(t *testing.T) {
	m := NewMixer(8000, 1, nil)
	m.Play(SoundID(42), 1)
	assert.Zero(t, m.Voices())
	assert.Equal(t, "unknown", SoundID(42).String())
}

func TestMixerDropsBeyondVoiceLimit(t *testing.T) {
	m := NewMixer(8000, 1, nil)
	for i := 0; i < maxVoices+5; i++ {
		m.Play(CreatureHit, 1)
	}
	assert.Equal(t, maxVoices, m.Voices())
	assert.Equal(t, 5, m.Dropped())
	m.Close()
	assert.Zero(t, m.Voices())
}

func TestEnvelopeStaysInRange(t *testing.T) {
	m := NewMixer(8000, 1, nil)
	m.Play(FireballLaunch, 1)
	for _, s := range m.Render(4000) {
		assert.LessOrEqual(t, math.Abs(s[0]), 1.0)
	}
}
