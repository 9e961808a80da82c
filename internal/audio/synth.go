package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

// oscillator streams a fixed number of samples of one waveform.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(freq float64, d time.Duration, w wave, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(d),
		wave:     w,
		rate:     rate,
		rng:      rng,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case waveSaw:
			val = 2 * (o.phase - 0.5)
		case waveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= releaseStart && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales a stream linearly. math.Log2(0) is -Inf, so zero volume
// becomes a silent stream.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// cue builds the streamer for a sound. It returns nil for unknown ids.
func cue(id SoundID, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	switch id {
	case FireballLaunch:
		noise := newOscillator(0, launchDuration, waveNoise, rate, rng)
		tone := newOscillator(220, launchDuration, waveSine, rate, rng)
		return newEnvelope(
			beep.Mix(withVolume(noise, 0.5), withVolume(tone, 0.3)),
			launchDuration, launchAttack, launchRelease, rate)
	case FireballHit:
		body := newOscillator(90, hitDuration, waveSaw, rate, rng)
		crack := newOscillator(0, hitDuration, waveNoise, rate, rng)
		return newEnvelope(
			beep.Mix(withVolume(body, 0.6), withVolume(crack, 0.4)),
			hitDuration, hitAttack, hitRelease, rate)
	case CreatureHit:
		hi := newEnvelope(newOscillator(660, chirpNote, waveSquare, rate, rng), chirpNote, chirpAttack, chirpRelease, rate)
		lo := newEnvelope(newOscillator(440, chirpNote, waveSquare, rate, rng), chirpNote, chirpAttack, chirpRelease, rate)
		return withVolume(beep.Seq(hi, lo), 0.4)
	}
	return nil
}
