// Package audio synthesizes the game's sound cues and mixes them onto the
// speaker.
package audio

import "time"

// SoundID names a sound cue.
type SoundID int

const (
	FireballLaunch SoundID = iota
	FireballHit
	CreatureHit
)

func (id SoundID) String() string {
	switch id {
	case FireballLaunch:
		return "fireball_launch"
	case FireballHit:
		return "fireball_hit"
	case CreatureHit:
		return "creature_hit"
	}
	return "unknown"
}

const (
	launchDuration = 180 * time.Millisecond
	launchAttack   = 10 * time.Millisecond
	launchRelease  = 150 * time.Millisecond

	hitDuration = 260 * time.Millisecond
	hitAttack   = 5 * time.Millisecond
	hitRelease  = 200 * time.Millisecond

	chirpNote    = 70 * time.Millisecond
	chirpAttack  = 5 * time.Millisecond
	chirpRelease = 40 * time.Millisecond
)

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(SoundID, float64) {}
