// Package anim implements the per-tick animation behaviors that the map
// attaches to entities through a side table keyed by entity id.
package anim

import (
	"math"

	"github.com/fractallands/simcore/internal/entity"
)

// Kind selects the behavior variant.
type Kind int

const (
	KindNone Kind = iota
	KindSpin
	KindRemoval
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSpin:
		return "spin"
	case KindRemoval:
		return "removal"
	}
	return "unknown"
}

const (
	// RemovalFirstSprite is the first frame of the burn-down sequence in
	// the effects tileset; the sequence has RemovalFrames consecutive ids.
	RemovalFirstSprite = 301
	RemovalFrames      = 22
	// RemovalScale is the render scale forced while an entity burns down.
	RemovalScale = 2.0
	// DefaultRemovalDuration is how long a killed target burns.
	DefaultRemovalDuration = 0.7
	// CreatureSpinSpeed is the frame rate of idle creature animation.
	CreatureSpinSpeed = 24.0
)

// Behavior is a stateless animation strategy. All per-entity state lives on
// the entity itself (AnimationTimer and visual fields); only the parameters
// of the variant are stored here.
type Behavior struct {
	Kind Kind

	// Spin
	Speed float64

	// Removal
	Start    float64
	Duration float64
}

// None returns the no-op behavior.
func None() Behavior { return Behavior{Kind: KindNone} }

// Spin cycles through the entity's frames at speed frames per second.
func Spin(speed float64) Behavior { return Behavior{Kind: KindSpin, Speed: speed} }

// Removal plays the burn-down overlay starting at the given animation clock
// value and flags the entity for removal after duration seconds.
func Removal(start, duration float64) Behavior {
	return Behavior{Kind: KindRemoval, Start: start, Duration: duration}
}

// Apply advances o by one tick.
func (b Behavior) Apply(dt float64, o *entity.Object) {
	switch b.Kind {
	case KindSpin:
		applySpin(b, dt, o)
	case KindRemoval:
		applyRemoval(b, dt, o)
	}
}

func applySpin(b Behavior, dt float64, o *entity.Object) {
	o.AnimationTimer += dt
	frames := o.Visual.Frames
	if frames <= 0 {
		return
	}
	frame := int(math.Floor(o.AnimationTimer*b.Speed)) % frames
	if frame < 0 {
		frame += frames
	}
	o.Visual.CurrentSpriteID = o.Visual.BaseSpriteID + frame
}

func applyRemoval(b Behavior, dt float64, o *entity.Object) {
	o.AnimationTimer += dt
	elapsed := o.AnimationTimer - b.Start
	if elapsed >= b.Duration {
		o.UpdateAction = entity.UpdateRemove
		return
	}
	completion := elapsed / b.Duration
	frame := int(completion * RemovalFrames)
	if frame < 0 {
		frame = 0
	} else if frame >= RemovalFrames {
		frame = RemovalFrames - 1
	}
	o.Visual.CurrentSpriteID = RemovalFirstSprite + frame
	o.Visual.TilesetID = entity.TilesetEffects
	o.Visual.Color = [4]float32{1, 1, 1, 1}
	o.Visual.Blend = entity.BlendAdd
	o.Scale = RemovalScale
}
