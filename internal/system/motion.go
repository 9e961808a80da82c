package system

import (
	"math/rand"

	"github.com/fractallands/simcore/internal/core/ecs"
	coresys "github.com/fractallands/simcore/internal/core/system"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/particle"
)

const (
	// ambient emission: a short flicker high above the entity
	ambientHeight   = -400.0
	ambientLifetime = 0.1

	// drive particles trail behind a moving entity
	driveChance   = 20.0 // per second
	driveRadius   = 0.5
	driveJitter   = 0.15
	driveZ        = 25.0
	driveLifetime = 1.0
	driveSprite   = 1993
	driveSprites  = 5
)

var (
	ambientColor = [3]float32{0.7, 0.75, 0.9}
	driveColor   = [3]float32{0.5, 0.8, 1.0}
)

// MotionSystem integrates motion of the object layer and runs the per-entity
// side effects: move-end actions, particle emission and aging, animation
// behaviors and update actions. Removals are queued, never applied here.
// Phase 2 (Motion).
type MotionSystem struct {
	metrics *Metrics
}

func NewMotionSystem(metrics *Metrics) *MotionSystem {
	return &MotionSystem{metrics: metrics}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *MotionSystem) Update(tc *Tick) {
	m := tc.Map
	m.Objects().Each(func(id ecs.EntityID, o *entity.Object) {
		before, after := o.Step(tc.Dt)
		pool := o.Visual.Particles

		if before > 0 && after <= 0 {
			pool.Clear()
			if o.MoveEndAction == entity.MoveEndRemove {
				m.QueueRemoval(id)
			}
		}

		if n := len(pool.SpawnIDs); n > 0 && tc.Rng.Float64() < pool.SpawnChance*tc.Dt {
			spark := pool.SpawnIDs[tc.Rng.Intn(n)]
			s.allocate(pool, particle.Spawn{
				Y:        ambientHeight,
				Lifetime: ambientLifetime,
				SpriteID: spark,
				Color:    ambientColor,
			})
		}
		pool.Age(tc.Dt)

		if b, ok := m.Animation(id); ok {
			b.Apply(tc.Dt, o)
		}

		switch {
		case o.UpdateAction == entity.UpdateRemove:
			m.QueueRemoval(id)
		case o.UpdateAction == entity.UpdateEmitDriveParticles && after > 0:
			s.emitDriveParticles(o, tc.Dt, tc.Rng)
		}
	})
}

// emitDriveParticles spawns an exhaust particle behind o, opposite to its
// velocity, with a driveChance per second probability.
func (s *MotionSystem) emitDriveParticles(o *entity.Object, dt float64, rng *rand.Rand) {
	if rng.Float64() >= driveChance*dt {
		return
	}
	back := o.Velocity.Scale(-1)
	xp := back.X*driveRadius + back.Y*(rng.Float64()*2-1)*driveJitter
	yp := back.Y*driveRadius + back.X*(rng.Float64()*2-1)*driveJitter
	xv := back.X + rng.Float64()*2 - 1
	yv := back.Y + rng.Float64()*2 - 1
	zv := (rng.Float64()*2 - 1) * driveJitter
	sprite := driveSprite + int(rng.Float64()*driveSprites)

	s.allocate(o.Visual.Particles, particle.Spawn{
		X: xp, Y: yp, Z: driveZ,
		VX: xv, VY: yv, VZ: zv,
		Lifetime: driveLifetime,
		SpriteID: sprite,
		Color:    driveColor,
	})
}

func (s *MotionSystem) allocate(pool *particle.Pool, sp particle.Spawn) {
	if !pool.Allocate(sp) {
		s.metrics.particleDropped()
	}
}
