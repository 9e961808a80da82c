package system

import (
	"github.com/fractallands/simcore/internal/anim"
	"github.com/fractallands/simcore/internal/audio"
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/core/event"
	coresys "github.com/fractallands/simcore/internal/core/system"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/particle"
	"github.com/fractallands/simcore/internal/scripting"
	"github.com/fractallands/simcore/internal/world"
)

// DefaultHitRadius is how close a projectile must get to a target to hit it.
const DefaultHitRadius = 80.0

// CollisionSystem collects projectile/target candidates without mutating the
// store. Phase 3 (Collision).
type CollisionSystem struct {
	radius float64
}

func NewCollisionSystem(radius float64) *CollisionSystem {
	if radius <= 0 {
		radius = DefaultHitRadius
	}
	return &CollisionSystem{radius: radius}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(tc *Tick) {
	tc.hits = tc.hits[:0]
	m := tc.Map
	m.Objects().Each(func(id ecs.EntityID, o *entity.Object) {
		if !o.Attributes.Kind.IsProjectile() {
			return
		}
		if target, ok := m.FindNearest(world.LayerObject, o.Position, s.radius, id); ok {
			tc.hits = append(tc.hits, hitPair{projectile: id, target: target})
		}
	})
}

// HitCalculator decides damage and burst size of a hit.
type HitCalculator interface {
	CalcProjectileHit(ctx scripting.HitContext) scripting.HitResult
}

const (
	sparkLifetime = 0.7
	sparkSpeed    = 100.0
	// sparkSlow is the spark sprite that does not get the random speed boost
	sparkSlow = 403
)

var sparkSprites = [...]int{403, 404, 1993, 1994, 1995, 1996, 1997}

// ResolutionSystem applies the collected hits. Phase 4 (Resolution).
type ResolutionSystem struct {
	calc            HitCalculator
	removalDuration float64
	metrics         *Metrics
}

// NewResolutionSystem returns a resolver using calc, or the fixed rules when
// calc is nil. removalDuration is how long a killed target burns down; zero
// selects the default.
func NewResolutionSystem(calc HitCalculator, removalDuration float64, metrics *Metrics) *ResolutionSystem {
	if calc == nil {
		calc = scripting.FixedHits{}
	}
	if removalDuration <= 0 {
		removalDuration = anim.DefaultRemovalDuration
	}
	return &ResolutionSystem{calc: calc, removalDuration: removalDuration, metrics: metrics}
}

func (s *ResolutionSystem) Phase() coresys.Phase { return coresys.PhaseResolution }

func (s *ResolutionSystem) Update(tc *Tick) {
	m := tc.Map
	for _, h := range tc.hits {
		// a projectile already on its way out hits nothing
		if m.RemovalPending(h.projectile) {
			continue
		}
		proj, ok := m.Object(h.projectile)
		if !ok {
			continue
		}
		target, ok := m.Object(h.target)
		if !ok {
			continue
		}
		if !entity.CanHit(proj.Attributes.Kind, target.Attributes.Kind) {
			continue
		}
		// dead targets let projectiles through; the player always stops them
		if target.Attributes.HitPoints <= 0 && h.target != m.PlayerID() {
			continue
		}
		s.applyHit(tc, proj, target)
	}
	tc.hits = tc.hits[:0]
}

// applyHit bursts sparks out of target, deals damage per spark and consumes
// the projectile. Other targets flash out and burn down. The player only
// loses hit points, never below zero, and stays visible.
func (s *ResolutionSystem) applyHit(tc *Tick, proj, target *entity.Object) {
	res := s.calc.CalcProjectileHit(scripting.HitContext{
		ProjectileKind: proj.Attributes.Kind.String(),
		TargetKind:     target.Attributes.Kind.String(),
		TargetHP:       target.Attributes.HitPoints,
		TargetScale:    target.Scale,
	})

	rng := tc.Rng
	z := target.Visual.Height * target.Scale * 0.5
	for i := 0; i < res.Sparks; i++ {
		xv := rng.Float64()*2 - 1
		yv := rng.Float64()*2 - 1
		zv := rng.Float64()
		color := [3]float32{
			0.8 + rng.Float32()*0.4,
			0.5 + rng.Float32()*0.4,
			0.1 + rng.Float32()*0.4,
		}
		sprite := sparkSprites[rng.Intn(len(sparkSprites))]
		speed := sparkSpeed
		if sprite != sparkSlow {
			speed += 1 + rng.Float64()*49
		}
		if !target.Visual.Particles.Allocate(particle.Spawn{
			Z:  z,
			VX: xv * speed, VY: yv * speed, VZ: zv * speed,
			Lifetime: sparkLifetime,
			SpriteID: sprite,
			Color:    color,
		}) {
			s.metrics.particleDropped()
		}
		target.Attributes.HitPoints -= res.Damage
	}

	tc.Map.QueueRemoval(proj.ID)
	if target.ID == tc.Map.PlayerID() {
		target.Attributes.HitPoints = max(target.Attributes.HitPoints, 0)
	} else {
		target.Visual.Color[3] = 0
		tc.Map.SetAnimation(target.ID, anim.Removal(target.AnimationTimer, s.removalDuration))
	}
	tc.Audio.Play(audio.FireballHit, 1)
	if target.Attributes.Kind == entity.KindCreature {
		tc.Audio.Play(audio.CreatureHit, 1)
	}
	s.metrics.hit()
	event.Emit(tc.Bus, event.ProjectileHit{
		Projectile: proj.ID,
		Target:     target.ID,
		Damage:     res.Damage * res.Sparks,
		TargetHP:   target.Attributes.HitPoints,
	})
}
