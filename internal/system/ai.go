package system

import (
	"math/rand"

	"github.com/fractallands/simcore/internal/audio"
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/core/event"
	coresys "github.com/fractallands/simcore/internal/core/system"
	"github.com/fractallands/simcore/internal/data"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/vmath"
	"github.com/fractallands/simcore/internal/world"
	"go.uber.org/zap"
)

// Scheduler tuning.
const (
	fireChance   = 0.25
	fireCooldown = 1.0 // plus U(0,1)
	moveCooldown = 3.0 // plus U(0,2)

	// wanderBox is the half extent of the box a mobile member picks its next
	// destination from, centered on its current position.
	wanderBox = 100.0
	// DefaultLeash is how far members may stray from their group center
	// when the group does not set its own leash.
	DefaultLeash = 200.0
	leashTries   = 5
	// homeBox is the half extent of the fallback box around the center.
	homeBox = 20.0

	// DefaultProjectileSprite and DefaultProjectileSpeed are used by groups
	// that do not configure their own projectile.
	DefaultProjectileSprite = 25
	DefaultProjectileSpeed  = 200.0
)

type member struct {
	id        ecs.EntityID
	countdown float64
	mobile    bool
}

// MobGroup schedules the autonomous actions of a set of creatures sharing a
// center. Members are held by id; a member whose entity is gone is dropped
// when its countdown next expires.
type MobGroup struct {
	Name    string
	Center  vmath.Vec2
	Leash   float64
	members []member

	projectileSprite int
	projectileSpeed  float64
}

// NewMobGroup builds a group over ids. Initial countdowns are staggered so
// members do not act in the same tick.
func NewMobGroup(name string, ids []ecs.EntityID, center vmath.Vec2, mobile bool, rng *rand.Rand) *MobGroup {
	g := &MobGroup{
		Name:             name,
		Center:           center,
		Leash:            DefaultLeash,
		members:          make([]member, 0, len(ids)),
		projectileSprite: DefaultProjectileSprite,
		projectileSpeed:  DefaultProjectileSpeed,
	}
	for _, id := range ids {
		g.members = append(g.members, member{
			id:        id,
			countdown: 1 + rng.Float64()*2,
			mobile:    mobile,
		})
	}
	return g
}

// SetProjectile overrides the projectile members fire. Non-positive values
// keep the current setting.
func (g *MobGroup) SetProjectile(spriteID int, speed float64) {
	if spriteID > 0 {
		g.projectileSprite = spriteID
	}
	if speed > 0 {
		g.projectileSpeed = speed
	}
}

// Members returns the ids of the current members in order.
func (g *MobGroup) Members() []ecs.EntityID {
	out := make([]ecs.EntityID, len(g.members))
	for i, m := range g.members {
		out[i] = m.id
	}
	return out
}

func (g *MobGroup) Len() int { return len(g.members) }

// Outcome is what one scheduler pass did.
type Outcome struct {
	Pruned []ecs.EntityID
	Fired  int
	Moved  int
}

// Update runs one scheduler pass. Projectiles are inserted into the object
// layer immediately so they take part in this tick's collision phase.
func (g *MobGroup) Update(m *world.Map, dt float64, rng *rand.Rand) Outcome {
	var out Outcome
	kept := g.members[:0]
	for _, mb := range g.members {
		o, ok := m.Object(mb.id)
		if !ok {
			out.Pruned = append(out.Pruned, mb.id)
			continue
		}
		mb.countdown -= dt
		if mb.countdown > 0 {
			kept = append(kept, mb)
			continue
		}

		if rng.Float64() < fireChance {
			p := m.Factory().FireProjectile(o.Position, g.projectileSprite, m.PlayerPosition(), g.projectileSpeed, entity.KindCreatureProjectile)
			if p != nil {
				m.Insert(world.LayerObject, p)
				out.Fired++
			}
			mb.countdown = fireCooldown + rng.Float64()
		} else if mb.mobile {
			dest := g.pickDestination(o.Position, rng)
			if entity.MoveTo(o, dest, o.Attributes.BaseSpeed) {
				out.Moved++
			}
			mb.countdown = moveCooldown + rng.Float64()*2
		} else {
			mb.countdown = moveCooldown + rng.Float64()*2
		}
		kept = append(kept, mb)
	}
	// clear the tail so dropped members don't linger in the backing array
	for i := len(kept); i < len(g.members); i++ {
		g.members[i] = member{}
	}
	g.members = kept
	return out
}

// pickDestination draws a point in the wander box around pos, retrying when
// it lands outside the leash. After leashTries misses it heads home.
func (g *MobGroup) pickDestination(pos vmath.Vec2, rng *rand.Rand) vmath.Vec2 {
	leash := g.Leash
	if leash <= 0 {
		leash = DefaultLeash
	}
	for try := 0; try < leashTries; try++ {
		dest := vmath.V(
			pos.X+(rng.Float64()*2-1)*wanderBox,
			pos.Y+(rng.Float64()*2-1)*wanderBox,
		)
		if dest.DistSq(g.Center) <= leash*leash {
			return dest
		}
	}
	return vmath.V(
		g.Center.X+(rng.Float64()*2-1)*homeBox,
		g.Center.Y+(rng.Float64()*2-1)*homeBox,
	)
}

// AISystem runs every mob group of the current map. Phase 1 (AI).
type AISystem struct {
	groups  []*MobGroup
	metrics *Metrics
	log     *zap.Logger
}

func NewAISystem(metrics *Metrics, log *zap.Logger) *AISystem {
	return &AISystem{metrics: metrics, log: log}
}

func (s *AISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AISystem) Update(tc *Tick) {
	for _, g := range s.groups {
		out := g.Update(tc.Map, tc.Dt, tc.Rng)
		if out.Fired > 0 {
			tc.Audio.Play(audio.FireballLaunch, 0.5)
		}
		for _, id := range out.Pruned {
			s.metrics.pruned()
			event.Emit(tc.Bus, event.MobMemberPruned{Group: g.Name, EntityID: id})
			s.log.Debug("mob member pruned", zap.String("group", g.Name), zap.Uint64("entity", uint64(id)))
		}
	}
}

// AddGroup registers a group with the scheduler.
func (s *AISystem) AddGroup(g *MobGroup) { s.groups = append(s.groups, g) }

// Groups returns the registered groups.
func (s *AISystem) Groups() []*MobGroup { return s.groups }

// Reset drops every group. It is called when the map is replaced.
func (s *AISystem) Reset() { s.groups = nil }

// Populate spawns the creature groups the catalog lists for mapName and
// registers a scheduler for each. It returns the number of groups created.
func (s *AISystem) Populate(m *world.Map, table *data.PopulationTable, mapName string, rng *rand.Rand) int {
	entries := table.Groups(mapName)
	for _, e := range entries {
		center := vmath.V(e.Center.X, e.Center.Y)
		ids := m.SpawnCreatures(world.CreatureSpawn{
			SpriteID:  e.SpriteID,
			MinCount:  e.MinCount,
			MaxCount:  e.MaxCount,
			Center:    center,
			Spacing:   e.Spacing,
			Scale:     e.Scale,
			HitPoints: e.HitPoints,
			Speed:     e.Speed,
		}, rng)
		g := NewMobGroup(e.Name, ids, center, e.Mobile, rng)
		if e.Leash > 0 {
			g.Leash = e.Leash
		}
		g.SetProjectile(e.ProjectileSprite, e.ProjectileSpeed)
		s.AddGroup(g)
		s.log.Info("mob group created",
			zap.String("map", mapName),
			zap.String("group", g.Name),
			zap.Int("members", g.Len()))
	}
	return len(entries)
}
