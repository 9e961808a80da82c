// Package system runs the per-tick pipeline over a world.Map: AI, motion,
// collision, resolution, deferred removal and map transitions, in that
// order.
package system

import (
	"context"
	"errors"
	"math/rand"
	"time"

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

// Player projectile defaults.
const (
	PlayerProjectileSprite = 25
	PlayerProjectileSpeed  = 200.0
)

// ErrNoStore is returned by Load and Save when no map store is configured.
var ErrNoStore = errors.New("no map store configured")

// Options configures a Simulation. Zero values select defaults; a nil Store
// disables transitions.
type Options struct {
	HitRadius       float64
	RemovalDuration float64
	Hits            HitCalculator
	Store           world.MapStore
	Populations     *data.PopulationTable
	Destinations    *data.DestinationTable
	Metrics         *Metrics
	Log             *zap.Logger
}

// Simulation drives one world.Map. It is not safe for concurrent use; the
// host calls Update from its loop goroutine only.
type Simulation struct {
	m       *world.Map
	bus     *event.Bus
	runner  *coresys.Runner[*Tick]
	ai      *AISystem
	transit *TransitionSystem
	store   world.MapStore
	pop     *data.PopulationTable
	metrics *Metrics
	current string
	tick    Tick
	log     *zap.Logger
}

func New(m *world.Map, opts Options) *Simulation {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Simulation{
		m:       m,
		bus:     event.NewBus(),
		runner:  coresys.NewRunner[*Tick](),
		ai:      NewAISystem(opts.Metrics, log),
		store:   opts.Store,
		pop:     opts.Populations,
		metrics: opts.Metrics,
		log:     log,
	}
	s.runner.Register(DispatchSystem{})
	s.runner.Register(s.ai)
	s.runner.Register(NewMotionSystem(opts.Metrics))
	s.runner.Register(NewCollisionSystem(opts.HitRadius))
	s.runner.Register(NewResolutionSystem(opts.Hits, opts.RemovalDuration, opts.Metrics))
	s.runner.Register(CleanupSystem{})
	s.transit = NewTransitionSystem(s, opts.Destinations, log)
	s.runner.Register(s.transit)
	return s
}

func (s *Simulation) Map() *world.Map    { return s.m }
func (s *Simulation) Bus() *event.Bus    { return s.bus }
func (s *Simulation) AI() *AISystem      { return s.ai }
func (s *Simulation) CurrentMap() string { return s.current }

// Load replaces the map content with the named map from the store and
// spawns its creature groups. Transitions stay disarmed until the player
// has stood outside every catchment. On error nothing changes.
func (s *Simulation) Load(ctx context.Context, name string, rng *rand.Rand) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.m.Load(ctx, s.store, name); err != nil {
		return err
	}
	s.ai.Reset()
	s.ai.Populate(s.m, s.pop, name, rng)
	s.transit.armed = false
	s.current = name
	return nil
}

// Save writes the current map to the store under name.
func (s *Simulation) Save(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.m.Save(ctx, s.store, name)
}

// Update runs one tick of dt seconds. rng is the only source of randomness
// the tick consumes; a nil speaker discards sounds.
func (s *Simulation) Update(dt float64, rng *rand.Rand, speaker Speaker) {
	start := time.Now()
	if speaker == nil {
		speaker = audio.Nop{}
	}
	s.tick.Dt = dt
	s.tick.Rng = rng
	s.tick.Audio = speaker
	s.tick.Map = s.m
	s.tick.Bus = s.bus
	s.runner.Tick(&s.tick)
	s.metrics.observeTick(time.Since(start), s.m.Count())
}

// FirePlayerProjectile launches a player projectile from the player towards
// target. It reports false when target is the player's own position.
func (s *Simulation) FirePlayerProjectile(target vmath.Vec2, speaker Speaker) (ecs.EntityID, bool) {
	p := s.m.Factory().FireProjectile(s.m.PlayerPosition(), PlayerProjectileSprite, target, PlayerProjectileSpeed, entity.KindPlayerProjectile)
	if p == nil {
		return 0, false
	}
	s.m.Insert(world.LayerObject, p)
	if speaker != nil {
		speaker.Play(audio.FireballLaunch, 1)
	}
	return p.ID, true
}
