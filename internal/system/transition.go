package system

import (
	"context"
	"time"

	"github.com/fractallands/simcore/internal/core/event"
	coresys "github.com/fractallands/simcore/internal/core/system"
	"github.com/fractallands/simcore/internal/data"
	"go.uber.org/zap"
)

const loadTimeout = 5 * time.Second

// TransitionSystem checks the player against the map's transitions and
// loads the destination map. A transition fires once when the player enters
// its catchment; the player must leave every catchment before another one
// can fire, so arriving on top of a transition does not bounce back.
// Phase 6 (Transition).
type TransitionSystem struct {
	sim          *Simulation
	destinations *data.DestinationTable
	armed        bool
	log          *zap.Logger
}

func NewTransitionSystem(sim *Simulation, destinations *data.DestinationTable, log *zap.Logger) *TransitionSystem {
	return &TransitionSystem{sim: sim, destinations: destinations, log: log}
}

func (s *TransitionSystem) Phase() coresys.Phase { return coresys.PhaseTransition }

func (s *TransitionSystem) Update(tc *Tick) {
	t, ok := tc.Map.PlayerTransition()
	if !ok {
		s.armed = true
		return
	}
	if !s.armed {
		return
	}
	s.armed = false

	dest := s.destinations.Get(t.Destination)
	if dest == nil {
		s.log.Warn("unknown transition destination", zap.Int("destination", t.Destination))
		return
	}
	from := s.sim.CurrentMap()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := s.sim.Load(ctx, dest.Map, tc.Rng); err != nil {
		s.log.Error("transition failed", zap.String("map", dest.Map), zap.Error(err))
		return
	}
	s.sim.metrics.transition()
	event.Emit(tc.Bus, event.MapChanged{From: from, To: dest.Map})
	s.log.Info("map transition",
		zap.String("from", from),
		zap.String("to", dest.Map),
		zap.Int("destination", t.Destination))
}
