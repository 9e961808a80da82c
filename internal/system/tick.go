package system

import (
	"math/rand"

	"github.com/fractallands/simcore/internal/audio"
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/core/event"
	"github.com/fractallands/simcore/internal/world"
)

// Speaker is the audio collaborator. Play is fire-and-forget and must not
// block the tick.
type Speaker interface {
	Play(id audio.SoundID, volume float64)
}

// Tick is the context every system receives for one tick. It is reused
// across ticks by the Simulation.
type Tick struct {
	Dt    float64
	Rng   *rand.Rand
	Audio Speaker
	Map   *world.Map
	Bus   *event.Bus

	// hits collects projectile/target candidates between the collision and
	// resolution phases.
	hits []hitPair
}

type hitPair struct {
	projectile ecs.EntityID
	target     ecs.EntityID
}
