package system

import (
	"github.com/fractallands/simcore/internal/core/event"
	coresys "github.com/fractallands/simcore/internal/core/system"
)

// CleanupSystem flushes the deferred removal queue at tick end.
// Phase 5 (Cleanup).
type CleanupSystem struct{}

func (CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (CleanupSystem) Update(tc *Tick) {
	for _, id := range tc.Map.FlushRemovals() {
		event.Emit(tc.Bus, event.EntityRemoved{EntityID: id})
	}
}
