package system

import coresys "github.com/fractallands/simcore/internal/core/system"

// DispatchSystem swaps the event bus and delivers last tick's events.
// Phase 0 (Dispatch).
type DispatchSystem struct{}

func (DispatchSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (DispatchSystem) Update(tc *Tick) {
	tc.Bus.SwapBuffers()
	tc.Bus.DispatchAll()
}
