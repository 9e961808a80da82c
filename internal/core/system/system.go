package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseDispatch   Phase = iota // 0: deliver last tick's events
	PhaseAI                      // 1: mob group schedulers, may spawn projectiles
	PhaseMotion                  // 2: integrate motion, age particles, run animations
	PhaseCollision               // 3: collect projectile/target pairs
	PhaseResolution              // 4: apply hits
	PhaseCleanup                 // 5: destroy queued entities
	PhaseTransition              // 6: map transition check
)

func (p Phase) String() string {
	switch p {
	case PhaseDispatch:
		return "dispatch"
	case PhaseAI:
		return "ai"
	case PhaseMotion:
		return "motion"
	case PhaseCollision:
		return "collision"
	case PhaseResolution:
		return "resolution"
	case PhaseCleanup:
		return "cleanup"
	case PhaseTransition:
		return "transition"
	}
	return "unknown"
}

// System is the interface every per-tick system implements. C is the tick
// context handed to every system for one tick.
type System[C any] interface {
	Phase() Phase
	Update(tc C)
}
