package event

import "github.com/fractallands/simcore/internal/core/ecs"

// ProjectileHit is emitted when a projectile damages a target.
type ProjectileHit struct {
	Projectile ecs.EntityID
	Target     ecs.EntityID
	Damage     int
	TargetHP   int
}

// EntityRemoved is emitted for every entity dropped by the end-of-tick cleanup.
type EntityRemoved struct {
	EntityID ecs.EntityID
}

// MapChanged is emitted after a transition loaded a new map.
type MapChanged struct {
	From string
	To   string
}

// MobMemberPruned is emitted when a mob group drops a member whose entity
// disappeared.
type MobMemberPruned struct {
	Group    string
	EntityID ecs.EntityID
}
