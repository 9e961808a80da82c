package entity

import "github.com/fractallands/simcore/internal/vmath"

const (
	// ProjectileLifetime is how long a fired projectile flies before it is
	// removed.
	ProjectileLifetime = 2.0
	// muzzleOffset keeps a projectile from spawning inside its shooter's
	// hit radius.
	muzzleOffset = 80.0
)

// MoveTo starts a straight move towards dest at speed world units per second
// and faces the sprite along it. It reports false, leaving the object
// untouched, when dest equals the current position or speed is not positive.
func MoveTo(o *Object, dest vmath.Vec2, speed float64) bool {
	dir := dest.Sub(o.Position)
	dist := dir.Len()
	if dist == 0 || speed <= 0 {
		return false
	}
	t := dist / speed
	o.MoveTimeLeft = t
	o.Velocity = dir.Scale(1 / t)
	o.Visual.Face(dir)
	return true
}

// FireProjectile builds a projectile flying from shooter towards target. It
// returns nil when target equals shooter.
func (f *Factory) FireProjectile(shooter vmath.Vec2, spriteID int, target vmath.Vec2, speed float64, kind Kind) *Object {
	dir := target.Sub(shooter).Normalized()
	if dir.IsZero() {
		return nil
	}
	velocity := dir.Scale(speed)
	start := shooter.Add(dir.Scale(muzzleOffset))

	p := f.Create(spriteID, TilesetProjectiles, start, 12, 1)
	p.Velocity = velocity
	p.MoveTimeLeft = ProjectileLifetime
	p.MoveEndAction = MoveEndRemove
	p.Attributes.Kind = kind
	p.Visual.Face(velocity)
	p.Visual.Blend = BlendAdd
	return p
}
