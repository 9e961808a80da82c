package entity

import (
	"testing"

	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryDefaults(t *testing.T) {
	f := NewFactory(ecs.NewIDSource(), 0)
	a := f.Create(12, TilesetObjects, vmath.V(10, 20), 32, 0.5)
	b := f.Create(12, TilesetObjects, vmath.V(10, 20), 32, 0.5)

	assert.Equal(t, ecs.EntityID(1), a.ID)
	assert.Equal(t, ecs.EntityID(2), b.ID)
	assert.Equal(t, 8, a.Visual.Frames)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, a.Visual.Color)
	assert.Equal(t, BlendNormal, a.Visual.Blend)
	assert.Equal(t, DefaultBaseSpeed, a.Attributes.BaseSpeed)
	assert.Zero(t, a.Attributes.HitPoints)
	assert.Equal(t, KindMapObject, a.Attributes.Kind)
	require.NotNil(t, a.Visual.Particles)
	assert.NotSame(t, a.Visual.Particles, b.Visual.Particles)
	assert.Zero(t, a.MoveTimeLeft)
}

func TestStepStopsAtMoveEnd(t *testing.T) {
	f := NewFactory(ecs.NewIDSource(), 0)
	o := f.Create(1, TilesetObjects, vmath.V(0, 0), 10, 1)
	o.Velocity = vmath.V(10, -4)
	o.MoveTimeLeft = 1

	for i := 0; i < 4; i++ {
		o.Step(0.25)
	}
	assert.InDelta(t, 10.0, o.Position.X, 1e-9)
	assert.InDelta(t, -4.0, o.Position.Y, 1e-9)
	assert.False(t, o.Moving())

	before, after := o.Step(0.25)
	assert.LessOrEqual(t, before, 0.0)
	assert.Equal(t, before, after)
	assert.InDelta(t, 10.0, o.Position.X, 1e-9)
}

func TestOrient(t *testing.T) {
	v := Visual{Frames: 8}
	assert.Equal(t, 0, v.Orient(1, 0))
	assert.Equal(t, 2, v.Orient(0, 1))
	assert.Equal(t, 4, v.Orient(-1, 0))
	assert.Equal(t, 6, v.Orient(0, -1))
	assert.Equal(t, 1, v.Orient(1, 1))
	assert.Equal(t, 0, v.Orient(0, 0))

	for dx := -3.0; dx <= 3; dx++ {
		for dy := -3.0; dy <= 3; dy++ {
			f := v.Orient(dx, dy)
			assert.GreaterOrEqual(t, f, 0)
			assert.Less(t, f, 8)
		}
	}
}

func TestMoveTo(t *testing.T) {
	f := NewFactory(ecs.NewIDSource(), 0)
	o := f.Create(100, TilesetCreatures, vmath.V(0, 0), 32, 1)

	require.True(t, MoveTo(o, vmath.V(300, 0), 150))
	assert.InDelta(t, 2.0, o.MoveTimeLeft, 1e-12)
	assert.InDelta(t, 150.0, o.Velocity.X, 1e-12)
	assert.Equal(t, 100, o.Visual.CurrentSpriteID)

	assert.False(t, MoveTo(o, o.Position, 150))
	assert.False(t, MoveTo(o, vmath.V(1, 1), 0))
}

func TestFireProjectile(t *testing.T) {
	f := NewFactory(ecs.NewIDSource(), 0)
	p := f.FireProjectile(vmath.V(0, 0), 25, vmath.V(0, 500), 200, KindCreatureProjectile)
	require.NotNil(t, p)

	assert.InDelta(t, 80.0, p.Position.Y, 1e-9)
	assert.InDelta(t, 200.0, p.Velocity.Y, 1e-9)
	assert.Equal(t, ProjectileLifetime, p.MoveTimeLeft)
	assert.Equal(t, MoveEndRemove, p.MoveEndAction)
	assert.Equal(t, KindCreatureProjectile, p.Attributes.Kind)
	assert.Equal(t, BlendAdd, p.Visual.Blend)
	assert.Equal(t, TilesetProjectiles, p.Visual.TilesetID)
	assert.Equal(t, 27, p.Visual.CurrentSpriteID)

	assert.Nil(t, f.FireProjectile(vmath.V(5, 5), 25, vmath.V(5, 5), 200, KindPlayerProjectile))
}

func TestBlendKeys(t *testing.T) {
	for _, b := range []Blend{BlendNormal, BlendAdd, BlendLighter, BlendMultiply, BlendInvert} {
		got, err := ParseBlendKey(b.Key())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err := ParseBlendKey("x")
	assert.Error(t, err)
}

func TestKindIsProjectile(t *testing.T) {
	assert.True(t, KindPlayerProjectile.IsProjectile())
	assert.True(t, KindCreatureProjectile.IsProjectile())
	assert.False(t, KindCreature.IsProjectile())
	assert.Equal(t, "creature", KindCreature.String())
}

func TestCanHit(t *testing.T) {
	assert.False(t, CanHit(KindPlayerProjectile, KindPlayer))
	assert.True(t, CanHit(KindPlayerProjectile, KindCreature))
	assert.True(t, CanHit(KindPlayerProjectile, KindMapObject))
	assert.False(t, CanHit(KindCreatureProjectile, KindCreature))
	assert.True(t, CanHit(KindCreatureProjectile, KindPlayer))
	assert.False(t, CanHit(KindCreature, KindPlayer))
	assert.False(t, CanHit(KindMapObject, KindCreature))
}
