package entity

import (
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/particle"
	"github.com/fractallands/simcore/internal/vmath"
)

const (
	// DefaultBaseSpeed is the movement speed of a fresh object in world
	// units per second.
	DefaultBaseSpeed = 150.0
	DefaultFrames    = 8
)

// Tileset ids the core refers to directly.
const (
	TilesetGround      = 0
	TilesetObjects     = 1
	TilesetClouds      = 2
	TilesetPlayer      = 4
	TilesetProjectiles = 5
	TilesetCreatures   = 6
	TilesetEffects     = 7
)

var white = [4]float32{1, 1, 1, 1}

// Factory builds objects with fresh ids.
type Factory struct {
	ids              *ecs.IDSource
	particleCapacity int
}

// NewFactory returns a factory drawing ids from src. particleCapacity sizes
// every new visual's particle pool; zero selects the pool default.
func NewFactory(src *ecs.IDSource, particleCapacity int) *Factory {
	return &Factory{ids: src, particleCapacity: particleCapacity}
}

// Create builds a generic map object with default visual and attributes.
func (f *Factory) Create(spriteID, tilesetID int, pos vmath.Vec2, height, scale float64) *Object {
	return &Object{
		ID:       f.ids.Next(),
		Position: pos,
		Scale:    scale,
		Visual: Visual{
			BaseSpriteID:    spriteID,
			CurrentSpriteID: spriteID,
			Frames:          DefaultFrames,
			TilesetID:       tilesetID,
			Height:          height,
			Color:           white,
			Blend:           BlendNormal,
			Particles:       particle.NewPool(f.particleCapacity),
		},
		Attributes: Attributes{
			BaseSpeed: DefaultBaseSpeed,
			Kind:      KindMapObject,
		},
	}
}

// NewPlayer builds the player object.
func (f *Factory) NewPlayer(pos vmath.Vec2) *Object {
	p := f.Create(39, TilesetPlayer, pos, 24, 1)
	p.Visual.Frames = 16
	p.Attributes.Kind = KindPlayer
	p.Attributes.HitPoints = 100
	p.UpdateAction = UpdateEmitDriveParticles
	return p
}
