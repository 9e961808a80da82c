package world

import (
	"math/rand"

	"github.com/fractallands/simcore/internal/anim"
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/vmath"
	"go.uber.org/zap"
)

const (
	placementTries   = 10
	minCreatureSpace = 20.0
	creatureHeight   = 32.0
)

// CreatureSpawn describes a batch of identical creatures scattered around a
// center.
type CreatureSpawn struct {
	SpriteID  int
	MinCount  int
	MaxCount  int
	Center    vmath.Vec2
	Spacing   float64
	Scale     float64
	HitPoints int
	Speed     float64
}

// SpawnCreatures places between MinCount and MaxCount creatures in a box of
// ten spacings around the center, keeping them minCreatureSpace apart. A
// creature that finds no free spot in placementTries attempts is skipped.
// Each creature gets an idle spin animation with a random phase so the group
// does not animate in lockstep. It returns the new ids in creation order.
func (m *Map) SpawnCreatures(s CreatureSpawn, rng *rand.Rand) []ecs.EntityID {
	count := s.MinCount
	if s.MaxCount > s.MinCount {
		count += rng.Intn(s.MaxCount - s.MinCount + 1)
	}
	hp := s.HitPoints
	if hp <= 0 {
		hp = 1
	}

	placed := make([]vmath.Vec2, 0, count)
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		for try := 0; try < placementTries; try++ {
			pos := vmath.V(
				s.Center.X+s.Spacing*(rng.Float64()*10-5),
				s.Center.Y+s.Spacing*(rng.Float64()*10-5),
			)
			if !clearOf(placed, pos) {
				continue
			}
			o := m.factory.Create(s.SpriteID, entity.TilesetCreatures, pos, creatureHeight, s.Scale)
			o.Attributes.Kind = entity.KindCreature
			o.Attributes.HitPoints = hp
			if s.Speed > 0 {
				o.Attributes.BaseSpeed = s.Speed
			}
			o.AnimationTimer = rng.Float64()
			m.Insert(LayerObject, o)
			m.SetAnimation(o.ID, anim.Spin(anim.CreatureSpinSpeed))
			placed = append(placed, pos)
			ids = append(ids, o.ID)
			break
		}
	}
	m.log.Debug("creatures spawned",
		zap.Int("sprite", s.SpriteID),
		zap.Int("requested", count),
		zap.Int("placed", len(ids)))
	return ids
}

func clearOf(placed []vmath.Vec2, pos vmath.Vec2) bool {
	for _, p := range placed {
		if p.DistSq(pos) <= minCreatureSpace*minCreatureSpace {
			return false
		}
	}
	return true
}
