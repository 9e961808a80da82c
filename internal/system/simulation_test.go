package system

import (
	"context"
	"math/rand"
	"testing"

	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/core/event"
	"github.com/fractallands/simcore/internal/data"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/persist"
	"github.com/fractallands/simcore/internal/vmath"
	"github.com/fractallands/simcore/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaleMemberIsPruned(t *testing.T) {
	s := newTestSim(Options{})
	m := s.Map()
	rng := rand.New(rand.NewSource(11))

	ids := m.SpawnCreatures(world.CreatureSpawn{
		SpriteID: 41, MinCount: 3, MaxCount: 3,
		Center: vmath.V(300, 300), Spacing: 40, Scale: 0.5,
	}, rng)
	require.Len(t, ids, 3)
	g := NewMobGroup("test", ids, vmath.V(300, 300), true, rng)
	s.AI().AddGroup(g)

	var pruned []event.MobMemberPruned
	event.Subscribe(s.Bus(), func(e event.MobMemberPruned) { pruned = append(pruned, e) })

	m.QueueRemoval(ids[1])
	m.FlushRemovals()

	s.Update(1.0/60, rng, nil)
	assert.Equal(t, []ecs.EntityID{ids[0], ids[2]}, g.Members())

	assert.NotPanics(t, func() {
		for i := 0; i < 5*60; i++ {
			s.Update(1.0/60, rng, nil)
		}
	})
	assert.Equal(t, []ecs.EntityID{ids[0], ids[2]}, g.Members())
	assert.Equal(t, []event.MobMemberPruned{{Group: "test", EntityID: ids[1]}}, pruned)
}

func TestMobGroupPrunesBeforeCountdown(t *testing.T) {
	m := world.New(world.Header{}, 16, nil)
	rng := rand.New(rand.NewSource(5))

	var ids []ecs.EntityID
	for i := 0; i < 3; i++ {
		o := m.Factory().Create(41, entity.TilesetCreatures, vmath.V(100+float64(i)*50, 100), 32, 0.5)
		o.Attributes.Kind = entity.KindCreature
		m.Insert(world.LayerObject, o)
		ids = append(ids, o.ID)
	}
	g := NewMobGroup("fresh", ids, vmath.V(150, 100), false, rng)

	m.QueueRemoval(ids[2])
	m.FlushRemovals()

	out := g.Update(m, 1.0/60, rng)
	assert.Equal(t, []ecs.EntityID{ids[2]}, out.Pruned)
	assert.Equal(t, ids[:2], g.Members())
	assert.Zero(t, out.Fired+out.Moved, "countdowns of at least one second are still running")
}

func TestMobGroupStaysOnLeash(t *testing.T) {
	m := world.New(world.Header{}, 16, nil)
	rng := rand.New(rand.NewSource(21))
	center := vmath.V(500, 500)

	o := m.Factory().Create(41, entity.TilesetCreatures, vmath.V(650, 500), 32, 0.5)
	o.Attributes.Kind = entity.KindCreature
	m.Insert(world.LayerObject, o)

	g := NewMobGroup("leash", []ecs.EntityID{o.ID}, center, true, rng)
	g.Leash = 100
	limit := g.Leash + homeBox*1.5

	moves := 0
	for i := 0; i < 200; i++ {
		o.Stop()
		out := g.Update(m, 10, rng)
		moves += out.Moved
		if !o.Moving() {
			continue
		}
		dest := o.Position.Add(o.Velocity.Scale(o.MoveTimeLeft))
		assert.LessOrEqual(t, dest.DistSq(center), limit*limit)
	}
	assert.Positive(t, moves)
}

func TestMobGroupFiresCreatureProjectiles(t *testing.T) {
	m := world.New(world.Header{}, 16, nil)
	rng := rand.New(rand.NewSource(4))

	o := m.Factory().Create(41, entity.TilesetCreatures, vmath.V(600, 600), 32, 0.5)
	o.Attributes.Kind = entity.KindCreature
	m.Insert(world.LayerObject, o)
	g := NewMobGroup("gunners", []ecs.EntityID{o.ID}, o.Position, false, rng)

	fired := 0
	for i := 0; i < 100; i++ {
		fired += g.Update(m, 10, rng).Fired
	}
	require.Positive(t, fired)
	assert.Equal(t, vmath.V(600, 600), o.Position, "immobile members never move")

	projectiles := 0
	m.Objects().Each(func(_ ecs.EntityID, p *entity.Object) {
		if p.Attributes.Kind == entity.KindCreatureProjectile {
			projectiles++
			assert.Equal(t, entity.MoveEndRemove, p.MoveEndAction)
			assert.Equal(t, entity.ProjectileLifetime, p.MoveTimeLeft)
			assert.Equal(t, DefaultProjectileSprite, p.Visual.BaseSpriteID)
		}
	})
	assert.Equal(t, fired, projectiles)
}

const populationsYAML = `
populations:
  - map: warmup.map
    groups:
      - name: bugs
        sprite_id: 41
        min_count: 3
        max_count: 5
        center: {x: 1216, y: 1448}
        spacing: 40
        scale: 0.5
        mobile: true
`

const destinationsYAML = `
destinations:
  - id: 1
    map: second.map
    note: north exit
`

var exitPoint = vmath.V(2000, 2000)

// fixture writes two maps to a directory store: warmup.map with a
// transition at exitPoint leading to destination 1, and an empty second.map.
func fixture(t *testing.T) (*persist.DirStore, *data.PopulationTable, *data.DestinationTable) {
	t.Helper()
	ctx := context.Background()
	store := persist.NewDirStore(t.TempDir())

	warmup := &world.Document{
		Header: world.Header{Name: "Warmup", GroundImage: "warmup.png", BackdropImage: "sky.png"},
		Placements: []world.Placement{
			{Layer: world.LayerGround, SpriteID: 3, Frames: 1, Position: vmath.V(800, 900), Scale: 1, Color: [4]float32{1, 1, 1, 1}},
			{Layer: world.LayerObject, SpriteID: 12, Frames: 8, Position: vmath.V(1400, 1100), Height: 40, Scale: 1, Color: [4]float32{1, 1, 1, 1}},
			{Layer: world.LayerCloud, SpriteID: 2, Frames: 1, Position: vmath.V(900, 700), Height: 300, Scale: 2, Color: [4]float32{1, 1, 1, 0.5}, Blend: entity.BlendAdd},
		},
		Transitions: []world.Transition{{Origin: exitPoint, Radius: 50, Destination: 1}},
	}
	second := &world.Document{Header: world.Header{Name: "Second", GroundImage: "second.png", BackdropImage: "sky.png"}}
	require.NoError(t, store.Write(ctx, "warmup.map", world.EncodeMap(warmup)))
	require.NoError(t, store.Write(ctx, "second.map", world.EncodeMap(second)))

	pop, err := data.ParsePopulationTable([]byte(populationsYAML))
	require.NoError(t, err)
	dest, err := data.ParseDestinationTable([]byte(destinationsYAML))
	require.NoError(t, err)
	return store, pop, dest
}

type entitySnapshot struct {
	Layer     int
	ID        ecs.EntityID
	Position  vmath.Vec2
	Velocity  vmath.Vec2
	MoveLeft  float64
	HitPoints int
	Sprite    int
	Timer     float64
	Color     [4]float32
	Particles int
}

func snapshot(m *world.Map) []entitySnapshot {
	var out []entitySnapshot
	for layer := 0; layer < world.LayerCount; layer++ {
		m.Layer(layer).Each(func(id ecs.EntityID, o *entity.Object) {
			out = append(out, entitySnapshot{
				Layer:     layer,
				ID:        id,
				Position:  o.Position,
				Velocity:  o.Velocity,
				MoveLeft:  o.MoveTimeLeft,
				HitPoints: o.Attributes.HitPoints,
				Sprite:    o.Visual.CurrentSpriteID,
				Timer:     o.AnimationTimer,
				Color:     o.Visual.Color,
				Particles: o.Visual.Particles.ActiveCount(),
			})
		})
	}
	return out
}

type runResult struct {
	beforeTransition []entitySnapshot
	final            []entitySnapshot
	playerBefore     ecs.EntityID
	playerAfter      ecs.EntityID
	groupSize        int
	mapName          string
	changes          []event.MapChanged
}

// scriptedRun plays 10 seconds at 60Hz: the player fires at the group after
// 5 seconds and is teleported onto the exit after 8.
func scriptedRun(t *testing.T, seed int64) runResult {
	store, pop, dest := fixture(t)
	rng := rand.New(rand.NewSource(seed))
	s := New(world.New(world.Header{}, 256, nil), Options{
		Store:        store,
		Populations:  pop,
		Destinations: dest,
	})
	require.NoError(t, s.Load(context.Background(), "warmup.map", rng))

	var res runResult
	event.Subscribe(s.Bus(), func(e event.MapChanged) { res.changes = append(res.changes, e) })
	res.playerBefore = s.Map().PlayerID()
	require.Len(t, s.AI().Groups(), 1)
	res.groupSize = s.AI().Groups()[0].Len()

	const dt = 1.0 / 60
	for tick := 0; tick < 600; tick++ {
		switch tick {
		case 300:
			_, ok := s.FirePlayerProjectile(vmath.V(1216, 1448), nil)
			require.True(t, ok)
		case 480:
			res.beforeTransition = snapshot(s.Map())
			p := s.Map().Player()
			p.Position = exitPoint
			p.Stop()
		}
		s.Update(dt, rng, nil)
	}
	res.final = snapshot(s.Map())
	res.playerAfter = s.Map().PlayerID()
	res.mapName = s.CurrentMap()
	return res
}

func TestSimulationIsDeterministic(t *testing.T) {
	a := scriptedRun(t, 1234)
	b := scriptedRun(t, 1234)

	assert.GreaterOrEqual(t, a.groupSize, 3)
	assert.LessOrEqual(t, a.groupSize, 5)
	require.Equal(t, a.beforeTransition, b.beforeTransition)
	require.Equal(t, a.final, b.final)

	c := scriptedRun(t, 4321)
	assert.NotEqual(t, a.beforeTransition, c.beforeTransition)
}

func TestTransitionKeepsPlayer(t *testing.T) {
	res := scriptedRun(t, 77)

	assert.Equal(t, res.playerBefore, res.playerAfter)
	assert.Equal(t, "second.map", res.mapName)
	assert.Equal(t, []event.MapChanged{{From: "warmup.map", To: "second.map"}}, res.changes)

	// second.map is empty: only the player is left, standing where it arrived
	require.Len(t, res.final, 1)
	assert.Equal(t, res.playerBefore, res.final[0].ID)
	assert.Equal(t, exitPoint, res.final[0].Position)
	assert.Zero(t, res.final[0].MoveLeft)
}

func TestTransitionToUnknownDestinationIsIgnored(t *testing.T) {
	store, pop, _ := fixture(t)
	dest, err := data.ParseDestinationTable([]byte("destinations: []\n"))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	s := New(world.New(world.Header{}, 16, nil), Options{Store: store, Populations: pop, Destinations: dest})
	require.NoError(t, s.Load(context.Background(), "warmup.map", rng))

	s.Update(1.0/60, rng, nil)
	s.Map().Player().Position = exitPoint
	s.Update(1.0/60, rng, nil)
	assert.Equal(t, "warmup.map", s.CurrentMap())
}

func TestLoadDisarmsTransitions(t *testing.T) {
	store, pop, dest := fixture(t)
	rng := rand.New(rand.NewSource(2))
	s := New(world.New(world.Header{}, 16, nil), Options{Store: store, Populations: pop, Destinations: dest})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx, "warmup.map", rng))

	s.Update(1.0/60, rng, nil)
	s.Map().Player().Position = exitPoint
	require.NoError(t, s.Load(ctx, "warmup.map", rng))

	for i := 0; i < 10; i++ {
		s.Update(1.0/60, rng, nil)
	}
	assert.Equal(t, "warmup.map", s.CurrentMap(), "landing on a catchment does not fire")

	s.Map().Player().Position = vmath.V(0, 0)
	s.Update(1.0/60, rng, nil)
	s.Map().Player().Position = exitPoint
	s.Update(1.0/60, rng, nil)
	assert.Equal(t, "second.map", s.CurrentMap())
}

func TestLoadFailureLeavesMapUntouched(t *testing.T) {
	store, pop, dest := fixture(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "broken.map", []byte("v10\nbegin map header\n")))

	rng := rand.New(rand.NewSource(1))
	s := New(world.New(world.Header{}, 16, nil), Options{Store: store, Populations: pop, Destinations: dest})
	require.NoError(t, s.Load(ctx, "warmup.map", rng))
	before := snapshot(s.Map())

	err := s.Load(ctx, "broken.map", rng)
	assert.ErrorIs(t, err, world.ErrMalformedMap)
	err = s.Load(ctx, "missing.map", rng)
	assert.ErrorIs(t, err, persist.ErrMapNotFound)

	assert.Equal(t, before, snapshot(s.Map()))
	assert.Equal(t, "warmup.map", s.CurrentMap())
	assert.Len(t, s.AI().Groups(), 1)
}

func TestLoadWithoutStore(t *testing.T) {
	s := newTestSim(Options{})
	assert.ErrorIs(t, s.Load(context.Background(), "warmup.map", rand.New(rand.NewSource(1))), ErrNoStore)
	assert.ErrorIs(t, s.Save(context.Background(), "warmup.map"), ErrNoStore)
}
