package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const populationsYAML = `
populations:
  - map: warmup.map
    groups:
      - name: wolves
        sprite_id: 41
        min_count: 3
        max_count: 5
        center: {x: 1216, y: 1448}
        spacing: 40
        scale: 0.5
        hit_points: 1
        speed: 150
        mobile: true
        projectile_sprite: 25
        projectile_speed: 200
      - sprite_id: 60
        min_count: 1
        max_count: 1
        center: {x: 10, y: 20}
  - map: cave.map
    groups: []
`

func TestLoadPopulationTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "populations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(populationsYAML), 0o644))

	table, err := LoadPopulationTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	groups := table.Groups("warmup.map")
	require.Len(t, groups, 2)
	assert.Equal(t, "wolves", groups[0].Name)
	assert.Equal(t, 41, groups[0].SpriteID)
	assert.Equal(t, Point{X: 1216, Y: 1448}, groups[0].Center)
	assert.True(t, groups[0].Mobile)
	assert.Equal(t, 200.0, groups[0].ProjectileSpeed)
	assert.Equal(t, "warmup.map#1", groups[1].Name)
	assert.Equal(t, 1.0, groups[1].Scale)

	assert.Empty(t, table.Groups("cave.map"))
	assert.Nil(t, table.Groups("nowhere.map"))
}

func TestPopulationTableRejectsBadCounts(t *testing.T) {
	_, err := ParsePopulationTable([]byte(`
populations:
  - map: a.map
    groups:
      - {sprite_id: 1, min_count: 4, max_count: 2}
`))
	assert.Error(t, err)

	_, err = LoadPopulationTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDestinationTable(t *testing.T) {
	table, err := ParseDestinationTable([]byte(`
destinations:
  - {id: 0, map: warmup.map, note: start}
  - {id: 2, map: cave.map}
`))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())
	assert.Equal(t, "cave.map", table.Get(2).Map)
	assert.Nil(t, table.Get(7))

	var empty *DestinationTable
	assert.Nil(t, empty.Get(0))
	assert.Zero(t, empty.Count())

	_, err = ParseDestinationTable([]byte("destinations:\n  - {id: 1, map: a}\n  - {id: 1, map: b}\n"))
	assert.Error(t, err)
	_, err = ParseDestinationTable([]byte("destinations:\n  - {id: 1}\n"))
	assert.Error(t, err)
}
