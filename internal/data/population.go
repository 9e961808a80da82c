package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Point is a world position in YAML form.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// GroupEntry describes one creature group spawned when its map loads.
type GroupEntry struct {
	Name      string  `yaml:"name"`
	SpriteID  int     `yaml:"sprite_id"`
	MinCount  int     `yaml:"min_count"`
	MaxCount  int     `yaml:"max_count"`
	Center    Point   `yaml:"center"`
	Spacing   float64 `yaml:"spacing"`
	Scale     float64 `yaml:"scale"`
	HitPoints int     `yaml:"hit_points"`
	Speed     float64 `yaml:"speed"`
	Mobile    bool    `yaml:"mobile"`
	// Leash is how far members may wander from Center. Zero selects the
	// scheduler default.
	Leash            float64 `yaml:"leash"`
	ProjectileSprite int     `yaml:"projectile_sprite"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
}

// PopulationEntry lists the groups of one map.
type PopulationEntry struct {
	Map    string       `yaml:"map"`
	Groups []GroupEntry `yaml:"groups"`
}

type populationFile struct {
	Populations []PopulationEntry `yaml:"populations"`
}

// PopulationTable provides creature group lookups by map file name.
type PopulationTable struct {
	byMap map[string][]GroupEntry
}

// LoadPopulationTable loads populations.yaml.
func LoadPopulationTable(path string) (*PopulationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read population list %s: %w", path, err)
	}
	return ParsePopulationTable(raw)
}

// ParsePopulationTable decodes population YAML and validates the counts.
func ParsePopulationTable(raw []byte) (*PopulationTable, error) {
	var file populationFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse population list: %w", err)
	}
	t := &PopulationTable{
		byMap: make(map[string][]GroupEntry, len(file.Populations)),
	}
	for _, p := range file.Populations {
		for i, g := range p.Groups {
			if g.MinCount < 0 || g.MaxCount < g.MinCount {
				return nil, fmt.Errorf("population %s group %d: bad count range %d..%d", p.Map, i, g.MinCount, g.MaxCount)
			}
			if g.Scale == 0 {
				p.Groups[i].Scale = 1
			}
			if g.Name == "" {
				p.Groups[i].Name = fmt.Sprintf("%s#%d", p.Map, i)
			}
		}
		t.byMap[p.Map] = append(t.byMap[p.Map], p.Groups...)
	}
	return t, nil
}

// Groups returns the groups configured for the map, or nil.
func (t *PopulationTable) Groups(mapName string) []GroupEntry {
	if t == nil {
		return nil
	}
	return t.byMap[mapName]
}

// Count returns the number of maps with a population.
func (t *PopulationTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.byMap)
}
