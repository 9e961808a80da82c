package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DestinationEntry binds a transition destination id to a map file.
type DestinationEntry struct {
	ID   int    `yaml:"id"`
	Map  string `yaml:"map"`
	Note string `yaml:"note"`
}

type destinationFile struct {
	Destinations []DestinationEntry `yaml:"destinations"`
}

// DestinationTable resolves the destination selector stored on a map
// transition to the map to load.
type DestinationTable struct {
	byID map[int]*DestinationEntry
}

// LoadDestinationTable loads destinations.yaml.
func LoadDestinationTable(path string) (*DestinationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read destination list %s: %w", path, err)
	}
	return ParseDestinationTable(raw)
}

// ParseDestinationTable decodes destination YAML. Duplicate ids are an error.
func ParseDestinationTable(raw []byte) (*DestinationTable, error) {
	var file destinationFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse destination list: %w", err)
	}
	t := &DestinationTable{
		byID: make(map[int]*DestinationEntry, len(file.Destinations)),
	}
	for i := range file.Destinations {
		e := &file.Destinations[i]
		if e.Map == "" {
			return nil, fmt.Errorf("destination %d: empty map name", e.ID)
		}
		if _, dup := t.byID[e.ID]; dup {
			return nil, fmt.Errorf("destination %d defined twice", e.ID)
		}
		t.byID[e.ID] = e
	}
	return t, nil
}

// Get returns the destination with the given id, or nil if none.
func (t *DestinationTable) Get(id int) *DestinationEntry {
	if t == nil {
		return nil
	}
	return t.byID[id]
}

// Count returns the total number of destinations loaded.
func (t *DestinationTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}
