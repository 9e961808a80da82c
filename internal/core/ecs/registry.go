package ecs

// Table is a per-entity store the registry can purge.
type Table interface {
	Remove(id EntityID)
	Clear()
}

// Registry lists every table holding data for the entities of one World.
// Removals and wipes go through it so no table keeps rows of a dead entity.
type Registry struct {
	tables []Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make([]Table, 0, 8)}
}

// Register adds t. Tables are purged in registration order.
func (r *Registry) Register(t Table) {
	r.tables = append(r.tables, t)
}

// Purge drops id from every table.
func (r *Registry) Purge(id EntityID) {
	for _, t := range r.tables {
		t.Remove(id)
	}
}

// Wipe empties every table.
func (r *Registry) Wipe() {
	for _, t := range r.tables {
		t.Clear()
	}
}
