package world

import (
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/entity"
)

// Select marks an entity of the given layer as the editor selection. It
// reports false if no such entity exists.
func (m *Map) Select(layer int, id ecs.EntityID) bool {
	if !m.Layer(layer).Has(id) {
		return false
	}
	m.selection = selection{active: true, layer: layer, id: id}
	return true
}

func (m *Map) ClearSelection() { m.selection = selection{} }

// Selected returns the current selection.
func (m *Map) Selected() (layer int, id ecs.EntityID, ok bool) {
	s := m.selection
	return s.layer, s.id, s.active
}

// SelectLayer chooses the layer editor picks operate on, dropping the
// selection if it lived on another layer.
func (m *Map) SelectLayer(layer int) {
	m.Layer(layer)
	if m.selection.layer != layer {
		m.selection = selection{layer: layer}
	}
}

// SelectedLayer is the layer editor picks operate on.
func (m *Map) SelectedLayer() int { return m.selection.layer }

// MoveSelected shifts the selected entity. It does nothing without a
// selection or when the selected entity has been removed.
func (m *Map) MoveSelected(dx, dy float64) {
	m.ApplyToSelected(func(o *entity.Object) {
		o.Position.X += dx
		o.Position.Y += dy
	})
}

// ApplyToSelected runs fn on the selected entity, if there is one.
func (m *Map) ApplyToSelected(fn func(*entity.Object)) {
	if !m.selection.active {
		return
	}
	o, ok := m.Layer(m.selection.layer).Get(m.selection.id)
	if !ok {
		return
	}
	fn(o)
}
