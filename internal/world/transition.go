package world

import (
	"github.com/fractallands/simcore/internal/vmath"
	"go.uber.org/zap"
)

func (m *Map) AddTransition(t Transition) {
	m.transitions = append(m.transitions, t)
}

// Transitions returns the map's transition triggers. The slice must not be
// modified.
func (m *Map) Transitions() []Transition { return m.transitions }

// TransitionAt returns the first transition whose catchment contains pos.
func (m *Map) TransitionAt(pos vmath.Vec2) (Transition, bool) {
	for _, t := range m.transitions {
		if pos.DistSq(t.Origin) < t.Radius*t.Radius {
			return t, true
		}
	}
	return Transition{}, false
}

// PlayerTransition checks the player's position against every transition.
func (m *Map) PlayerTransition() (Transition, bool) {
	return m.TransitionAt(m.PlayerPosition())
}

// Reset empties the map for a new header, keeping only the player, which is
// reinserted into the object layer with its motion stopped. Entity ids keep
// counting up across resets.
func (m *Map) Reset(h Header) {
	player := m.Player()
	m.layers[LayerObject].Remove(m.playerID)
	playerAnim, hasAnim := m.animations.Get(m.playerID)

	m.ecs.Reset()
	m.transitions = nil
	m.selection = selection{}

	m.Header = h
	player.Stop()
	m.layers[LayerObject].Set(m.playerID, player)
	if hasAnim {
		m.animations.Set(m.playerID, playerAnim)
	}
	m.log.Debug("map reset", zap.String("name", h.Name), zap.Uint64("player", uint64(m.playerID)))
}
