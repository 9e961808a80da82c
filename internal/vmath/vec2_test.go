package vmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Basics(t *testing.T) {
	a := V(3, 4)
	assert.Equal(t, 5.0, a.Len())
	assert.Equal(t, 25.0, a.LenSq())
	assert.Equal(t, V(4, 6), a.Add(V(1, 2)))
	assert.Equal(t, V(2, 2), a.Sub(V(1, 2)))
	assert.Equal(t, V(6, 8), a.Scale(2))
	assert.Equal(t, 8.0, V(0, 0).DistSq(V(2, 2)))
	assert.InDelta(t, 1.0, a.Normalized().Len(), 1e-12)
	assert.True(t, Vec2{}.Normalized().IsZero())
}
