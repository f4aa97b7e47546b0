package ngon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector3Arithmetic(t *testing.T) {
	a := NewVector3(1, 2, 3)
	b := NewVector3(4, -5, 6)

	assert.Equal(t, NewVector3(5, -3, 9), a.Add(b))
	assert.Equal(t, NewVector3(-3, 7, -3), a.Sub(b))
	assert.Equal(t, NewVector3(2, 4, 6), a.Scale(2))
	assert.InDelta(t, 12, a.Dot(b), float64EqualityThreshold)
	assertVecNear(t, NewVector3(27, 6, -13), a.Cross(b))
	assertVecNear(t, NewVector3(0, 0, 1), NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)))
}

func TestVector3Normalize(t *testing.T) {
	n := NewVector3(3, 0, 4).Normalize()
	assertVecNear(t, NewVector3(0.6, 0, 0.8), n)
	assert.InDelta(t, 1, n.Length(), float64EqualityThreshold)

	assert.True(t, Vector3{}.Normalize().IsZero())
	assert.InDelta(t, 5, NewVector3(0, 0, 0).DistanceTo(NewVector3(3, 4, 0)), float64EqualityThreshold)
}

func TestVector3HasNaN(t *testing.T) {
	assert.False(t, NewVector3(1, 2, 3).HasNaN())
	assert.True(t, NewVector3(1, math.NaN(), 3).HasNaN())
}

func TestVector3Vec(t *testing.T) {
	v := NewVector3(1, 2, 3)
	assert.Equal(t, v, NewVector3FromVec(v.Vec()))
}
