package ngon

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const float64EqualityThreshold = 1e-6

const unitSquareOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func assertVecNear(t *testing.T, want, got Vector3, msgAndArgs ...interface{}) {
	t.Helper()
	if almostEqual(want.X, got.X) && almostEqual(want.Y, got.Y) && almostEqual(want.Z, got.Z) {
		return
	}
	context := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			context = fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.Failf(t, "vectors differ", "want %+v, got %+v %s", want, got, context)
}

// regularPolygon returns k points on the unit circle in the XY plane, counter
// clockwise, and the face that joins them.
func regularPolygon(k int) ([]Vector3, Face) {
	verts := make([]Vector3, k)
	face := make(Face, k)
	for i := 0; i < k; i++ {
		a := 2 * math.Pi * float64(i) / float64(k)
		verts[i] = NewVector3(math.Cos(a), math.Sin(a), 0)
		face[i] = i
	}
	return verts, face
}
