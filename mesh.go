package ngon

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// PolygonMesh keeps faces at their original arity. Triangulation only
// happens when geometry buffers are built from it.
type PolygonMesh struct {
	Verts   []Vector3
	Faces   []Face
	Colors  []Color
	Normals []Vector3
}

// NewPolygonMesh wraps the given sequences. Normals are left empty; call
// ComputeNormals once the faces are final.
func NewPolygonMesh(verts []Vector3, faces []Face, colors []Color) *PolygonMesh {
	return &PolygonMesh{
		Verts:  verts,
		Faces:  faces,
		Colors: colors,
	}
}

func (m *PolygonMesh) VertexCount() int {
	return len(m.Verts)
}

func (m *PolygonMesh) FaceCount() int {
	return len(m.Faces)
}

// TriangleCount is the number of triangles the surface geometry will hold.
func (m *PolygonMesh) TriangleCount() int {
	total := 0
	for _, f := range m.Faces {
		total += f.TriangleCount()
	}
	return total
}

// EdgeCount is the number of wireframe segments, the sum of face arities.
func (m *PolygonMesh) EdgeCount() int {
	total := 0
	for _, f := range m.Faces {
		total += len(f)
	}
	return total
}

// HasColors reports whether every vertex carries a color. A partial color
// list cannot be matched to vertices and counts as no color data.
func (m *PolygonMesh) HasColors() bool {
	return len(m.Colors) > 0 && len(m.Colors) == len(m.Verts)
}

// HasNormals reports whether ComputeNormals has populated one normal per vertex.
func (m *PolygonMesh) HasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Verts)
}

// Validate checks that every face index addresses an existing vertex.
func (m *PolygonMesh) Validate() error {
	for fi, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Verts) {
				return fmt.Errorf("face %d references vertex %d of %d: %w", fi, idx, len(m.Verts), ErrInvalidFaceIndex)
			}
		}
	}
	return nil
}

// Clone returns a deep copy, so a caller can recentre or edit without
// touching a mesh that is being displayed.
func (m *PolygonMesh) Clone() *PolygonMesh {
	c := &PolygonMesh{
		Verts:   append([]Vector3(nil), m.Verts...),
		Colors:  append([]Color(nil), m.Colors...),
		Normals: append([]Vector3(nil), m.Normals...),
		Faces:   make([]Face, len(m.Faces)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = append(Face(nil), f...)
	}
	return c
}

// Bounds returns the axis aligned bounding box of the vertices. An empty mesh
// has a zero box.
func (m *PolygonMesh) Bounds() (Vector3, Vector3) {
	if len(m.Verts) == 0 {
		return Vector3{}, Vector3{}
	}
	lo, hi := m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		lo = lo.min(v)
		hi = hi.max(v)
	}
	return lo, hi
}

// Center is the middle of the bounding box.
func (m *PolygonMesh) Center() Vector3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the bounding box side lengths.
func (m *PolygonMesh) Size() Vector3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Extent is the longest side of the bounding box.
func (m *PolygonMesh) Extent() float64 {
	s := m.Size()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

// GridUnit is the power of ten just below the extent, used to size a
// reference grid. It is 1 for empty or flat meshes.
func (m *PolygonMesh) GridUnit() float64 {
	extent := m.Extent()
	if !(extent > 0) {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(extent)))
}

// CentreObject moves all vertices so the bounding box centre is at the
// origin. Normals are direction only and stay as they are.
func (m *PolygonMesh) CentreObject() {
	if len(m.Verts) == 0 {
		return
	}
	c := m.Center()
	for i := range m.Verts {
		m.Verts[i] = m.Verts[i].Sub(c)
	}
}

// LogSummary writes the mesh statistics to logger.
func (m *PolygonMesh) LogSummary(logger *zap.Logger, name string) {
	size := m.Size()
	logger.Info("mesh loaded",
		zap.String("name", name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("edges", m.EdgeCount()),
		zap.Bool("colors", m.HasColors()),
		zap.Float64("sizeX", size.X),
		zap.Float64("sizeY", size.Y),
		zap.Float64("sizeZ", size.Z),
	)
}
