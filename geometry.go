package ngon

// Semantic names for buffer attributes, matching what renderers expect.
const (
	AttributePosition = "position"
	AttributeNormal   = "normal"
	AttributeColor    = "color"
)

// BufferAttribute is a flat float array plus the metadata an adapter needs to
// bind it: the semantic name and how many floats make up one item.
type BufferAttribute struct {
	Name     string
	ItemSize int
	Array    []float32
}

func newBufferAttribute(name string, itemSize, capacity int) *BufferAttribute {
	return &BufferAttribute{
		Name:     name,
		ItemSize: itemSize,
		Array:    make([]float32, 0, capacity*itemSize),
	}
}

// Count is the number of items, not floats.
func (a *BufferAttribute) Count() int {
	if a == nil || a.ItemSize == 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

// Vec3 returns item i as a vector.
func (a *BufferAttribute) Vec3(i int) Vector3 {
	o := i * a.ItemSize
	return NewVector3(float64(a.Array[o]), float64(a.Array[o+1]), float64(a.Array[o+2]))
}

func (a *BufferAttribute) appendVec3(v Vector3) {
	a.Array = append(a.Array, float32(v.X), float32(v.Y), float32(v.Z))
}

// SurfaceGeometry is an indexed triangle list. Normal and Color are nil when
// the mesh has no usable data for them.
type SurfaceGeometry struct {
	Position *BufferAttribute
	Normal   *BufferAttribute
	Color    *BufferAttribute
	Index    []uint32
}

func (g *SurfaceGeometry) TriangleCount() int {
	return len(g.Index) / 3
}

// Attributes lists the present attributes in binding order.
func (g *SurfaceGeometry) Attributes() []*BufferAttribute {
	attrs := []*BufferAttribute{g.Position}
	if g.Normal != nil {
		attrs = append(attrs, g.Normal)
	}
	if g.Color != nil {
		attrs = append(attrs, g.Color)
	}
	return attrs
}

// WireframeGeometry is an unindexed line list: every two positions form one
// segment.
type WireframeGeometry struct {
	Position *BufferAttribute
}

func (g *WireframeGeometry) SegmentCount() int {
	return g.Position.Count() / 2
}

// BuildSurfaceGeometry fan triangulates every face into an index buffer over
// the mesh's own vertex order. Vertices are neither merged nor reordered.
// flipWinding emits each triangle as (c, b, a) instead of (a, b, c), which
// turns the surface around without touching the vertex data.
func BuildSurfaceGeometry(mesh *PolygonMesh, flipWinding bool) *SurfaceGeometry {
	n := mesh.VertexCount()
	g := &SurfaceGeometry{
		Position: newBufferAttribute(AttributePosition, 3, n),
		Index:    make([]uint32, 0, mesh.TriangleCount()*3),
	}

	for _, f := range mesh.Faces {
		for _, t := range f.FanTriangles() {
			if flipWinding {
				t = t.Reverse()
			}
			g.Index = append(g.Index, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		}
	}

	for _, v := range mesh.Verts {
		g.Position.appendVec3(v)
	}

	if mesh.HasNormals() {
		g.Normal = newBufferAttribute(AttributeNormal, 3, n)
		for _, nv := range mesh.Normals {
			g.Normal.appendVec3(nv)
		}
	}

	if mesh.HasColors() {
		g.Color = newBufferAttribute(AttributeColor, 3, n)
		for _, c := range mesh.Colors {
			g.Color.Array = append(g.Color.Array, float32(c.R), float32(c.G), float32(c.B))
		}
	}

	return g
}

// BuildWireframeGeometry emits one segment per polygon edge, including the
// closing edge of each face. It does not go through the triangulation, so
// n-gons keep their outline and no fan diagonals appear.
func BuildWireframeGeometry(mesh *PolygonMesh) *WireframeGeometry {
	g := &WireframeGeometry{
		Position: newBufferAttribute(AttributePosition, 3, mesh.EdgeCount()*2),
	}
	for _, f := range mesh.Faces {
		for _, e := range f.Edges() {
			g.Position.appendVec3(mesh.Verts[e[0]])
			g.Position.appendVec3(mesh.Verts[e[1]])
		}
	}
	return g
}
