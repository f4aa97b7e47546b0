package ngon

// ComputeNormals fills Normals with one smooth normal per vertex.
//
// Every face is fan triangulated from its first index. For a triangle
// (A, B, C) the unnormalised cross product (C-B) x (A-B) is added to the
// accumulators of A, B and C. The magnitude of that product is twice the
// triangle's area, so larger triangles weigh more; it must not be normalised
// before accumulating. Accumulators are normalised in a final pass. A vertex
// that no face touches keeps the zero vector.
//
// Indices must be valid (see Validate); an out of range index panics.
func (m *PolygonMesh) ComputeNormals() {
	acc := make([]Vector3, len(m.Verts))

	for _, f := range m.Faces {
		for _, t := range f.FanTriangles() {
			n := triangleNormal(m.Verts[t[0]], m.Verts[t[1]], m.Verts[t[2]])
			acc[t[0]] = acc[t[0]].Add(n)
			acc[t[1]] = acc[t[1]].Add(n)
			acc[t[2]] = acc[t[2]].Add(n)
		}
	}

	for i := range acc {
		acc[i] = acc[i].Normalize()
	}
	m.Normals = acc
}

// triangleNormal is the area weighted normal of (a, b, c). Counter-clockwise
// winding seen from the front gives a normal pointing at the viewer.
func triangleNormal(a, b, c Vector3) Vector3 {
	cb := c.Sub(b)
	ab := a.Sub(b)
	return cb.Cross(ab)
}
