package ngon

// Face is an ordered list of vertex indices describing one polygon. The
// winding order decides which side the normal points to.
type Face []int

// Triangle holds three vertex indices in winding order.
type Triangle [3]int

// TriangleCount is the number of fan triangles the face splits into. Faces
// with fewer than three indices are degenerate and yield none.
func (f Face) TriangleCount() int {
	if len(f) < 3 {
		return 0
	}
	return len(f) - 2
}

// FanTriangles splits the face into triangles that all share f[0]:
// (f[0], f[i], f[i+1]) for i = 1..len(f)-2.
func (f Face) FanTriangles() []Triangle {
	tris := make([]Triangle, 0, f.TriangleCount())
	for i := 1; i < len(f)-1; i++ {
		tris = append(tris, Triangle{f[0], f[i], f[i+1]})
	}
	return tris
}

// Edges returns the polygon's own boundary, including the closing edge from
// the last index back to the first. No fan diagonals are produced.
func (f Face) Edges() [][2]int {
	edges := make([][2]int, len(f))
	for i := range f {
		edges[i] = [2]int{f[i], f[(i+1)%len(f)]}
	}
	return edges
}

// Reverse returns the triangle with the opposite winding.
func (t Triangle) Reverse() Triangle {
	return Triangle{t[2], t[1], t[0]}
}

// MidPoint is the average of the face's vertex positions.
func (f Face) MidPoint(verts []Vector3) Vector3 {
	if len(f) == 0 {
		return Vector3{}
	}
	var sum Vector3
	for _, idx := range f {
		sum = sum.Add(verts[idx])
	}
	return sum.Scale(1 / float64(len(f)))
}
