package render

import (
	ngon "github.com/smasonuk/ngonview"
)

// maxPlaneCandidates limits how many faces are tried as the splitting plane
// of each node.
const maxPlaneCandidates = 8

// BSPTree partitions a mesh's polygons by their planes once, so that any eye
// position can walk them in exact back to front order. Polygons crossing a
// splitting plane are cut in two; the mesh itself is left untouched.
type BSPTree struct {
	root   *bspNode
	smooth bool
	eps    float64

	nodes    int
	polygons int
	splits   int
}

type bspPolygon struct {
	corners []corner
	// plane of the source face, shared by every fragment cut from it
	plane Plane
}

type bspNode struct {
	plane Plane
	// polygons lying in plane
	polys       []bspPolygon
	front, back *bspNode
}

// BuildBSP builds the tree from the mesh faces. Faces with fewer than three
// indices or no area are left out. flipWinding reverses every face, like
// ngon.BuildSurfaceGeometry.
func BuildBSP(mesh *ngon.PolygonMesh, flipWinding bool) *BSPTree {
	smooth := mesh.HasNormals()
	colored := mesh.HasColors()

	polys := make([]bspPolygon, 0, mesh.FaceCount())
	for _, f := range mesh.Faces {
		if len(f) < 3 {
			continue
		}
		if flipWinding {
			f = reversed(f)
		}
		normal := polygonNormal(f, mesh.Verts)
		if normal.IsZero() || normal.HasNaN() {
			continue
		}

		corners := make([]corner, len(f))
		for i, idx := range f {
			c := corner{pos: mesh.Verts[idx], color: white}
			if smooth {
				c.normal = mesh.Normals[idx]
			}
			if colored {
				c.color = mesh.Colors[idx]
			}
			corners[i] = c
		}
		polys = append(polys, bspPolygon{
			corners: corners,
			plane:   NewPlane(normal, f.MidPoint(mesh.Verts)),
		})
	}

	eps := mesh.Extent() * 1e-9
	if !(eps > 0) {
		eps = 1e-12
	}
	t := &BSPTree{smooth: smooth, eps: eps}
	t.root = t.build(polys)
	return t
}

// Nodes is the number of splitting planes.
func (t *BSPTree) Nodes() int { return t.nodes }

// Polygons is the number of polygons in the tree, split fragments included.
func (t *BSPTree) Polygons() int { return t.polygons }

// Splits is how many polygons had to be cut.
func (t *BSPTree) Splits() int { return t.splits }

func (t *BSPTree) build(polys []bspPolygon) *bspNode {
	if len(polys) == 0 {
		return nil
	}

	pick := t.choosePlane(polys)
	node := &bspNode{plane: polys[pick].plane}
	t.nodes++

	var front, back []bspPolygon
	for i, poly := range polys {
		if i == pick {
			node.polys = append(node.polys, poly)
			continue
		}
		inFront, behind := node.plane.classify(poly.corners, t.eps)
		switch {
		case !inFront && !behind:
			node.polys = append(node.polys, poly)
		case !behind:
			front = append(front, poly)
		case !inFront:
			back = append(back, poly)
		default:
			t.splits++
			f, b := node.plane.split(poly.corners, t.eps)
			if f != nil {
				front = append(front, bspPolygon{corners: f, plane: poly.plane})
			}
			if b != nil {
				back = append(back, bspPolygon{corners: b, plane: poly.plane})
			}
		}
	}
	t.polygons += len(node.polys)

	node.front = t.build(front)
	node.back = t.build(back)
	return node
}

// choosePlane returns the candidate whose plane cuts the fewest other
// polygons. Candidates are spread evenly over polys.
func (t *BSPTree) choosePlane(polys []bspPolygon) int {
	step := len(polys) / maxPlaneCandidates
	if step < 1 {
		step = 1
	}

	best, bestSplits := 0, len(polys)
	for c := 0; c < len(polys); c += step {
		splits := 0
		for i, poly := range polys {
			if i == c {
				continue
			}
			if f, b := polys[c].plane.classify(poly.corners, t.eps); f && b {
				splits++
			}
		}
		if splits < bestSplits {
			best, bestSplits = c, splits
			if splits == 0 {
				break
			}
		}
	}
	return best
}

// Triangles walks the tree from the projector's eye and returns the shaded
// triangles farthest first. Polygons are clipped to the near plane.
func (t *BSPTree) Triangles(p *Projector, s Shading) []ScreenTriangle {
	near := p.NearPlane()
	eye := p.Eye()
	out := make([]ScreenTriangle, 0, t.polygons)

	t.walk(t.root, eye, func(poly bspPolygon) {
		out = appendPolygon(out, poly.corners, poly.plane.Normal, t.smooth, near, p, s)
	})
	return out
}

// walk visits the far side of each node, then the node, then the near side.
func (t *BSPTree) walk(n *bspNode, eye ngon.Vector3, visit func(bspPolygon)) {
	if n == nil {
		return
	}
	far, nearSide := n.back, n.front
	if n.plane.Distance(eye) < 0 {
		far, nearSide = n.front, n.back
	}
	t.walk(far, eye, visit)
	for _, poly := range n.polys {
		visit(poly)
	}
	t.walk(nearSide, eye, visit)
}

// polygonNormal sums the fan triangle normals of f.
func polygonNormal(f ngon.Face, verts []ngon.Vector3) ngon.Vector3 {
	var n ngon.Vector3
	for _, tri := range f.FanTriangles() {
		n = n.Add(faceNormal(verts[tri[0]], verts[tri[1]], verts[tri[2]]))
	}
	return n
}

func reversed(f ngon.Face) ngon.Face {
	r := make(ngon.Face, len(f))
	for i, idx := range f {
		r[len(f)-1-i] = idx
	}
	return r
}
