package render

import (
	"image/color"
	"sort"

	ngon "github.com/smasonuk/ngonview"
)

// ScreenTriangle is a projected, shaded triangle.
type ScreenTriangle struct {
	X, Y  [3]float32
	Depth float64
	Color color.RGBA
}

// ScreenSegment is a projected line.
type ScreenSegment struct {
	X0, Y0, X1, Y1 float32
	Color          color.RGBA
}

// Triangles projects and shades the surface and sorts the result so that
// triangles farther from the eye come first, ready for painter's drawing.
// Triangles crossing the near plane are clipped to it.
//
// Sorting by centroid can misorder long or intersecting triangles; BSPTree
// gives an exact order for meshes small enough to partition.
func Triangles(g *ngon.SurfaceGeometry, p *Projector, s Shading) []ScreenTriangle {
	near := p.NearPlane()
	smooth := g.Normal != nil
	out := make([]ScreenTriangle, 0, g.TriangleCount())

	for t := 0; t+2 < len(g.Index); t += 3 {
		tri := []corner{
			surfaceCorner(g, int(g.Index[t])),
			surfaceCorner(g, int(g.Index[t+1])),
			surfaceCorner(g, int(g.Index[t+2])),
		}
		n := faceNormal(tri[0].pos, tri[1].pos, tri[2].pos)
		out = appendPolygon(out, tri, n, smooth, near, p, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth > out[j].Depth
	})
	return out
}

// Segments projects every wireframe edge, clipped to the near plane.
func Segments(g *ngon.WireframeGeometry, p *Projector, clr color.RGBA) []ScreenSegment {
	near := p.NearPlane()
	out := make([]ScreenSegment, 0, g.SegmentCount())
	for i := 0; i < g.SegmentCount(); i++ {
		if seg, ok := projectSegment(g.Position.Vec3(2*i), g.Position.Vec3(2*i+1), near, p, clr); ok {
			out = append(out, seg)
		}
	}
	return out
}

func projectSegment(a, b ngon.Vector3, near Plane, p *Projector, clr color.RGBA) (ScreenSegment, bool) {
	da, db := near.Distance(a), near.Distance(b)
	switch {
	case da < 0 && db < 0:
		return ScreenSegment{}, false
	case da < 0:
		a = a.Add(b.Sub(a).Scale(da / (da - db)))
	case db < 0:
		b = b.Add(a.Sub(b).Scale(db / (db - da)))
	}
	x0, y0, _, ok0 := p.Project(a)
	x1, y1, _, ok1 := p.Project(b)
	if !ok0 || !ok1 {
		return ScreenSegment{}, false
	}
	return ScreenSegment{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: clr}, true
}

// appendPolygon clips a convex polygon to the near plane, fans it into
// triangles and appends them shaded. normal is the polygon's winding normal.
func appendPolygon(out []ScreenTriangle, poly []corner, normal ngon.Vector3, smooth bool, near Plane, p *Projector, s Shading) []ScreenTriangle {
	poly = near.clip(poly)
	for i := 1; i+1 < len(poly); i++ {
		tri := [3]corner{poly[0], poly[i], poly[i+1]}
		var (
			st      ScreenTriangle
			visible = true
		)
		for k, c := range tri {
			x, y, _, ok := p.Project(c.pos)
			if !ok {
				visible = false
				break
			}
			st.X[k], st.Y[k] = x, y
		}
		if !visible {
			continue
		}
		centroid := tri[0].pos.Add(tri[1].pos).Add(tri[2].pos).Scale(1.0 / 3)
		st.Depth = centroid.DistanceTo(p.Eye())
		st.Color = shadeTriangle(tri, centroid, normal, smooth, p.Eye(), s)
		out = append(out, st)
	}
	return out
}

// shadeTriangle lights a triangle from the eye. The smooth vertex normals
// are used when present, falling back to the winding normal. Seen from
// behind its winding, the triangle is shaded with the normal reversed.
func shadeTriangle(tri [3]corner, centroid, normal ngon.Vector3, smooth bool, eye ngon.Vector3, s Shading) color.RGBA {
	toEye := eye.Sub(centroid)

	n := normal.Normalize()
	if smooth {
		if sum := tri[0].normal.Add(tri[1].normal).Add(tri[2].normal); !sum.IsZero() {
			n = sum.Normalize()
		}
	}
	if normal.Dot(toEye) < 0 {
		n = n.Scale(-1)
	}

	base := ngon.NewColor(
		(tri[0].color.R+tri[1].color.R+tri[2].color.R)/3*s.Base.R,
		(tri[0].color.G+tri[1].color.G+tri[2].color.G)/3*s.Base.G,
		(tri[0].color.B+tri[1].color.B+tri[2].color.B)/3*s.Base.B,
	)
	return s.Color(base, n, toEye.Normalize()).RGBA()
}

// faceNormal is the area weighted normal of (a, b, c); counter-clockwise
// winding faces the viewer, as in ngon.PolygonMesh.ComputeNormals.
func faceNormal(a, b, c ngon.Vector3) ngon.Vector3 {
	return c.Sub(b).Cross(a.Sub(b))
}

var white = ngon.NewColor(1, 1, 1)

func surfaceCorner(g *ngon.SurfaceGeometry, i int) corner {
	c := corner{pos: g.Position.Vec3(i), color: white}
	if g.Normal != nil {
		c.normal = g.Normal.Vec3(i)
	}
	if g.Color != nil {
		v := g.Color.Vec3(i)
		c.color = ngon.NewColor(v.X, v.Y, v.Z)
	}
	return c
}
