package render

import (
	ngon "github.com/smasonuk/ngonview"
)

// gridDivisions is the number of cells along each side of the grid.
const gridDivisions = 100

var (
	axisColors = [3]ngon.Color{
		ngon.NewColor(1, 0, 0),
		ngon.NewColor(0, 1, 0),
		ngon.NewColor(0, 0, 1),
	}
	gridCenterColor = ngon.NewColor(0x44/255.0, 0x44/255.0, 0x44/255.0)
	gridColor       = ngon.NewColor(0x88/255.0, 0x88/255.0, 0x88/255.0)
)

// Line3 is a colored world space line.
type Line3 struct {
	A, B  ngon.Vector3
	Color ngon.Color
}

// AxisLines returns the X, Y and Z axes, red, green and blue, each as long as
// the mesh extent and starting at the low corner of a cube of that size
// around the mesh centre. An empty or flat mesh has no axes.
func AxisLines(mesh *ngon.PolygonMesh) []Line3 {
	extent := mesh.Extent()
	if !(extent > 0) {
		return nil
	}
	half := extent / 2
	c := mesh.Center()
	origin := ngon.NewVector3(c.X-half, c.Y-half, c.Z-half)

	dirs := [3]ngon.Vector3{
		ngon.NewVector3(extent, 0, 0),
		ngon.NewVector3(0, extent, 0),
		ngon.NewVector3(0, 0, extent),
	}
	lines := make([]Line3, 3)
	for i, d := range dirs {
		lines[i] = Line3{A: origin, B: origin.Add(d), Color: axisColors[i]}
	}
	return lines
}

// GridLines returns a square grid on the XZ plane through the origin. Its
// side is a hundred mesh grid units, split into a hundred cells; the two
// centre lines are darker.
func GridLines(mesh *ngon.PolygonMesh) []Line3 {
	size := mesh.GridUnit() * gridDivisions
	half := size / 2
	step := size / gridDivisions

	lines := make([]Line3, 0, 2*(gridDivisions+1))
	for i := 0; i <= gridDivisions; i++ {
		k := -half + float64(i)*step
		clr := gridColor
		if i == gridDivisions/2 {
			clr = gridCenterColor
		}
		lines = append(lines,
			Line3{A: ngon.NewVector3(-half, 0, k), B: ngon.NewVector3(half, 0, k), Color: clr},
			Line3{A: ngon.NewVector3(k, 0, -half), B: ngon.NewVector3(k, 0, half), Color: clr},
		)
	}
	return lines
}

// ProjectLines projects lines like Segments, keeping each line's color.
func ProjectLines(lines []Line3, p *Projector) []ScreenSegment {
	near := p.NearPlane()
	out := make([]ScreenSegment, 0, len(lines))
	for _, l := range lines {
		if seg, ok := projectSegment(l.A, l.B, near, p, l.Color.RGBA()); ok {
			out = append(out, seg)
		}
	}
	return out
}
