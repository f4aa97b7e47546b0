package render

import (
	ngon "github.com/smasonuk/ngonview"
)

// Plane is the set of points v with Normal.Dot(v) + D == 0. Normal is unit
// length, so Distance is a signed distance.
type Plane struct {
	Normal ngon.Vector3
	D      float64
}

// NewPlane builds the plane through point facing normal.
func NewPlane(normal, point ngon.Vector3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// Distance is positive in front of the plane and negative behind it.
func (p Plane) Distance(v ngon.Vector3) float64 {
	return p.Normal.Dot(v) + p.D
}

// side snaps distances within eps of the plane to zero.
func (p Plane) side(v ngon.Vector3, eps float64) float64 {
	d := p.Distance(v)
	if d > -eps && d < eps {
		return 0
	}
	return d
}

// corner is one polygon vertex together with what shading needs from it.
type corner struct {
	pos    ngon.Vector3
	normal ngon.Vector3
	color  ngon.Color
}

func lerpCorner(a, b corner, t float64) corner {
	return corner{
		pos:    a.pos.Add(b.pos.Sub(a.pos).Scale(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Scale(t)),
		color: ngon.NewColor(
			a.color.R+(b.color.R-a.color.R)*t,
			a.color.G+(b.color.G-a.color.G)*t,
			a.color.B+(b.color.B-a.color.B)*t,
		),
	}
}

// classify reports which sides of the plane the polygon reaches.
func (p Plane) classify(poly []corner, eps float64) (front, back bool) {
	for _, c := range poly {
		switch d := p.side(c.pos, eps); {
		case d > 0:
			front = true
		case d < 0:
			back = true
		}
	}
	return front, back
}

// split cuts a convex polygon in two. Points on the plane go to both halves;
// a half with fewer than three corners is returned as nil.
func (p Plane) split(poly []corner, eps float64) (front, back []corner) {
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		da, db := p.side(a.pos, eps), p.side(b.pos, eps)

		if da >= 0 {
			front = append(front, a)
		}
		if da <= 0 {
			back = append(back, a)
		}
		if (da > 0 && db < 0) || (da < 0 && db > 0) {
			m := lerpCorner(a, b, da/(da-db))
			front = append(front, m)
			back = append(back, m)
		}
	}
	if len(front) < 3 {
		front = nil
	}
	if len(back) < 3 {
		back = nil
	}
	return front, back
}

// clip keeps the part of poly in front of the plane.
func (p Plane) clip(poly []corner) []corner {
	front, back := p.classify(poly, 0)
	if !back {
		return poly
	}
	if !front {
		return nil
	}
	kept, _ := p.split(poly, 0)
	return kept
}
