// Package render turns mesh geometry into screen space primitives: shaded
// triangles in drawing order, either depth sorted or walked from a BSP tree,
// plus projected line segments for wireframes and helpers.
// It has no windowing dependency; the view package draws its output.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	ngon "github.com/smasonuk/ngonview"
)

const maxPitch = 89 * math.Pi / 180

// nearClipMargin moves the clip plane a hair past the near distance so that
// clipped points never fail the projection test through rounding.
const nearClipMargin = 1.0001

// Camera orbits a target point. Yaw turns around the world Y axis and pitch
// tilts towards it; both are in radians.
type Camera struct {
	Target   ngon.Vector3
	Distance float64
	Yaw      float64
	Pitch    float64
	Fovy     float64 // degrees
	Near     float64
	Far      float64
}

func NewCamera(fovy float64) *Camera {
	return &Camera{
		Distance: 10,
		Yaw:      math.Pi / 4,
		Pitch:    math.Asin(1 / math.Sqrt(3)),
		Fovy:     fovy,
		Near:     0.1,
		Far:      1000,
	}
}

// Frame aims at the mesh centre from (extent, extent, extent) away. A
// non-positive near derives the clip plane from the extent; far is raised
// when the mesh would not fit.
func (c *Camera) Frame(mesh *ngon.PolygonMesh, near, far float64) {
	extent := mesh.Extent()
	if !(extent > 0) {
		extent = 1
	}
	c.Target = mesh.Center()
	c.Distance = extent * math.Sqrt(3)
	c.Yaw = math.Pi / 4
	c.Pitch = math.Asin(1 / math.Sqrt(3))

	if near <= 0 {
		near = extent * 1e-3
	}
	c.Near = near
	c.Far = math.Max(far, c.Distance+4*extent)
}

// Eye is the camera position in world space.
func (c *Camera) Eye() ngon.Vector3 {
	cp := math.Cos(c.Pitch)
	dir := ngon.NewVector3(cp*math.Sin(c.Yaw), math.Sin(c.Pitch), cp*math.Cos(c.Yaw))
	return c.Target.Add(dir.Scale(c.Distance))
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the distance to the target; factor < 1 moves closer.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = math.Max(c.Distance*factor, c.Near*2)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye().Vec(), c.Target.Vec(), mgl64.Vec3{0, 1, 0})
}

func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.Fovy), aspect, c.Near, c.Far)
}

// Projector maps world positions into a viewport of the given pixel size.
type Projector struct {
	mvp     mgl64.Mat4
	eye     ngon.Vector3
	forward ngon.Vector3
	near    float64
	width   float64
	height  float64
}

func (c *Camera) Projector(width, height int) *Projector {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	eye := c.Eye()
	return &Projector{
		mvp:     c.Projection(aspect).Mul4(c.View()),
		eye:     eye,
		forward: c.Target.Sub(eye).Normalize(),
		near:    c.Near,
		width:   float64(width),
		height:  float64(height),
	}
}

// Project returns pixel coordinates with y pointing down and the view space
// depth. ok is false for points closer than the near plane.
func (p *Projector) Project(v ngon.Vector3) (x, y float32, depth float64, ok bool) {
	clip := p.mvp.Mul4x1(v.Vec().Vec4(1))
	w := clip.W()
	if w < p.near {
		return 0, 0, w, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	x = float32((ndcX + 1) / 2 * p.width)
	y = float32((1 - ndcY) / 2 * p.height)
	return x, y, w, true
}

func (p *Projector) Eye() ngon.Vector3 {
	return p.eye
}

// NearPlane faces away from the eye and sits just beyond the near clip
// distance, so everything on its front side projects.
func (p *Projector) NearPlane() Plane {
	return NewPlane(p.forward, p.eye.Add(p.forward.Scale(p.near*nearClipMargin)))
}
