package render

import (
	"math"

	ngon "github.com/smasonuk/ngonview"
)

// Shading lights triangles with an ambient term plus a headlight diffuse
// term. The back of a face is shaded with its normal reversed, so a face
// whose winding disagrees with its vertex normals only gets the ambient term.
type Shading struct {
	Ambient   float64
	Intensity float64
	Base      ngon.Color
}

func DefaultShading() Shading {
	return Shading{
		Ambient:   0.35,
		Intensity: 1,
		Base:      ngon.NewColor(1, 1, 1),
	}
}

// Brightness for a surface normal seen along viewDir, both unit length.
// viewDir points from the surface to the eye.
func (s Shading) Brightness(normal, viewDir ngon.Vector3) float64 {
	diffuse := math.Max(normal.Dot(viewDir), 0)
	b := (s.Ambient + (1-s.Ambient)*diffuse) * s.Intensity
	return math.Min(math.Max(b, 0), 1)
}

// Color shades base, the vertex color or the material color.
func (s Shading) Color(base ngon.Color, normal, viewDir ngon.Vector3) ngon.Color {
	return base.Scale(s.Brightness(normal, viewDir))
}
