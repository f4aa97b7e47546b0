package view

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/ngonview/render"
)

// maxBatchTriangles keeps each DrawTriangles call within uint16 indices.
const maxBatchTriangles = 65535 / 3

// newWhiteSub returns a 1x1 white source image for solid fills.
func newWhiteSub() *ebiten.Image {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// drawTriangles fills the already sorted triangles in order, batching them
// into as few DrawTriangles calls as uint16 indices allow.
func drawTriangles(screen, src *ebiten.Image, tris []render.ScreenTriangle) {
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}

	vertices := make([]ebiten.Vertex, 0, 3*min(len(tris), maxBatchTriangles))
	indices := make([]uint16, 0, cap(vertices))

	flush := func() {
		if len(vertices) == 0 {
			return
		}
		screen.DrawTriangles(vertices, indices, src, op)
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for _, t := range tris {
		if len(vertices)+3 > 3*maxBatchTriangles {
			flush()
		}
		cr := float32(t.Color.R) / 255.0
		cg := float32(t.Color.G) / 255.0
		cb := float32(t.Color.B) / 255.0
		ca := float32(t.Color.A) / 255.0
		for k := 0; k < 3; k++ {
			indices = append(indices, uint16(len(vertices)))
			vertices = append(vertices, ebiten.Vertex{
				DstX:   t.X[k],
				DstY:   t.Y[k],
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
	}
	flush()
}

// drawSegments strokes every segment on its own in its own color; wireframe
// edges shared by two faces are drawn twice.
func drawSegments(screen *ebiten.Image, segs []render.ScreenSegment, width float32) {
	for _, s := range segs {
		vector.StrokeLine(screen, s.X0, s.Y0, s.X1, s.Y1, width, s.Color, true)
	}
}
