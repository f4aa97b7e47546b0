// Package gltfio writes polygon meshes as glTF 2.0 assets so other tools can
// display the triangulated surface and the n-gon outline.
package gltfio

import (
	"fmt"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	ngon "github.com/smasonuk/ngonview"
)

type Options struct {
	// Name of the glTF mesh; "mesh" when empty.
	Name string
	// FlipWinding reverses every surface triangle.
	FlipWinding bool
	// IncludeWireframe adds a LINES primitive with the polygon edges.
	IncludeWireframe bool
	// BaseColor tints the surface material. Vertex colors multiply with it.
	BaseColor ngon.Color
}

func DefaultOptions() Options {
	return Options{
		Name:      "mesh",
		BaseColor: ngon.NewColor(1, 1, 1),
	}
}

// BuildDocument converts the mesh into a single-node glTF document. The
// surface primitive carries POSITION, NORMAL and COLOR_0 when the mesh has
// them; the optional wireframe primitive only carries POSITION.
func BuildDocument(mesh *ngon.PolygonMesh, opts Options) *gltf.Document {
	if opts.Name == "" {
		opts.Name = "mesh"
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "ngonview"

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{float32(opts.BaseColor.R), float32(opts.BaseColor.G), float32(opts.BaseColor.B), 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	doc.Materials = []*gltf.Material{{
		Name:                 opts.Name + "-material",
		PBRMetallicRoughness: pbr,
		AlphaMode:            gltf.AlphaOpaque,
		DoubleSided:          true,
	}}

	gm := &gltf.Mesh{Name: opts.Name}

	surface := ngon.BuildSurfaceGeometry(mesh, opts.FlipWinding)
	if surface.TriangleCount() > 0 {
		attrs := map[string]uint32{
			gltf.POSITION: uint32(modeler.WritePosition(doc, vec3s(surface.Position))),
		}
		if surface.Normal != nil {
			attrs[gltf.NORMAL] = uint32(modeler.WriteNormal(doc, vec3s(surface.Normal)))
		}
		if surface.Color != nil {
			attrs[gltf.COLOR_0] = uint32(modeler.WriteColor(doc, rgbas(surface.Color)))
		}
		indices := uint32(modeler.WriteIndices(doc, surface.Index))
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(indices),
			Material:   gltf.Index(0),
			Mode:       gltf.PrimitiveTriangles,
		})
	}

	if opts.IncludeWireframe && mesh.EdgeCount() > 0 {
		wire := ngon.BuildWireframeGeometry(mesh)
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION: uint32(modeler.WritePosition(doc, vec3s(wire.Position))),
			},
			Material: gltf.Index(0),
			Mode:     gltf.PrimitiveLines,
		})
	}

	doc.Meshes = []*gltf.Mesh{gm}
	doc.Nodes = []*gltf.Node{{Name: opts.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

// SaveGLB writes a binary glTF file.
func SaveGLB(path string, mesh *ngon.PolygonMesh, opts Options) error {
	if err := gltf.SaveBinary(BuildDocument(mesh, opts), path); err != nil {
		return fmt.Errorf("could not write GLB file %s: %w", path, err)
	}
	return nil
}

// SaveGLTF writes a JSON glTF file with its buffer embedded as a data URI.
func SaveGLTF(path string, mesh *ngon.PolygonMesh, opts Options) error {
	doc := BuildDocument(mesh, opts)
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	if err := gltf.Save(doc, path); err != nil {
		return fmt.Errorf("could not write glTF file %s: %w", path, err)
	}
	return nil
}

// Save picks the binary or JSON form from the file extension.
func Save(path string, mesh *ngon.PolygonMesh, opts Options) error {
	if strings.HasSuffix(strings.ToLower(path), ".gltf") {
		return SaveGLTF(path, mesh, opts)
	}
	return SaveGLB(path, mesh, opts)
}

func vec3s(a *ngon.BufferAttribute) [][3]float32 {
	out := make([][3]float32, a.Count())
	for i := range out {
		o := i * a.ItemSize
		out[i] = [3]float32{a.Array[o], a.Array[o+1], a.Array[o+2]}
	}
	return out
}

func rgbas(a *ngon.BufferAttribute) [][4]float32 {
	out := make([][4]float32, a.Count())
	for i := range out {
		o := i * a.ItemSize
		out[i] = [4]float32{a.Array[o], a.Array[o+1], a.Array[o+2], 1}
	}
	return out
}
