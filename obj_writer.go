package ngon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteOBJ writes the mesh as OBJ text. Faces keep their arity and are
// written with 1-based indices. Vertex colors are written only when every
// vertex has one; normals are not written since the parser recomputes them.
func WriteOBJ(w io.Writer, mesh *PolygonMesh) error {
	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "# %d vertices, %d faces\n", mesh.VertexCount(), mesh.FaceCount())

	withColors := mesh.HasColors()
	for i, v := range mesh.Verts {
		writer.WriteString("v ")
		writer.WriteString(formatFloats(v.X, v.Y, v.Z))
		if withColors {
			c := mesh.Colors[i]
			writer.WriteByte(' ')
			writer.WriteString(formatFloats(c.R, c.G, c.B))
		}
		writer.WriteByte('\n')
	}

	var sb strings.Builder
	for _, f := range mesh.Faces {
		sb.Reset()
		sb.WriteString("f")
		for _, idx := range f {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(idx + 1))
		}
		sb.WriteByte('\n')
		writer.WriteString(sb.String())
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("error writing OBJ data: %w", err)
	}
	return nil
}

// SaveOBJ writes the mesh to fileName, replacing any existing file.
func SaveOBJ(fileName string, mesh *PolygonMesh) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create OBJ file %s: %w", fileName, err)
	}
	if err := WriteOBJ(file, mesh); err != nil {
		file.Close()
		return fmt.Errorf("could not write OBJ file %s: %w", fileName, err)
	}
	return file.Close()
}

func formatFloats(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
