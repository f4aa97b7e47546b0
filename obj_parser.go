package ngon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// maxLineSize bounds a single OBJ line. Faces with thousands of indices are
// legal, so the scanner default of 64KiB is too small.
const maxLineSize = 16 * 1024 * 1024

type parseConfig struct {
	strictNumbers bool
	logger        *zap.Logger
}

// ParseOption changes how OBJ text is interpreted.
type ParseOption func(*parseConfig)

// WithStrictNumbers makes a malformed or missing vertex component an
// ErrMalformedVertex. By default such components become NaN.
func WithStrictNumbers() ParseOption {
	return func(c *parseConfig) {
		c.strictNumbers = true
	}
}

// WithParseLogger reports skipped directives at debug level.
func WithParseLogger(logger *zap.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = logger
	}
}

// Parse reads OBJ source text and returns the polygon mesh with its smooth
// normals already computed.
func Parse(text string, opts ...ParseOption) (*PolygonMesh, error) {
	return ParseReader(strings.NewReader(text), opts...)
}

// ParseReader is Parse for a stream. Only "v" and "f" lines are used; blank
// lines, comments and every other directive are skipped.
func ParseReader(reader io.Reader, opts ...ParseOption) (*PolygonMesh, error) {
	cfg := parseConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		verts     []Vector3
		colors    []Color
		faces     []Face
		faceLines []int
		skipped   = make(map[string]int)
	)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		switch tokens[0] {
		case "v":
			v, col, hasColor, err := parseVertex(tokens, cfg.strictNumbers)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Keyword: "v", Err: err}
			}
			verts = append(verts, v)
			if hasColor {
				colors = append(colors, col)
			}

		case "f":
			// relative indices count back from the vertices read so far
			face, err := parseFace(tokens[1:], len(verts))
			if err != nil {
				return nil, &ParseError{Line: lineNo, Keyword: "f", Err: err}
			}
			faces = append(faces, face)
			faceLines = append(faceLines, lineNo)

		default:
			skipped[tokens[0]]++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from OBJ source: %w", err)
	}

	for fi, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(verts) {
				return nil, &ParseError{
					Line:    faceLines[fi],
					Keyword: "f",
					Err:     fmt.Errorf("vertex %d outside [0, %d): %w", idx, len(verts), ErrInvalidFaceIndex),
				}
			}
		}
	}

	for keyword, count := range skipped {
		cfg.logger.Debug("skipped OBJ directive", zap.String("keyword", keyword), zap.Int("lines", count))
	}

	mesh := NewPolygonMesh(verts, faces, colors)
	mesh.ComputeNormals()
	return mesh, nil
}

// LoadObjectFromOBJFile parses the OBJ file at fileName.
func LoadObjectFromOBJFile(fileName string, opts ...ParseOption) (*PolygonMesh, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open OBJ file %s: %w", fileName, err)
	}
	defer file.Close()

	mesh, err := ParseReader(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("error parsing OBJ file %s: %w", fileName, err)
	}
	return mesh, nil
}

// parseVertex handles "v x y z [r g b]". Seven or more tokens carry a color.
func parseVertex(tokens []string, strict bool) (Vector3, Color, bool, error) {
	var c [6]float64
	n := 3
	hasColor := len(tokens) >= 7
	if hasColor {
		n = 6
	}
	for i := 0; i < n; i++ {
		tok := ""
		if i+1 < len(tokens) {
			tok = tokens[i+1]
		}
		val, err := parseFloatToken(tok)
		if err != nil {
			if strict {
				return Vector3{}, Color{}, false, fmt.Errorf("component %d %q: %w", i+1, tok, ErrMalformedVertex)
			}
			val = math.NaN()
		}
		c[i] = val
	}
	return NewVector3(c[0], c[1], c[2]), NewColor(c[3], c[4], c[5]), hasColor, nil
}

// parseFloatToken accepts out of range values as the infinities strconv
// returns for them.
func parseFloatToken(tok string) (float64, error) {
	val, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return val, nil
		}
		return 0, err
	}
	return val, nil
}

// parseFace resolves each "v/vt/vn" token to a 0-based vertex index. Only
// the first sub-field is used.
func parseFace(tokens []string, vertCount int) (Face, error) {
	face := make(Face, 0, len(tokens))
	for _, tok := range tokens {
		field, _, _ := strings.Cut(tok, "/")
		idx, err := resolveIndex(field, vertCount)
		if err != nil {
			return nil, err
		}
		face = append(face, idx)
	}
	return face, nil
}

// resolveIndex maps OBJ's 1-based index to 0-based; negative values count
// back from vertCount, so -1 is the latest vertex.
func resolveIndex(field string, vertCount int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", field, ErrInvalidFaceIndex)
	}
	if n >= 0 {
		return n - 1, nil
	}
	return vertCount + n, nil
}
