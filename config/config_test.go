package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ngon "github.com/smasonuk/ngonview"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.True(t, s.ShowMesh)
	assert.False(t, s.ShowWireframe)
	assert.False(t, s.ShowAxis)
	assert.False(t, s.ShowGrid)
	assert.Equal(t, 45.0, s.CameraFovy)
	assert.Equal(t, 2000, s.BSPMaxFaces)

	bg, mesh, wire := s.Colors()
	assert.Equal(t, "#0b1447", bg.Hex())
	assert.Equal(t, ngon.NewColor(1, 1, 1), mesh)
	assert.Equal(t, ngon.NewColor(0, 0, 1), wire)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ngonview.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
show_wireframe = true
wireframe_color = "#ff8800"
camera_fovy = 60.0
flip_winding = true
show_axis = true
show_grid = true
bsp_max_faces = 0
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.True(t, s.ShowWireframe)
	assert.Equal(t, "#ff8800", s.WireframeColor)
	assert.Equal(t, 60.0, s.CameraFovy)
	assert.True(t, s.FlipWinding)
	assert.True(t, s.ShowAxis)
	assert.True(t, s.ShowGrid)
	assert.Zero(t, s.BSPMaxFaces)

	// untouched keys keep their defaults
	assert.Equal(t, "#0b1447", s.BackgroundColor)
	assert.True(t, s.ShowMesh)
	assert.Equal(t, 960, s.WindowWidth)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	s, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "syntax", data: "show_mesh = = true"},
		{name: "wrong type", data: `camera_fovy = "wide"`},
		{name: "bad color", data: `mesh_color = "white"`},
		{name: "fovy too large", data: "camera_fovy = 180.0"},
		{name: "zero width", data: "wireframe_width = 0.0"},
		{name: "negative light", data: "light_intensity = -0.5"},
		{name: "far before near", data: "camera_near = 10.0\ncamera_far = 5.0"},
		{name: "window", data: "window_width = 0"},
		{name: "negative bsp cap", data: "bsp_max_faces = -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.data), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := Default()
	s.ShowWireframe = true
	s.CameraNear = 0.5
	s.MeshColor = "#336699"
	s.ShowGrid = true

	data, err := s.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "mesh_color")

	var got Settings
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, s, got)
}
