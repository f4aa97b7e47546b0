// Package config holds the viewer settings and reads them from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	ngon "github.com/smasonuk/ngonview"
)

// Settings mirrors the options of the viewer panel. Colors are "#rrggbb".
type Settings struct {
	BackgroundColor     string  `toml:"background_color"`
	MeshColor           string  `toml:"mesh_color"`
	ShowMesh            bool    `toml:"show_mesh"`
	ShowWireframe       bool    `toml:"show_wireframe"`
	ShowAxis            bool    `toml:"show_axis"`
	ShowGrid            bool    `toml:"show_grid"`
	WireframeColor      string  `toml:"wireframe_color"`
	WireframeWidth      float64 `toml:"wireframe_width"`
	LightIntensity      float64 `toml:"light_intensity"`
	CameraFovy          float64 `toml:"camera_fovy"`
	CameraNear          float64 `toml:"camera_near"`
	CameraFar           float64 `toml:"camera_far"`
	FlipWinding         bool    `toml:"flip_winding"`
	HideControlsOnStart bool    `toml:"hide_controls_on_start"`
	HotReload           bool    `toml:"hot_reload"`
	StrictNumbers       bool    `toml:"strict_numbers"`
	CentreObject        bool    `toml:"centre_object"`
	WindowWidth         int     `toml:"window_width"`
	WindowHeight        int     `toml:"window_height"`
	// BSPMaxFaces is the largest face count drawn in exact BSP order; bigger
	// meshes fall back to sorting triangles by depth. 0 always sorts.
	BSPMaxFaces int `toml:"bsp_max_faces"`
}

// Default returns the settings used when no file is given. A negative
// CameraNear means it is derived from the mesh extent.
func Default() Settings {
	return Settings{
		BackgroundColor: "#0b1447",
		MeshColor:       "#ffffff",
		ShowMesh:        true,
		ShowWireframe:   false,
		WireframeColor:  "#0000ff",
		WireframeWidth:  1,
		LightIntensity:  1,
		CameraFovy:      45,
		CameraNear:      -1,
		CameraFar:       1000,
		HotReload:       true,
		WindowWidth:     960,
		WindowHeight:    720,
		BSPMaxFaces:     2000,
	}
}

// Load overlays the TOML file at path on the defaults. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := Decode(data, &s); err != nil {
		return s, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return s, nil
}

// Decode unmarshals TOML into s, keeping fields the data leaves out, and
// validates the result.
func Decode(data []byte, s *Settings) error {
	if err := toml.Unmarshal(data, s); err != nil {
		return err
	}
	return s.Validate()
}

// Encode renders s as TOML, handy for writing a starter file.
func (s Settings) Encode() ([]byte, error) {
	return toml.Marshal(s)
}

func (s Settings) Validate() error {
	for name, c := range map[string]string{
		"background_color": s.BackgroundColor,
		"mesh_color":       s.MeshColor,
		"wireframe_color":  s.WireframeColor,
	} {
		if _, err := ngon.ParseHexColor(c); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	switch {
	case s.CameraFovy <= 0 || s.CameraFovy >= 180:
		return fmt.Errorf("camera_fovy %v outside (0, 180)", s.CameraFovy)
	case s.WireframeWidth <= 0:
		return fmt.Errorf("wireframe_width %v must be positive", s.WireframeWidth)
	case s.LightIntensity < 0:
		return fmt.Errorf("light_intensity %v must not be negative", s.LightIntensity)
	case s.CameraNear > 0 && s.CameraFar <= s.CameraNear:
		return fmt.Errorf("camera_far %v must exceed camera_near %v", s.CameraFar, s.CameraNear)
	case s.WindowWidth <= 0 || s.WindowHeight <= 0:
		return fmt.Errorf("window size %dx%d must be positive", s.WindowWidth, s.WindowHeight)
	case s.BSPMaxFaces < 0:
		return fmt.Errorf("bsp_max_faces %d must not be negative", s.BSPMaxFaces)
	}
	return nil
}

// Colors resolves the three color strings. Call after Validate.
func (s Settings) Colors() (background, mesh, wireframe ngon.Color) {
	background, _ = ngon.ParseHexColor(s.BackgroundColor)
	mesh, _ = ngon.ParseHexColor(s.MeshColor)
	wireframe, _ = ngon.ParseHexColor(s.WireframeColor)
	return background, mesh, wireframe
}
