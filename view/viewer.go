// Package view shows a polygon mesh in an ebiten window: a shaded surface,
// its n-gon wireframe, optional axis and grid helpers and a key help overlay.
package view

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	ngon "github.com/smasonuk/ngonview"
	"github.com/smasonuk/ngonview/config"
	"github.com/smasonuk/ngonview/render"
)

const (
	orbitSpeed = 0.01
	zoomStep   = 1.1
)

const helpText = `drag: orbit  wheel: zoom
M: mesh  W: wireframe  F: flip winding
A: axis  G: grid  C: reframe  H: help`

// Viewer implements ebiten.Game.
type Viewer struct {
	settings config.Settings
	camera   *render.Camera
	shading  render.Shading
	logger   *zap.Logger
	title    string

	mu        sync.Mutex
	mesh      *ngon.PolygonMesh
	surface   *ngon.SurfaceGeometry
	wireframe *ngon.WireframeGeometry
	bsp       *render.BSPTree
	axisLines []render.Line3
	gridLines []render.Line3
	framed    bool

	showMesh      bool
	showWireframe bool
	flipWinding   bool
	showAxis      bool
	showGrid      bool
	showHelp      bool

	dragging     bool
	lastX, lastY int
	width        int
	height       int
	whiteSub     *ebiten.Image
}

func NewViewer(settings config.Settings, title string, logger *zap.Logger) *Viewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	_, meshColor, _ := settings.Colors()
	shading := render.DefaultShading()
	shading.Base = meshColor
	shading.Intensity = settings.LightIntensity

	return &Viewer{
		settings:      settings,
		camera:        render.NewCamera(settings.CameraFovy),
		shading:       shading,
		logger:        logger,
		title:         title,
		showMesh:      settings.ShowMesh,
		showWireframe: settings.ShowWireframe,
		flipWinding:   settings.FlipWinding,
		showAxis:      settings.ShowAxis,
		showGrid:      settings.ShowGrid,
		showHelp:      !settings.HideControlsOnStart,
		width:         settings.WindowWidth,
		height:        settings.WindowHeight,
		whiteSub:      newWhiteSub(),
	}
}

// SetMesh replaces the displayed mesh. It may be called from any goroutine.
// The camera is framed on the first mesh only, so reloads keep the view.
func (v *Viewer) SetMesh(mesh *ngon.PolygonMesh) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mesh = mesh
	v.rebuildLocked()
	if !v.framed {
		v.camera.Frame(mesh, v.settings.CameraNear, v.settings.CameraFar)
		v.framed = true
	}
}

func (v *Viewer) rebuildLocked() {
	if v.mesh == nil {
		return
	}
	v.surface = ngon.BuildSurfaceGeometry(v.mesh, v.flipWinding)
	v.wireframe = ngon.BuildWireframeGeometry(v.mesh)
	v.axisLines = render.AxisLines(v.mesh)
	v.gridLines = render.GridLines(v.mesh)

	v.bsp = nil
	if n := v.mesh.FaceCount(); n > 0 && n <= v.settings.BSPMaxFaces {
		v.bsp = render.BuildBSP(v.mesh, v.flipWinding)
		v.logger.Debug("bsp built",
			zap.Int("nodes", v.bsp.Nodes()),
			zap.Int("polygons", v.bsp.Polygons()),
			zap.Int("splits", v.bsp.Splits()))
	}
}

// trianglesLocked returns the surface in drawing order, exact when the mesh
// was small enough for a BSP tree.
func (v *Viewer) trianglesLocked(proj *render.Projector) []render.ScreenTriangle {
	if v.bsp != nil {
		return v.bsp.Triangles(proj, v.shading)
	}
	return render.Triangles(v.surface, proj, v.shading)
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	ebiten.SetWindowSize(v.settings.WindowWidth, v.settings.WindowHeight)
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("viewer stopped: %w", err)
	}
	return nil
}

func (v *Viewer) Update() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if v.dragging {
			v.camera.Orbit(-float64(x-v.lastX)*orbitSpeed, float64(y-v.lastY)*orbitSpeed)
		}
		v.dragging = true
	} else {
		v.dragging = false
	}
	v.lastX, v.lastY = x, y

	if _, dy := ebiten.Wheel(); dy > 0 {
		v.camera.Zoom(1 / zoomStep)
	} else if dy < 0 {
		v.camera.Zoom(zoomStep)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		v.showMesh = !v.showMesh
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		v.showWireframe = !v.showWireframe
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.flipWinding = !v.flipWinding
		v.rebuildLocked()
		v.logger.Debug("winding flipped", zap.Bool("flip", v.flipWinding))
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		v.showAxis = !v.showAxis
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		v.showGrid = !v.showGrid
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if v.mesh != nil {
			v.camera.Frame(v.mesh, v.settings.CameraNear, v.settings.CameraFar)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		v.showHelp = !v.showHelp
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	defer v.mu.Unlock()

	bg, _, wireColor := v.settings.Colors()
	screen.Fill(bg.RGBA())

	if v.mesh != nil {
		proj := v.camera.Projector(v.width, v.height)
		if v.showGrid {
			drawSegments(screen, render.ProjectLines(v.gridLines, proj), 1)
		}
		if v.showMesh {
			drawTriangles(screen, v.whiteSub, v.trianglesLocked(proj))
		}
		if v.showWireframe {
			drawSegments(screen, render.Segments(v.wireframe, proj, wireColor.RGBA()), float32(v.settings.WireframeWidth))
		}
		if v.showAxis {
			drawSegments(screen, render.ProjectLines(v.axisLines, proj), 2)
		}
	}

	if v.showHelp {
		status := "no mesh"
		if v.mesh != nil {
			status = fmt.Sprintf("%d verts  %d faces  %d tris  FPS %.0f",
				v.mesh.VertexCount(), v.mesh.FaceCount(), v.surface.TriangleCount(), ebiten.ActualFPS())
		}
		ebitenutil.DebugPrint(screen, status+"\n"+helpText)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.mu.Lock()
	v.width, v.height = outsideWidth, outsideHeight
	v.mu.Unlock()
	return outsideWidth, outsideHeight
}
