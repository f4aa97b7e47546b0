package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	ngon "github.com/smasonuk/ngonview"
	"github.com/smasonuk/ngonview/config"
	"github.com/smasonuk/ngonview/gltfio"
	"github.com/smasonuk/ngonview/view"
	"github.com/smasonuk/ngonview/watch"
)

type options struct {
	configPath string
	flip       bool
	wireframe  bool
	noMesh     bool
	axis       bool
	grid       bool
	export     string
	stats      bool
	strict     bool
	center     bool
	noReload   bool
	quiet      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML settings file")
	flag.BoolVar(&opts.flip, "flip", false, "Flip triangle winding")
	flag.BoolVar(&opts.wireframe, "wireframe", false, "Show the polygon wireframe")
	flag.BoolVar(&opts.noMesh, "no-mesh", false, "Hide the shaded surface")
	flag.BoolVar(&opts.axis, "axis", false, "Show the axis helper")
	flag.BoolVar(&opts.grid, "grid", false, "Show the reference grid")
	flag.StringVar(&opts.export, "export", "", "Write the mesh to `file` (.glb, .gltf or .obj) and exit")
	flag.BoolVar(&opts.stats, "stats", false, "Print mesh statistics and exit")
	flag.BoolVar(&opts.strict, "strict", false, "Reject malformed vertex numbers instead of using NaN")
	flag.BoolVar(&opts.center, "center", false, "Move the mesh so its bounding box centre is the origin")
	flag.BoolVar(&opts.noReload, "no-reload", false, "Do not reload the file when it changes")
	flag.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file.obj|url>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(opts.quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(opts, flag.Arg(0), logger); err != nil {
		logger.Error("ngonview failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(opts options, source string, logger *zap.Logger) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(&settings, opts)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := newLoader(settings, logger)
	mesh, err := loadMesh(ctx, loader, source, settings)
	if err != nil {
		return err
	}

	switch {
	case opts.stats:
		printStats(mesh)
		return nil
	case opts.export != "":
		return export(opts.export, mesh, settings)
	}

	viewer := view.NewViewer(settings, "ngonview - "+filepath.Base(source), logger)
	viewer.SetMesh(mesh)

	if path, ok := watchPath(source); settings.HotReload && ok {
		w, err := watch.New(path, func(path string) {
			reloaded, err := loadMesh(ctx, loader, path, settings)
			if err != nil {
				logger.Warn("reload failed, keeping previous mesh", zap.Error(err))
				return
			}
			viewer.SetMesh(reloaded)
		}, logger)
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer w.Close()
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	return viewer.Run()
}

func applyFlags(s *config.Settings, opts options) {
	if opts.flip {
		s.FlipWinding = true
	}
	if opts.wireframe {
		s.ShowWireframe = true
	}
	if opts.noMesh {
		s.ShowMesh = false
	}
	if opts.axis {
		s.ShowAxis = true
	}
	if opts.grid {
		s.ShowGrid = true
	}
	if opts.strict {
		s.StrictNumbers = true
	}
	if opts.center {
		s.CentreObject = true
	}
	if opts.noReload {
		s.HotReload = false
	}
}

func newLoader(settings config.Settings, logger *zap.Logger) *ngon.Loader {
	manager := ngon.NewManager(logger)
	manager.OnError = func(url string) {
		logger.Error("mesh item failed", zap.String("url", url))
	}

	var parseOpts []ngon.ParseOption
	if settings.StrictNumbers {
		parseOpts = append(parseOpts, ngon.WithStrictNumbers())
	}
	return ngon.NewLoader(
		ngon.WithLogger(logger),
		ngon.WithManager(manager),
		ngon.WithParseOptions(parseOpts...),
	)
}

func loadMesh(ctx context.Context, loader *ngon.Loader, source string, settings config.Settings) (*ngon.PolygonMesh, error) {
	mesh, err := loader.LoadMesh(ctx, source)
	if err != nil {
		return nil, err
	}
	if settings.CentreObject {
		mesh.CentreObject()
	}
	return mesh, nil
}

func export(path string, mesh *ngon.PolygonMesh, settings config.Settings) error {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return ngon.SaveOBJ(path, mesh)
	}
	_, meshColor, _ := settings.Colors()
	opts := gltfio.DefaultOptions()
	opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	opts.FlipWinding = settings.FlipWinding
	opts.IncludeWireframe = settings.ShowWireframe
	opts.BaseColor = meshColor
	return gltfio.Save(path, mesh, opts)
}

func printStats(mesh *ngon.PolygonMesh) {
	lo, hi := mesh.Bounds()
	fmt.Printf("vertices:  %d\n", mesh.VertexCount())
	fmt.Printf("faces:     %d\n", mesh.FaceCount())
	fmt.Printf("triangles: %d\n", mesh.TriangleCount())
	fmt.Printf("edges:     %d\n", mesh.EdgeCount())
	fmt.Printf("colors:    %v\n", mesh.HasColors())
	fmt.Printf("bounds:    (%g, %g, %g) - (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	fmt.Printf("extent:    %g\n", mesh.Extent())
}

// watchPath returns the file behind a local source. Remote sources cannot be
// watched.
func watchPath(source string) (string, bool) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return "", false
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	return source, true
}
