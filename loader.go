package ngon

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Loader fetches OBJ sources and parses them into polygon meshes.
type Loader struct {
	fetcher   Fetcher
	manager   LoadingManager
	logger    *zap.Logger
	parseOpts []ParseOption
}

type LoaderOption func(*Loader)

func WithFetcher(f Fetcher) LoaderOption {
	return func(l *Loader) {
		l.fetcher = f
	}
}

func WithManager(m LoadingManager) LoaderOption {
	return func(l *Loader) {
		l.manager = m
	}
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func WithParseOptions(opts ...ParseOption) LoaderOption {
	return func(l *Loader) {
		l.parseOpts = append(l.parseOpts, opts...)
	}
}

// NewLoader defaults to DefaultFetcher, a fresh Manager and a no-op logger.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: DefaultFetcher(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.manager == nil {
		l.manager = NewManager(l.logger)
	}
	return l
}

func (l *Loader) Manager() LoadingManager {
	return l.manager
}

// Load fetches and parses rawURL, then calls onLoad with the mesh. Any fetch
// or parse failure goes to onError, or is logged when onError is nil, and
// the manager's ItemError is signalled. Nothing is retried.
func (l *Loader) Load(ctx context.Context, rawURL string, onLoad func(*PolygonMesh), onProgress ProgressFunc, onError func(error)) {
	mesh, err := l.load(ctx, rawURL, onProgress)
	if err != nil {
		if onError != nil {
			onError(err)
		} else {
			l.logger.Error("could not load mesh", zap.String("url", rawURL), zap.Error(err))
		}
		return
	}
	if onLoad != nil {
		onLoad(mesh)
	}
}

// LoadMesh is Load returning the result directly.
func (l *Loader) LoadMesh(ctx context.Context, rawURL string) (*PolygonMesh, error) {
	return l.load(ctx, rawURL, nil)
}

func (l *Loader) load(ctx context.Context, rawURL string, onProgress ProgressFunc) (*PolygonMesh, error) {
	l.manager.ItemStart(rawURL)
	defer l.manager.ItemEnd(rawURL)

	data, err := l.fetcher.Fetch(ctx, rawURL, onProgress)
	if err != nil {
		l.manager.ItemError(rawURL)
		return nil, fmt.Errorf("could not load %s: %w", rawURL, err)
	}

	opts := append([]ParseOption{WithParseLogger(l.logger)}, l.parseOpts...)
	mesh, err := ParseReader(bytes.NewReader(data), opts...)
	if err != nil {
		l.manager.ItemError(rawURL)
		return nil, fmt.Errorf("error parsing OBJ from %s: %w", rawURL, err)
	}

	mesh.LogSummary(l.logger, rawURL)
	return mesh, nil
}
