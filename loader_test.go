package ngon

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingManager keeps the order of lifecycle calls.
type recordingManager struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingManager) record(kind, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, kind+" "+url)
}

func (r *recordingManager) ItemStart(url string) { r.record("start", url) }
func (r *recordingManager) ItemEnd(url string)   { r.record("end", url) }
func (r *recordingManager) ItemError(url string) { r.record("error", url) }

func writeTempOBJ(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoaderLoadFile(t *testing.T) {
	path := writeTempOBJ(t, "square.obj", unitSquareOBJ)
	manager := NewManager(nil)
	loader := NewLoader(WithManager(manager))

	var (
		got      *PolygonMesh
		progress []int64
	)
	loader.Load(context.Background(), path,
		func(m *PolygonMesh) { got = m },
		func(loaded, total int64) {
			progress = append(progress, loaded)
			assert.Equal(t, int64(len(unitSquareOBJ)), total)
		},
		func(err error) { t.Fatalf("unexpected error: %v", err) },
	)

	require.NotNil(t, got)
	assert.Equal(t, 4, got.VertexCount())
	require.NotEmpty(t, progress)
	assert.Equal(t, int64(len(unitSquareOBJ)), progress[len(progress)-1])

	loaded, total, failed := manager.Counts()
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, total)
	assert.Zero(t, failed)
	assert.True(t, manager.Idle())
}

func TestLoaderLoadFileURL(t *testing.T) {
	path := writeTempOBJ(t, "square.obj", unitSquareOBJ)

	mesh, err := NewLoader().LoadMesh(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.FaceCount())
}

func TestLoaderLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/square.obj" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(unitSquareOBJ)))
		_, _ = w.Write([]byte(unitSquareOBJ))
	}))
	defer server.Close()

	rec := &recordingManager{}
	loader := NewLoader(WithManager(rec))

	var (
		got     *PolygonMesh
		lastLen int64
		total   int64
	)
	loader.Load(context.Background(), server.URL+"/square.obj",
		func(m *PolygonMesh) { got = m },
		func(l, tot int64) { lastLen, total = l, tot },
		nil,
	)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.VertexCount())
	assert.Equal(t, int64(len(unitSquareOBJ)), lastLen)
	assert.Equal(t, int64(len(unitSquareOBJ)), total)

	var loadErr error
	loader.Load(context.Background(), server.URL+"/missing.obj",
		func(*PolygonMesh) { t.Fatal("onLoad called for a 404") },
		nil,
		func(err error) { loadErr = err },
	)
	require.Error(t, loadErr)
	assert.Contains(t, loadErr.Error(), "404")

	assert.Equal(t, []string{
		"start " + server.URL + "/square.obj",
		"end " + server.URL + "/square.obj",
		"start " + server.URL + "/missing.obj",
		"error " + server.URL + "/missing.obj",
		"end " + server.URL + "/missing.obj",
	}, rec.calls)
}

func TestLoaderParseErrorGoesToOnError(t *testing.T) {
	path := writeTempOBJ(t, "bad.obj", "v 0 0 0\nf 1 2 3\n")

	manager := NewManager(nil)
	var failedURLs []string
	manager.OnError = func(url string) { failedURLs = append(failedURLs, url) }
	var ends int
	manager.OnProgress = func(url string, loaded, total int) { ends++ }

	var loadErr error
	NewLoader(WithManager(manager)).Load(context.Background(), path,
		func(*PolygonMesh) { t.Fatal("onLoad called for a bad mesh") },
		nil,
		func(err error) { loadErr = err },
	)

	require.Error(t, loadErr)
	assert.ErrorIs(t, loadErr, ErrInvalidFaceIndex)
	var perr *ParseError
	require.True(t, errors.As(loadErr, &perr))
	assert.Equal(t, 2, perr.Line)

	assert.Equal(t, []string{path}, failedURLs)
	assert.Equal(t, 1, ends)
	_, _, failed := manager.Counts()
	assert.Equal(t, 1, failed)
	assert.True(t, manager.Idle())
}

func TestLoaderStrictParseOption(t *testing.T) {
	path := writeTempOBJ(t, "nan.obj", "v 0 zero 0\n")

	_, err := NewLoader().LoadMesh(context.Background(), path)
	require.NoError(t, err)

	_, err = NewLoader(WithParseOptions(WithStrictNumbers())).LoadMesh(context.Background(), path)
	assert.ErrorIs(t, err, ErrMalformedVertex)
}

func TestLoaderLogsWhenNoErrorCallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	loader := NewLoader(WithLogger(zap.New(core)))

	missing := filepath.Join(t.TempDir(), "missing.obj")
	loader.Load(context.Background(), missing, func(*PolygonMesh) { t.Fatal("onLoad called") }, nil, nil)

	entries := logs.FilterMessage("could not load mesh").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, missing, entries[0].ContextMap()["url"])
	assert.Equal(t, 1, logs.FilterMessage("load failed").Len())
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader().LoadMesh(context.Background(), filepath.Join(t.TempDir(), "missing.obj"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoaderCanceledContext(t *testing.T) {
	path := writeTempOBJ(t, "square.obj", unitSquareOBJ)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := NewManager(nil)
	_, err := NewLoader(WithManager(manager)).LoadMesh(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, manager.Idle())
}

func TestManagerConcurrentLoads(t *testing.T) {
	path := writeTempOBJ(t, "square.obj", unitSquareOBJ)
	manager := NewManager(nil)
	loader := NewLoader(WithManager(manager))

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.LoadMesh(context.Background(), path)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, total, failed := manager.Counts()
	assert.Equal(t, n, loaded)
	assert.Equal(t, n, total)
	assert.Zero(t, failed)
}

func TestSchemeFetcherDispatch(t *testing.T) {
	var httpCalls, fileCalls int
	f := SchemeFetcher{
		File: fetcherFunc(func(string) { fileCalls++ }),
		HTTP: fetcherFunc(func(string) { httpCalls++ }),
	}
	for _, u := range []string{"http://x/a.obj", "https://x/a.obj", "/tmp/a.obj", "file:///tmp/a.obj", "a.obj"} {
		_, err := f.Fetch(context.Background(), u, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, httpCalls)
	assert.Equal(t, 3, fileCalls)
}

type fetcherFunc func(rawURL string)

func (f fetcherFunc) Fetch(_ context.Context, rawURL string, _ ProgressFunc) ([]byte, error) {
	f(rawURL)
	return nil, nil
}

// lyingServer answers every request with a Content-Length far beyond the body
// it actually sends.
func lyingServer(t *testing.T, claimed string, body string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadString('\n')
					if err != nil || line == "\r\n" {
						break
					}
				}
				_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: " + claimed + "\r\n\r\n" + body))
			}(conn)
		}
	}()
	return "http://" + ln.Addr().String() + "/mesh.obj"
}

func TestLoaderHugeContentLengthIsAnError(t *testing.T) {
	url := lyingServer(t, "9000000000000000000", "v 0 0 0\n")

	manager := NewManager(nil)
	var (
		loadErr   error
		lastTotal int64
	)
	NewLoader(WithManager(manager)).Load(context.Background(), url,
		func(*PolygonMesh) { t.Fatal("onLoad called for a truncated body") },
		func(loaded, total int64) { lastTotal = total },
		func(err error) { loadErr = err },
	)

	require.Error(t, loadErr)
	assert.Contains(t, loadErr.Error(), url)
	assert.Equal(t, int64(9000000000000000000), lastTotal)
	_, _, failed := manager.Counts()
	assert.Equal(t, 1, failed)
	assert.True(t, manager.Idle())
}

func TestReadAllWithProgressGrowsPastPrealloc(t *testing.T) {
	data := strings.Repeat("v 1 2 3\n", maxPrealloc/4)
	var calls int
	got, err := readAllWithProgress(context.Background(), strings.NewReader(data), 1<<40,
		func(loaded, total int64) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, data, string(got))
	assert.Greater(t, calls, 1)
}
