package ngon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ProgressFunc receives the bytes read so far and the expected total, which
// is -1 when unknown.
type ProgressFunc func(loaded, total int64)

// Fetcher retrieves the raw bytes behind a URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, onProgress ProgressFunc) ([]byte, error)
}

// FileFetcher reads local paths and file:// URLs.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, rawURL string, onProgress ProgressFunc) ([]byte, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %s: %w", rawURL, err)
		}
		path = u.Path
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer file.Close()

	total := int64(-1)
	if info, err := file.Stat(); err == nil {
		total = info.Size()
	}
	return readAllWithProgress(ctx, file, total, onProgress)
}

// HTTPFetcher downloads http and https URLs.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, rawURL string, onProgress ProgressFunc) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request for %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch %s: %s", rawURL, resp.Status)
	}
	return readAllWithProgress(ctx, resp.Body, resp.ContentLength, onProgress)
}

// SchemeFetcher picks HTTP for http(s) URLs and File for everything else.
type SchemeFetcher struct {
	File Fetcher
	HTTP Fetcher
}

func DefaultFetcher() SchemeFetcher {
	return SchemeFetcher{File: FileFetcher{}, HTTP: HTTPFetcher{}}
}

func (f SchemeFetcher) Fetch(ctx context.Context, rawURL string, onProgress ProgressFunc) ([]byte, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return f.HTTP.Fetch(ctx, rawURL, onProgress)
	}
	return f.File.Fetch(ctx, rawURL, onProgress)
}

const (
	readChunk = 32 * 1024
	// maxPrealloc bounds how much of a claimed length is reserved up front.
	// A server may send any Content-Length, so larger bodies grow by append.
	maxPrealloc = 1 << 20
)

func readAllWithProgress(ctx context.Context, r io.Reader, total int64, onProgress ProgressFunc) ([]byte, error) {
	var buf []byte
	if total > 0 {
		buf = make([]byte, 0, min(total, maxPrealloc))
	}
	chunk := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if onProgress != nil {
				onProgress(int64(len(buf)), total)
			}
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
