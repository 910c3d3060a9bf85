// Package asset loads 3D model assets (glTF binary) for the scene.
//
// The service only validates and locates an asset; the browser renderer
// fetches and draws the mesh itself from Object.Asset.
package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/teslashibe/go-qranchor/internal/httpc"
	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// MaxAssetSize bounds how much of a model file is read.
const MaxAssetSize = 64 << 20

// DefaultURLPrefix is where FileLoader assets are served from.
const DefaultURLPrefix = "/models"

// Loader resolves a model id into a scene object.
type Loader interface {
	Load(ctx context.Context, id string) (*scene.Object, error)
}

// HTTPLoader fetches <BaseURL>/<id>.glb.
type HTTPLoader struct {
	BaseURL string
	Client  *http.Client // nil uses httpc.Client
}

// NewHTTPLoader creates a loader for assets under baseURL.
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns where the asset for id lives.
func (l *HTTPLoader) URL(id string) string {
	return l.BaseURL + "/" + url.PathEscape(id) + ".glb"
}

// Load downloads and validates the asset.
func (l *HTTPLoader) Load(ctx context.Context, id string) (*scene.Object, error) {
	if id == "" {
		return nil, &LoadError{ID: id, Err: ErrEmptyID}
	}

	u := l.URL(id)
	resp, err := httpc.GetContext(ctx, l.Client, u)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("GET %s: %s", u, resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetSize))
	if err != nil {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("read body: %w", err)}
	}
	if _, err := ParseHeader(data); err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	log.Debug("asset fetched", "id", id, "url", u, "bytes", len(data))
	return scene.NewObject(id, u), nil
}

// FileLoader reads <Dir>/<id>.glb from disk; the web server exposes Dir
// under URLPrefix so the renderer can fetch it.
type FileLoader struct {
	Dir       string
	URLPrefix string
}

// NewFileLoader creates a loader for assets in dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir, URLPrefix: DefaultURLPrefix}
}

// Load validates the asset file and returns an object pointing at its URL.
func (l *FileLoader) Load(ctx context.Context, id string) (*scene.Object, error) {
	if id == "" {
		return nil, &LoadError{ID: id, Err: ErrEmptyID}
	}
	// Model ids are file names, never paths
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("invalid model id")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	p := filepath.Join(l.Dir, id+".glb")
	f, err := os.Open(p)
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAssetSize))
	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	if _, err := ParseHeader(data); err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}

	prefix := l.URLPrefix
	if prefix == "" {
		prefix = DefaultURLPrefix
	}
	return scene.NewObject(id, path.Join(prefix, id+".glb")), nil
}

// NewLoader picks a loader for base: http(s) URLs use HTTPLoader,
// anything else is a directory.
func NewLoader(base string) Loader {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPLoader(base)
	}
	return NewFileLoader(base)
}
