package asset

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glb returns a minimal valid GLB of the given total size.
func glb(size int) []byte {
	b := make([]byte, size)
	binary.LittleEndian.PutUint32(b[0:4], glbMagic)
	binary.LittleEndian.PutUint32(b[4:8], glbVersion)
	binary.LittleEndian.PutUint32(b[8:12], uint32(size))
	return b
}

func TestParseHeader(t *testing.T) {
	good := glb(64)

	badMagic := glb(64)
	copy(badMagic, "GLTF")

	v1 := glb(64)
	binary.LittleEndian.PutUint32(v1[4:8], 1)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"valid", good, nil},
		{"short", good[:8], ErrInvalidGLB},
		{"bad magic", badMagic, ErrInvalidGLB},
		{"version 1", v1, ErrUnsupported},
		{"truncated", good[:40], ErrInvalidGLB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/model.glb":
			w.Write(glb(128))
		case "/models/broken.glb":
			w.Write([]byte("<html>not a model</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.URL + "/models/")

	obj, err := l.Load(context.Background(), "model")
	require.NoError(t, err)
	assert.Equal(t, "model", obj.Name)
	assert.Equal(t, srv.URL+"/models/model.glb", obj.Asset)
	assert.True(t, obj.Visible)

	_, err = l.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLoad)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "missing", le.ID)

	_, err = l.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrInvalidGLB)

	_, err = l.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.glb"), glb(32), 0o644))

	l := NewFileLoader(dir)

	obj, err := l.Load(context.Background(), "model")
	require.NoError(t, err)
	assert.Equal(t, "/models/model.glb", obj.Asset)

	_, err = l.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Load(context.Background(), "../model")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestNewLoader(t *testing.T) {
	assert.IsType(t, &HTTPLoader{}, NewLoader("https://cdn.example.com/models"))
	assert.IsType(t, &FileLoader{}, NewLoader("./models"))
}

func TestFuture_Result(t *testing.T) {
	m := NewMock()
	m.Errors["bad"] = errors.New("boom")

	ok := Go(context.Background(), m, "good")
	<-ok.Done()
	obj, err := ok.Result()
	require.NoError(t, err)
	assert.Equal(t, "good", obj.Name)
	assert.Equal(t, "good", ok.ID())

	bad := Go(context.Background(), m, "bad")
	<-bad.Done()
	_, err = bad.Result()
	assert.ErrorIs(t, err, ErrLoad)

	assert.Equal(t, []string{"good", "bad"}, m.Calls())
}

func TestFuture_Cancel(t *testing.T) {
	m := NewMock()
	m.Gate = make(chan struct{})

	f := Go(context.Background(), m, "slow")
	f.Cancel()

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("cancelled future never completed")
	}

	obj, err := f.Result()
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, ErrCancelled)
}
