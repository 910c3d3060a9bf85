package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-qranchor/pkg/scene"
	"github.com/teslashibe/go-qranchor/pkg/web"
)

var upgrader = websocket.Upgrader{}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/ws/scene", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for _, name := range []string{"duck", "lantern"} {
			snap := scene.Snapshot{Objects: []scene.ObjectState{{Name: name}}}
			data, _ := json.Marshal(snap)
			ws.WriteMessage(websocket.BinaryMessage, []byte{0x00})
			ws.WriteMessage(websocket.TextMessage, data)
		}
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})

	mux.HandleFunc("/ws/status", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		// Hold the stream open until the client leaves
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})

	mux.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		var cmd web.Command
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil || cmd.Type == "fly" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"unknown command"}`))
			return
		}
		json.NewEncoder(w).Encode(web.CommandResult{OK: true})
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(web.State{Message: "model added", ControlsVisible: true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWatchScene(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)

	var names []string
	err := c.WatchScene(context.Background(), func(s scene.Snapshot) {
		names = append(names, s.Objects[0].Name)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"duck", "lantern"}, names)
}

func TestWatch_ContextCancel(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.WatchStatus(ctx, func(web.State) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatch_DialError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.Watch(context.Background(), "/ws/scene", func(int, []byte) error { return nil })
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL + "/")

	res, err := c.Send(context.Background(), web.Command{Type: web.CmdRotateLeft})
	require.NoError(t, err)
	assert.True(t, res.OK)

	_, err = c.Send(context.Background(), web.Command{Type: "fly"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.Contains(t, err.Error(), "400")
}

func TestStatus(t *testing.T) {
	srv := newServer(t)
	st, err := New(srv.URL).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "model added", st.Message)
	assert.True(t, st.ControlsVisible)
}

func TestWSURL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws/scene"},
		{"https://ar.example.com/", "wss://ar.example.com/ws/scene"},
		{"ws://already", "ws://already/ws/scene"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.base).wsURL("/ws/scene"), tt.base)
	}
}
