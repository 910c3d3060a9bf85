// Package remote watches and drives a running qranchor viewer server
// over its REST and websocket endpoints.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-qranchor/internal/httpc"
	"github.com/teslashibe/go-qranchor/pkg/scene"
	"github.com/teslashibe/go-qranchor/pkg/web"
)

// Client talks to one server.
type Client struct {
	baseURL string
	dialer  *websocket.Dialer
}

// New creates a client for a server at baseURL, e.g. http://localhost:8080.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

func (c *Client) wsURL(path string) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + path
}

// Watch reads the websocket stream at path, calling fn for every message,
// until ctx ends, the server closes the stream, or fn returns an error.
func (c *Client) Watch(ctx context.Context, path string, fn func(messageType int, data []byte) error) error {
	ws, _, err := c.dialer.DialContext(ctx, c.wsURL(path), nil)
	if err != nil {
		return fmt.Errorf("remote: dial %s: %w", path, err)
	}
	defer ws.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-stop:
		}
	}()

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("remote: read %s: %w", path, err)
		}
		if err := fn(mt, data); err != nil {
			return err
		}
	}
}

func watchJSON[T any](ctx context.Context, c *Client, path string, fn func(T)) error {
	return c.Watch(ctx, path, func(mt int, data []byte) error {
		if mt != websocket.TextMessage {
			return nil
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("remote: decode %s: %w", path, err)
		}
		fn(v)
		return nil
	})
}

// WatchScene streams scene snapshots.
func (c *Client) WatchScene(ctx context.Context, fn func(scene.Snapshot)) error {
	return watchJSON(ctx, c, "/ws/scene", fn)
}

// WatchStatus streams status updates.
func (c *Client) WatchStatus(ctx context.Context, fn func(web.State)) error {
	return watchJSON(ctx, c, "/ws/status", fn)
}

// WatchLogs streams log lines.
func (c *Client) WatchLogs(ctx context.Context, fn func(web.LogEntry)) error {
	return watchJSON(ctx, c, "/ws/logs", fn)
}

// WatchActions streams hotspot actions.
func (c *Client) WatchActions(ctx context.Context, fn func(scene.Action)) error {
	return watchJSON(ctx, c, "/ws/actions", fn)
}

// Send posts a command and returns the server's reply.
func (c *Client) Send(ctx context.Context, cmd web.Command) (web.CommandResult, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return web.CommandResult{}, err
	}
	resp, err := httpc.PostContext(ctx, c.baseURL+"/api/command", "application/json", body)
	if err != nil {
		return web.CommandResult{}, fmt.Errorf("remote: %s: %w", cmd.Type, err)
	}
	defer resp.Body.Close()

	var res web.CommandResult
	if err := decode(resp, &res); err != nil {
		return web.CommandResult{}, fmt.Errorf("remote: %s: %w", cmd.Type, err)
	}
	return res, nil
}

// Status fetches the current status.
func (c *Client) Status(ctx context.Context) (web.State, error) {
	resp, err := httpc.GetContext(ctx, nil, c.baseURL+"/api/status")
	if err != nil {
		return web.State{}, fmt.Errorf("remote: status: %w", err)
	}
	defer resp.Body.Close()

	var st web.State
	if err := decode(resp, &st); err != nil {
		return web.State{}, fmt.Errorf("remote: status: %w", err)
	}
	return st, nil
}

func decode(resp *http.Response, v interface{}) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.Unmarshal(data, v)
}
