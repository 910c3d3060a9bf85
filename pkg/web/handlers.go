package web

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/camera"
	"github.com/teslashibe/go-qranchor/pkg/hub"
	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// Command types accepted by POST /api/command and /ws/actions.
const (
	CmdRotateLeft     = "rotate_left"
	CmdRotateRight    = "rotate_right"
	CmdPointerDown    = "pointer_down"
	CmdPointerUp      = "pointer_up"
	CmdDetach         = "detach"
	CmdToggleControls = "toggle_controls"
	CmdRetry          = "retry"
	CmdViewport       = "viewport"
	CmdClick          = "click"
)

// Command is one user interaction. X, Y, Width and Height are canvas
// pixels for click; Width and Height alone for viewport.
type Command struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// CommandResult is the reply to a command.
type CommandResult struct {
	OK     bool          `json:"ok"`
	Hit    bool          `json:"hit,omitempty"`
	Action *scene.Action `json:"action,omitempty"`
}

var (
	errNoControls     = errors.New("anchoring is not running")
	errStopped        = errors.New("anchoring has stopped")
	errUnknownCommand = errors.New("unknown command")
	errBadViewport    = errors.New("viewport must be positive")
)

// dispatch runs cmd against the controls.
func (s *Server) dispatch(cmd Command) (CommandResult, error) {
	ctl := s.getControls()
	if ctl == nil {
		return CommandResult{}, errNoControls
	}

	var ok bool
	switch cmd.Type {
	case CmdRotateLeft:
		ok = ctl.RotateLeft()
	case CmdRotateRight:
		ok = ctl.RotateRight()
	case CmdPointerDown:
		ok = ctl.PointerDown()
	case CmdPointerUp:
		ok = ctl.PointerUp()
	case CmdDetach:
		ok = ctl.Detach()
	case CmdToggleControls:
		ok = ctl.ToggleControls()
	case CmdRetry:
		ok = ctl.Retry()
	case CmdViewport:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return CommandResult{}, errBadViewport
		}
		ok = ctl.SetViewport(int(cmd.Width), int(cmd.Height))
	case CmdClick:
		action, hit := ctl.Click(cmd.X, cmd.Y, cmd.Width, cmd.Height)
		if !hit {
			return CommandResult{OK: true}, nil
		}
		return CommandResult{OK: true, Hit: true, Action: &action}, nil
	default:
		return CommandResult{}, errUnknownCommand
	}

	if !ok {
		return CommandResult{}, errStopped
	}
	return CommandResult{OK: true}, nil
}

func (s *Server) reply(c *fiber.Ctx, cmd Command) error {
	res, err := s.dispatch(cmd)
	switch {
	case errors.Is(err, errNoControls), errors.Is(err, errStopped):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid command"})
	}
	return s.reply(c, cmd)
}

func (s *Server) handleRotate(c *fiber.Ctx) error {
	switch c.Params("dir") {
	case "left":
		return s.reply(c, Command{Type: CmdRotateLeft})
	case "right":
		return s.reply(c, Command{Type: CmdRotateRight})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "direction must be left or right"})
}

func (s *Server) handlePointer(c *fiber.Ctx) error {
	switch c.Params("phase") {
	case "down":
		return s.reply(c, Command{Type: CmdPointerDown})
	case "up":
		return s.reply(c, Command{Type: CmdPointerUp})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phase must be down or up"})
}

func (s *Server) handleDetach(c *fiber.Ctx) error {
	return s.reply(c, Command{Type: CmdDetach})
}

func (s *Server) handleToggleControls(c *fiber.Ctx) error {
	return s.reply(c, Command{Type: CmdToggleControls})
}

func (s *Server) handleRetry(c *fiber.Ctx) error {
	return s.reply(c, Command{Type: CmdRetry})
}

func (s *Server) handleClick(c *fiber.Ctx) error {
	cmd := Command{Type: CmdClick}
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid click"})
	}
	cmd.Type = CmdClick
	return s.reply(c, cmd)
}

func (s *Server) handleViewport(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid viewport"})
	}
	cmd.Type = CmdViewport
	return s.reply(c, cmd)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.State())
}

func (s *Server) handleScene(c *fiber.Ctx) error {
	ctl := s.getControls()
	if ctl == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": errNoControls.Error()})
	}
	snap, ok := ctl.Snapshot()
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": errStopped.Error()})
	}
	return c.JSON(snap)
}

func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	return c.JSON(s.Logs())
}

func (s *Server) handleGetCameraConfig(c *fiber.Ctx) error {
	if s.OnGetCameraConfig == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "camera config not available"})
	}
	return c.JSON(s.OnGetCameraConfig())
}

func (s *Server) handleSetCameraConfig(c *fiber.Ctx) error {
	if s.OnSetCameraConfig == nil || s.OnGetCameraConfig == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "camera config not available"})
	}
	var params map[string]interface{}
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid camera config"})
	}
	if err := s.OnSetCameraConfig(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.OnGetCameraConfig())
}

func (s *Server) handleCameraPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": camera.PresetNames()})
}

// streamHandler attaches a websocket to h until the browser leaves.
func (s *Server) streamHandler(h *hub.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		client := hub.NewClient(h, c)
		if client == nil {
			c.Close()
			return
		}
		client.Run()
	}
}

// handleActionsWS streams hotspot actions and accepts commands.
func (s *Server) handleActionsWS(c *websocket.Conn) {
	client := hub.NewClient(s.actionHub, c)
	if client == nil {
		c.Close()
		return
	}
	client.OnMessage = func(data []byte) {
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Debug("bad command from viewer", "error", err)
			return
		}
		if _, err := s.dispatch(cmd); err != nil {
			log.Debug("command rejected", "type", cmd.Type, "error", err)
		}
	}
	client.Run()
}
