package anchor

import (
	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// The methods in this file are safe to call from any goroutine. They queue
// work for the Run goroutine and report false once Run has returned.

func (c *Controller) do(fn func()) bool {
	select {
	case <-c.stopped:
		return false
	default:
	}
	select {
	case c.cmds <- fn:
		return true
	case <-c.stopped:
		return false
	}
}

// RotateLeft turns the tracked (or newest) model by -RotateStep.
func (c *Controller) RotateLeft() bool {
	return c.do(func() { c.rotate(-1) })
}

// RotateRight turns the tracked (or newest) model by +RotateStep.
func (c *Controller) RotateRight() bool {
	return c.do(func() { c.rotate(1) })
}

// PointerDown starts a long press.
func (c *Controller) PointerDown() bool {
	return c.do(func() { c.press.Down(c.now()) })
}

// PointerUp ends a long press; a press that already reached the threshold
// still detaches.
func (c *Controller) PointerUp() bool {
	return c.do(func() {
		if c.press.Up(c.now()) {
			c.detach()
		}
	})
}

// Detach freezes the tracked model immediately.
func (c *Controller) Detach() bool {
	return c.do(c.detach)
}

// ToggleControls shows or hides the rotate controls.
func (c *Controller) ToggleControls() bool {
	return c.do(func() {
		c.controls = !c.controls
		c.status.SetControlsVisible(c.controls)
	})
}

// Retry re-runs camera acquisition after a failure or config change.
func (c *Controller) Retry() bool {
	return c.do(func() { c.acquire(c.ctx) })
}

// SetViewport updates the camera aspect to match the display canvas.
func (c *Controller) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return c.do(func() { c.scene.Camera().SetViewport(width, height) })
}

type clickResult struct {
	action scene.Action
	ok     bool
}

// Click hit-tests a point given in pixels of a width x height canvas and
// returns the action of the hotspot under it.
func (c *Controller) Click(x, y, width, height float64) (scene.Action, bool) {
	reply := make(chan clickResult, 1)
	queued := c.do(func() {
		a, ok := c.click(x, y, width, height)
		reply <- clickResult{action: a, ok: ok}
	})
	if !queued {
		return scene.Action{}, false
	}
	select {
	case r := <-reply:
		return r.action, r.ok
	case <-c.stopped:
		select {
		case r := <-reply:
			return r.action, r.ok
		default:
			return scene.Action{}, false
		}
	}
}

// Snapshot captures the scene on the Run goroutine.
func (c *Controller) Snapshot() (scene.Snapshot, bool) {
	reply := make(chan scene.Snapshot, 1)
	if !c.do(func() { reply <- c.scene.Snapshot() }) {
		return scene.Snapshot{}, false
	}
	select {
	case snap := <-reply:
		return snap, true
	case <-c.stopped:
		return scene.Snapshot{}, false
	}
}
