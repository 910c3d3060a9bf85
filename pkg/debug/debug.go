// Package debug provides global debug logging flags
package debug

import (
	"fmt"

	"github.com/teslashibe/go-qranchor/internal/log"
)

// Enabled controls whether debug logging is active
var Enabled bool

// Polls controls whether per-poll logs are shown (every decode, every frame).
// Use --debug-polls to enable these very verbose logs
var Polls bool

// Log logs a formatted message only if debug mode is enabled
func Log(format string, args ...any) {
	if Enabled {
		log.Debug(fmt.Sprintf(format, args...))
	}
}

// PollLog logs a formatted message only if poll debugging is enabled
func PollLog(format string, args ...any) {
	if Polls {
		log.Debug(fmt.Sprintf(format, args...), "component", "poll")
	}
}
