// Package config provides configuration helpers for go-qranchor commands.
package config

import (
	"os"
	"strconv"
)

// Defaults used when neither flags, env nor the config file set a value.
const (
	DefaultPort      = 8080
	DefaultAssetBase = "./models"
	DefaultLogLevel  = "info"
)

// Port returns the HTTP port from QRANCHOR_PORT.
// Falls back to the provided default if unset or invalid.
func Port(def int) int {
	if v := os.Getenv("QRANCHOR_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return def
}

// CameraDevice returns the capture device (index or URL) from QRANCHOR_CAMERA.
func CameraDevice(def string) string {
	if v := os.Getenv("QRANCHOR_CAMERA"); v != "" {
		return v
	}
	return def
}

// AssetBase returns the model asset base (URL or directory) from QRANCHOR_ASSET_BASE.
func AssetBase(def string) string {
	if v := os.Getenv("QRANCHOR_ASSET_BASE"); v != "" {
		return v
	}
	return def
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel(def string) string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return def
}
