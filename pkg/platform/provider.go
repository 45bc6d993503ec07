package platform

import (
	"fmt"
	"runtime"
)

// Provider is the boundary to OS-specific facilities: window and
// accessibility queries, screen and mouse state, notifications, and process
// enumeration. Implementations are thin bindings over native APIs and live
// outside this module's core; the Stub provider serves headless runs and
// tests.
type Provider interface {
	// Name returns the platform identifier (darwin, windows, linux).
	Name() string
	// ScreenSize returns the primary display size in pixels.
	ScreenSize() (width, height int, err error)
	// MousePosition returns the current cursor position.
	MousePosition() (x, y int, err error)
	// WindowInfo describes the currently focused window.
	WindowInfo() (map[string]any, error)
	// AccessibilityTree returns the accessibility tree of the focused window.
	AccessibilityTree() (map[string]any, error)
	// AccessibilityEnabled reports whether a11y permissions are granted.
	AccessibilityEnabled() bool
	// Notify shows a system notification.
	Notify(title, message string) error
	// RunningApps enumerates running applications.
	RunningApps() ([]map[string]any, error)
	// SystemInfo returns general host information.
	SystemInfo() map[string]any
}

// Detect returns the current platform name, or an error for platforms the
// recorder does not support.
func Detect() (string, error) {
	switch runtime.GOOS {
	case "darwin", "windows", "linux":
		return runtime.GOOS, nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
