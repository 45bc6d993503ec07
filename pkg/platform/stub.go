package platform

import (
	"os"
	"runtime"
	"sync"
)

// Stub is an in-memory Provider for headless runs and tests. Window info
// can be swapped at runtime to simulate focus changes.
type Stub struct {
	PlatformName string
	Width        int
	Height       int

	mu     sync.Mutex
	window map[string]any
	mouseX int
	mouseY int
}

// NewStub creates a stub provider with a 1920x1080 screen.
func NewStub() *Stub {
	name := runtime.GOOS
	return &Stub{
		PlatformName: name,
		Width:        1920,
		Height:       1080,
		window: map[string]any{
			"title": "stub-window",
			"app":   "stub",
		},
	}
}

func (s *Stub) Name() string { return s.PlatformName }

func (s *Stub) ScreenSize() (int, int, error) {
	return s.Width, s.Height, nil
}

func (s *Stub) MousePosition() (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseX, s.mouseY, nil
}

// SetMousePosition updates the simulated cursor.
func (s *Stub) SetMousePosition(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseX, s.mouseY = x, y
}

func (s *Stub) WindowInfo() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := make(map[string]any, len(s.window))
	for k, v := range s.window {
		info[k] = v
	}
	return info, nil
}

// SetWindowInfo swaps the simulated focused window.
func (s *Stub) SetWindowInfo(info map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = info
}

func (s *Stub) AccessibilityTree() (map[string]any, error) {
	return map[string]any{"role": "window", "children": []any{}}, nil
}

func (s *Stub) AccessibilityEnabled() bool { return true }

func (s *Stub) Notify(title, message string) error { return nil }

func (s *Stub) RunningApps() ([]map[string]any, error) {
	return []map[string]any{{"name": "stub", "pid": os.Getpid()}}, nil
}

func (s *Stub) SystemInfo() map[string]any {
	return map[string]any{
		"platform": s.PlatformName,
		"arch":     runtime.GOARCH,
		"cpus":     runtime.NumCPU(),
	}
}
