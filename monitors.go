// ABOUTME: Screen enumeration backed by GLFW monitors.
// ABOUTME: Snapshots the attached monitors so layouts can be built after GLFW shuts down.

package main

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"project-eye/internal/screen"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

// glfwScreens initializes GLFW, snapshots every monitor and terminates GLFW
// again. Must be called from the main goroutine.
func glfwScreens() (screen.Static, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	primary := glfw.GetPrimaryMonitor()
	var screens screen.Static
	for _, m := range glfw.GetMonitors() {
		mode := m.GetVideoMode()
		if mode == nil {
			continue
		}
		screens = append(screens, screen.Screen{
			DeviceName: m.GetName(),
			Width:      mode.Width,
			Height:     mode.Height,
			Primary:    primary != nil && *m == *primary,
		})
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return screens, nil
}
