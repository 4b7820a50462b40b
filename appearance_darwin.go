// ABOUTME: macOS appearance check for the first-run theme.
// ABOUTME: Reads the global AppleInterfaceStyle default.

//go:build darwin

package main

import "os/exec"

func systemAppearance() appearance {
	out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		// Key missing in light mode.
		return appearanceLight
	}
	return appearanceFromInterfaceStyle(out)
}
