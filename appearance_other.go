// ABOUTME: Appearance check for platforms without a system-wide setting.
// ABOUTME: Always reports light, so the first run uses the catalog default.

//go:build !darwin && !windows

package main

func systemAppearance() appearance {
	return appearanceLight
}
