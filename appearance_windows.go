// ABOUTME: Windows appearance check for the first-run theme.
// ABOUTME: Reads AppsUseLightTheme from the Personalize registry key.

//go:build windows

package main

import "golang.org/x/sys/windows/registry"

const personalizeKeyPath = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

func systemAppearance() appearance {
	key, err := registry.OpenKey(registry.CURRENT_USER, personalizeKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return appearanceLight
	}
	defer key.Close()

	v, _, err := key.GetIntegerValue("AppsUseLightTheme")
	if err != nil {
		return appearanceLight
	}
	return appearanceFromAppsUseLightTheme(v)
}
