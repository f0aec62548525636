// Package theme holds the process-wide light/dark preference.
package theme

import (
	"strings"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var (
	mu      sync.RWMutex
	current = Light
)

// Parse accepts "light" or "dark" (case-insensitive). Anything else is light.
func Parse(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(Dark)) {
		return Dark
	}
	return Light
}

// Init sets the starting theme, usually from APP_THEME.
func Init(s string) {
	Set(Parse(s))
}

// Current returns the active theme.
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the active theme.
func Set(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// Toggle flips between light and dark and returns the new theme.
func Toggle() Theme {
	mu.Lock()
	defer mu.Unlock()
	if current == Dark {
		current = Light
	} else {
		current = Dark
	}
	return current
}
