// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with mocks

package tui

import "tickruler/config"

// ConfigProvider provides thread-safe access to the persisted configuration
type ConfigProvider interface {
	Get() config.Config
	Update(cfg config.Config)
}

// ConfigWatcher blocks until the config file changes and returns the reloaded config
type ConfigWatcher interface {
	Next() (config.Config, error)
}
