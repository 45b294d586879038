// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/cargonote/cargonote/internal/statdate"
)

// DefaultDataPath is where the logbook snapshot lives unless data.path
// is configured.
const DefaultDataPath = "~/.local/share/cargonote/cargo_data.json"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DataPath resolves the snapshot file location from configuration.
func DataPath() string {
	path := viper.GetString("data.path")
	if path == "" {
		path = DefaultDataPath
	}
	return ExpandPath(path)
}

// BoundaryHour resolves the statistical-day cutover hour from
// configuration, falling back to the 4 AM default for unset or
// out-of-range values.
func BoundaryHour() int {
	if !viper.IsSet("stats.boundary_hour") {
		return statdate.DefaultBoundaryHour
	}
	hour := viper.GetInt("stats.boundary_hour")
	if hour < 0 || hour > 23 {
		return statdate.DefaultBoundaryHour
	}
	return hour
}
