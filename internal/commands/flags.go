package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/motivatchi/tchi/internal/api"
	"github.com/motivatchi/tchi/internal/core/config"
	"github.com/motivatchi/tchi/internal/tasksync"
)

// Flags carries global flag values plus the shared objects built in the
// Before hook. Every command receives the same instance.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	APIURL     string

	// Config is loaded in the Before hook and available to all commands.
	Config *config.Config

	// Client talks to the remote API.
	Client *api.Client

	// Store is the shared task cache; constructed once, passed by handle.
	Store *tasksync.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tchi", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's
// state directory.
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "tchi", "tchi.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "tchi", "tchi.log")
	}

	return filepath.Join(home, ".local", "state", "tchi", "tchi.log")
}
