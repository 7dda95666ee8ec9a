// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vidloop/vidloop/constant"
	"github.com/vidloop/vidloop/filesystem"
)

// EnvConfigPath is the environment variable used to override the default configuration directory.
const EnvConfigPath = "VIDLOOP_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory.
// The path can be overridden with the VIDLOOP_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the application's cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// State resolves the file holding the persisted clip reference.
func State() string {
	return filepath.Join(Config(), "state.json")
}

// Videos resolves the default directory the clip picker opens in.
// It falls back to the home directory when no Videos/Movies folder exists.
func Videos() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	for _, name := range []string{"Videos", "Movies"} {
		dir := filepath.Join(home, name)
		if ok, _ := filesystem.API().DirExists(dir); ok {
			return dir
		}
	}

	return home
}

// Temp resolves a volatile directory for transient artifacts such as IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
