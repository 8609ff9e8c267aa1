package cfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrboxik/autostarter/internal/sysenv"
)

// AppName is the user-facing name of the program.
const AppName = "AutoStarter"

// Version is the current version of the binary. Set at compile time using ldflags.
var Version = "development"

// DataDir returns the per-user directory holding the item list.
// On Windows this is %APPDATA%\AutoStarter; when APPDATA is unset the
// directory falls back to ~/.AutoStarter.
func DataDir(env sysenv.Env, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if appData := env.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home dir: %w", err)
	}
	return filepath.Join(homeDir, "."+AppName), nil
}

// EnsureDir creates dir if it does not exist and checks that it is a directory.
func EnsureDir(dir string) error {
	stat, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("stat dir: %w", err)
	case !stat.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
