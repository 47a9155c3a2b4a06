package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	socketName = "winstate.sock"
	pidName    = "winstate.pid"
)

// Dir returns the runtime directory used for the IPC socket and pid file.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) the xdg runtime dir, usually /run/user/<uid> (if present)
// 3) /tmp/winstate-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	if xdg.RuntimeDir != "" {
		if info, err := os.Stat(xdg.RuntimeDir); err == nil && info.IsDir() {
			return xdg.RuntimeDir, nil
		}
	}

	tmpDir := fmt.Sprintf("/tmp/winstate-runtime-%d", os.Getuid())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, socketName), nil
}

// PIDPath returns the path of the file holding the running daemon's pid.
func PIDPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, pidName), nil
}
