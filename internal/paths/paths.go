package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Directory holding the project virtualenv, relative to the function root.
	VenvDirName = "venv"

	// Directory receiving installed dependencies, relative to the function root.
	PackageDirName = "package"

	// Directory receiving the release archive, relative to the function root.
	ReleaseDirName = "release"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Default path to the system containerd socket.
const systemContainerdSocket = "/run/containerd/containerd.sock"

// Path to the containerd socket used for containerized builds.
//
// The system socket is preferred when it exists. Otherwise, the rootless
// socket under the XDG runtime directory is used:
//
//	Linux:   $XDG_RUNTIME_DIR/containerd/containerd.sock
func ContainerdSocket() string {
	if _, err := os.Stat(systemContainerdSocket); err == nil {
		return systemContainerdSocket
	}
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, "containerd", "containerd.sock")
	}
	return systemContainerdSocket
}

// Path to the virtualenv directory for a function root.
func Venv(baseDir string) string {
	return filepath.Join(baseDir, VenvDirName)
}

// Path to the installation target directory for a function root.
func Package(baseDir string) string {
	return filepath.Join(baseDir, PackageDirName)
}

// Path to the release directory for a function root.
func Release(baseDir string) string {
	return filepath.Join(baseDir, ReleaseDirName)
}
