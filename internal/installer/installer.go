package installer

import "context"

// Installs resolved packages from a dependency manifest into a target
// directory.
//
// Implementations must produce the same flat package layout in targetDir
// regardless of how the installation ran, so downstream pipeline stages
// stay mode-agnostic.
type Installer interface {
	Install(ctx context.Context, manifestPath, targetDir string) error
}
