package pyenv

import "path/filepath"

// Resolves executable locations within a virtualenv.
//
// Virtualenvs place executables under "bin/" on POSIX systems and under
// "Scripts\" with an .exe suffix on Windows. The layout is selected once
// from the host platform tag rather than branched on at each call site.
type layout interface {
	python(root string) string
}

type posixLayout struct{}

func (posixLayout) python(root string) string {
	return filepath.Join(root, "bin", "python")
}

type windowsLayout struct{}

func (windowsLayout) python(root string) string {
	return filepath.Join(root, "Scripts", "python.exe")
}

// Returns the executable layout for a platform tag (e.g., "linux", "windows").
func layoutFor(goos string) layout {
	if goos == "windows" {
		return windowsLayout{}
	}
	return posixLayout{}
}
