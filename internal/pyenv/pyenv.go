package pyenv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"

	"github.com/bkovaluk/lambdapack/internal/paths"
)

// An isolated Python environment rooted at a fixed directory.
//
// The environment holds its own interpreter and installed packages,
// independent of the host's global installation.
type Env struct {
	root   string // Root directory of the virtualenv.
	layout layout // Platform-specific executable layout.
}

// Ensures the virtualenv for a function root exists and returns a handle.
//
// The environment is created at <baseDir>/venv if absent. An existing
// environment is returned unchanged; the base interpreter is never
// reinstalled. Creation failure is fatal to the packaging run.
func Ensure(ctx context.Context, baseDir string) (*Env, error) {
	env := &Env{
		root:   paths.Venv(baseDir),
		layout: layoutFor(goruntime.GOOS),
	}

	if _, err := os.Stat(env.root); err == nil {
		slog.Debug("reusing existing virtualenv", "path", env.root)
		return env, nil
	}

	python, err := exec.LookPath(basePython())
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrCreate, basePython())
	}

	slog.Info("creating virtualenv", "path", env.root)

	cmd := exec.CommandContext(ctx, python, "-m", "venv", env.root)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrCreate, err, strings.TrimSpace(string(out)))
	}

	return env, nil
}

// Returns the root directory of the environment.
func (e *Env) Root() string {
	return e.root
}

// Returns the path to the environment's interpreter binary.
//
// The location differs structurally between POSIX and Windows virtualenv
// layouts; resolution is delegated to the platform layout selected when
// the handle was created.
func (e *Env) Python() string {
	return e.layout.python(e.root)
}

// Name of the interpreter used to create environments.
func basePython() string {
	if goruntime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}
