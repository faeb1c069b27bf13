package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/bkovaluk/lambdapack/internal/pyenv"
)

// Installs dependencies on the host using a project virtualenv's pip.
type Local struct {
	env      *pyenv.Env
	upgraded bool // Whether pip has already been upgraded this run.
}

// Creates a local installer backed by the given environment.
func NewLocal(env *pyenv.Env) *Local {
	return &Local{env: env}
}

// Installs the manifest's packages into targetDir using pip.
//
// pip itself is upgraded once per run before the first installation; stale
// pip versions are a known source of resolution failures. A non-zero exit
// from pip is fatal, with the captured output attached to the error.
func (l *Local) Install(ctx context.Context, manifestPath, targetDir string) error {
	if err := l.upgradePip(ctx); err != nil {
		return err
	}

	slog.Info("installing dependencies locally", "manifest", manifestPath, "target", targetDir)

	if out, err := l.pip(ctx, "install", "-r", manifestPath, "-t", targetDir); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrInstall, err, out)
	}

	return nil
}

// Installs the manifest's packages into the virtualenv itself.
//
// Used by the isolated run utility, which executes scripts inside the
// environment rather than packaging a separate installation target.
func (l *Local) InstallIntoEnv(ctx context.Context, manifestPath string) error {
	if err := l.upgradePip(ctx); err != nil {
		return err
	}

	slog.Info("installing dependencies into virtualenv", "manifest", manifestPath)

	if out, err := l.pip(ctx, "install", "-r", manifestPath); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrInstall, err, out)
	}

	return nil
}

// Upgrades pip inside the virtualenv, once per run.
func (l *Local) upgradePip(ctx context.Context) error {
	if l.upgraded {
		return nil
	}

	slog.Debug("upgrading pip", "python", l.env.Python())

	if out, err := l.pip(ctx, "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrPipUpgrade, err, out)
	}

	l.upgraded = true
	return nil
}

// Runs a pip subcommand with the virtualenv's interpreter, returning the
// combined output.
func (l *Local) pip(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, l.env.Python(), append([]string{"-m", "pip"}, args...)...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
