package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bkovaluk/lambdapack/internal/installer"
	"github.com/bkovaluk/lambdapack/internal/pyenv"
)

// Represents the run command and its arguments.
type RunCmd struct {
	BaseDir      string   `arg:"" type:"existingdir" help:"Function root directory."`
	Script       string   `arg:"" help:"Python script to run, relative to the base directory."`
	Args         []string `arg:"" optional:"" passthrough:"" help:"Arguments passed through to the script."`
	Requirements string   `short:"r" placeholder:"FILE" help:"Requirements manifest relative to the base directory (default requirements.txt)."`
}

func (cmd *RunCmd) Run(ctx context.Context) error {

	env, err := pyenv.Ensure(ctx, cmd.BaseDir)
	if err != nil {
		return err
	}

	manifest := filepath.Join(cmd.BaseDir, firstOf(cmd.Requirements, "requirements.txt"))
	if _, err := os.Stat(manifest); err == nil {
		local := installer.NewLocal(env)
		if err := local.InstallIntoEnv(ctx, manifest); err != nil {
			return err
		}
	} else {
		slog.Warn("no requirements manifest, skipping dependency install", "path", manifest)
	}

	script := filepath.Join(cmd.BaseDir, cmd.Script)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("script not found: %s", script)
	}

	slog.Info("running script", "script", script)

	args := append([]string{script}, cmd.Args...)
	proc := exec.CommandContext(ctx, env.Python(), args...)
	proc.Dir = cmd.BaseDir
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("script exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run script: %w", err)
	}

	return nil
}
