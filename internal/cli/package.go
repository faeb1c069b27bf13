package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bkovaluk/lambdapack/internal/exclude"
	"github.com/bkovaluk/lambdapack/internal/installer"
	"github.com/bkovaluk/lambdapack/internal/pipeline"
	"github.com/bkovaluk/lambdapack/internal/projectcfg"
)

const defaultPythonVersion = "3.8"

// Represents the package command and its arguments.
type PackageCmd struct {
	BaseDir       string   `arg:"" type:"existingdir" help:"Function root directory."`
	UseContainer  bool     `short:"c" help:"Install dependencies inside a Lambda-compatible container."`
	PythonVersion string   `short:"p" placeholder:"VERSION" help:"Python runtime version (default ${default_python})."`
	Requirements  string   `short:"r" placeholder:"FILE" help:"Requirements manifest relative to the base directory (default requirements.txt)."`
	Exclude       []string `short:"e" placeholder:"NAME" help:"Runtime-provided packages to strip (default boto3,botocore)."`
	Platform      string   `placeholder:"OS/ARCH" help:"Target platform for containerized installs (default linux/${arch})."`
	Image         string   `placeholder:"REF" help:"Base image repository for containerized installs."`
	Containerd    string   `placeholder:"SOCKET" help:"Containerd socket address."`
	KeepTarget    bool     `help:"Keep the intermediate package directory after archiving."`
}

func (cmd *PackageCmd) Run(ctx context.Context) error {

	cfg, err := projectcfg.Load(cmd.BaseDir)
	if err != nil {
		return fmt.Errorf("load project config: %w", err)
	}

	opts := cmd.options(cfg)

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	slog.Info("function packaged", "archive", result.ArchivePath, "digest", result.Digest, "dependencies", result.Installed)
	return nil
}

// Resolves effective options: flags win over lambdapack.toml, which wins
// over built-in defaults.
func (cmd *PackageCmd) options(cfg *projectcfg.Config) pipeline.Options {

	opts := pipeline.Options{
		BaseDir:      cmd.BaseDir,
		UseContainer: cmd.UseContainer,
		KeepTarget:   cmd.KeepTarget,
	}

	opts.Manifest = firstOf(cmd.Requirements, cfg.Requirements, "requirements.txt")

	opts.Build = installer.BuildContext{
		Image:         firstOf(cmd.Image, cfg.Container.Image),
		PythonVersion: firstOf(cmd.PythonVersion, cfg.PythonVersion, defaultPythonVersion),
		Platform:      firstOf(cmd.Platform, cfg.Container.Platform),
		Address:       cmd.Containerd,
	}

	names := cmd.Exclude
	if len(names) == 0 {
		names = cfg.Exclude
	}
	if len(names) == 0 {
		names = exclude.Defaults
	}
	opts.Exclude = exclude.New(names...)

	return opts
}

// Returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
