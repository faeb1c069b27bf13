package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/bkovaluk/lambdapack/internal/archive"
	"github.com/bkovaluk/lambdapack/internal/bundle"
	"github.com/bkovaluk/lambdapack/internal/exclude"
	"github.com/bkovaluk/lambdapack/internal/installer"
	"github.com/bkovaluk/lambdapack/internal/manifest"
	"github.com/bkovaluk/lambdapack/internal/paths"
	"github.com/bkovaluk/lambdapack/internal/pyenv"
)

// Controls a packaging run.
type Options struct {
	BaseDir       string                 // Function root directory.
	Manifest      string                 // Manifest filename or path (default "requirements.txt").
	UseContainer  bool                   // Install inside a Lambda-compatible container.
	Build         installer.BuildContext // Containerized build settings.
	Exclude       *exclude.Set           // Runtime-provided packages to strip (defaults to exclude.Defaults).
	Installer     installer.Installer    // Overrides installer construction when non-nil.
	KeepTarget    bool                   // Keep the installation target after archiving.
}

// Returned after a successful packaging run.
type Result struct {
	ArchivePath string        // Path to the release archive.
	Digest      digest.Digest // Digest of the release archive.
	Installed   int           // Named requirements from the manifest.
}

// Executes the packaging pipeline for a function.
//
// Stages run strictly sequentially: dependency installation (local or
// containerized), exclusion of runtime-provided packages, bundle assembly,
// and archiving. Each stage consumes the previous stage's output directory;
// the first failure aborts the run. Only the release archive persists
// beyond the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	baseDir, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(baseDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("base directory %s is not a directory", opts.BaseDir)
	}

	name := filepath.Base(baseDir)
	excluded := opts.Exclude
	if excluded == nil {
		excluded = exclude.New(exclude.Defaults...)
	}

	slog.Info("packaging function",
		"function", name,
		"container", opts.UseContainer,
		"excluded", excluded.Names(),
	)

	packageDir := paths.Package(baseDir)

	if err := install(ctx, opts, baseDir, name, packageDir); err != nil {
		return nil, err
	}

	if err := excluded.Apply(packageDir); err != nil {
		return nil, fmt.Errorf("exclusion filter: %w", err)
	}

	staging, err := os.MkdirTemp("", "lambdapack-stage-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	skip := []string{paths.VenvDirName, paths.PackageDirName, paths.ReleaseDirName}
	if err := bundle.Assemble(baseDir, packageDir, staging, skip); err != nil {
		return nil, fmt.Errorf("assemble bundle: %w", err)
	}

	archivePath := filepath.Join(paths.Release(baseDir), name+".zip")
	dgst, err := archive.WriteZip(staging, archivePath)
	if err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}
	if err := archive.WriteChecksum(archivePath, dgst); err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}

	if !opts.KeepTarget {
		if err := os.RemoveAll(packageDir); err != nil {
			slog.Warn("failed to clean installation target", "path", packageDir, "error", err)
		}
	}

	result := &Result{
		ArchivePath: archivePath,
		Digest:      dgst,
		Installed:   countRequirements(filepath.Join(baseDir, manifestName(opts))),
	}

	slog.Info("packaged function",
		"archive", result.ArchivePath,
		"digest", result.Digest,
	)

	return result, nil
}

// Runs the installation stage, producing the installation target.
//
// A missing manifest skips installation with a warning; the function is
// packaged without third-party dependencies. The installation target is
// destroyed and recreated so that stale packages from a previous run never
// leak into the bundle.
func install(ctx context.Context, opts Options, baseDir, name, packageDir string) error {
	manifestPath := filepath.Join(baseDir, manifestName(opts))

	if _, err := os.Stat(manifestPath); err != nil {
		slog.Warn("manifest not found, skipping dependency installation", "path", manifestPath)
		return os.RemoveAll(packageDir)
	}

	parsed, err := manifest.Parse(manifestPath)
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	slog.Debug("parsed manifest", "requirements", len(parsed.Requirements))

	inst, err := buildInstaller(ctx, opts, baseDir, name)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(packageDir); err != nil {
		return fmt.Errorf("reset installation target: %w", err)
	}

	if err := inst.Install(ctx, manifestPath, packageDir); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}

	return nil
}

// Constructs the installer for the requested mode.
//
// Container mode verifies runtime availability before anything under the
// function root is modified. Local mode ensures the project virtualenv
// first; environment creation failure is fatal to the run.
func buildInstaller(ctx context.Context, opts Options, baseDir, name string) (installer.Installer, error) {
	if opts.Installer != nil {
		return opts.Installer, nil
	}

	if opts.UseContainer {
		c := installer.NewContainer(opts.Build, name)
		if err := c.Check(); err != nil {
			return nil, err
		}
		return c, nil
	}

	env, err := pyenv.Ensure(ctx, baseDir)
	if err != nil {
		return nil, fmt.Errorf("ensure environment: %w", err)
	}
	return installer.NewLocal(env), nil
}

// Returns the configured manifest filename, defaulting to requirements.txt.
func manifestName(opts Options) string {
	if opts.Manifest != "" {
		return opts.Manifest
	}
	return "requirements.txt"
}

// Returns the number of named requirements in a manifest, or zero when the
// manifest is absent or unreadable. Reporting only; never fails the run.
func countRequirements(manifestPath string) int {
	parsed, err := manifest.Parse(manifestPath)
	if err != nil {
		return 0
	}
	return len(parsed.Requirements)
}
