package installer

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bkovaluk/lambdapack/internal/paths"
	"github.com/bkovaluk/lambdapack/internal/runtime"
)

const (

	// Scratch directory used inside the install container.
	containerWorkdir = "/tmp/lambdapack"

	// Default image repository for Lambda-compatible Python images.
	DefaultImage = "public.ecr.aws/lambda/python"
)

// Describes the containerized build target.
//
// The build context has no identity beyond a single installer invocation;
// it selects the image, interpreter version, and OCI platform so that
// natively compiled dependencies match the deployment runtime rather than
// the host.
type BuildContext struct {
	Image         string // Image repository (default [DefaultImage]).
	PythonVersion string // Interpreter version tag (e.g., "3.12").
	Platform      string // OCI platform (e.g., "linux/amd64").
	Address       string // Containerd socket address.
	Namespace     string // Containerd namespace.
}

// Returns the full image reference for the build context.
func (b BuildContext) Ref() string {
	image := b.Image
	if image == "" {
		image = DefaultImage
	}
	return image + ":" + b.PythonVersion
}

// Installs dependencies inside a container matching the deployment runtime.
type Container struct {
	build BuildContext
	name  string // Function name, used as a prefix for container IDs.
}

// Creates a containerized installer for the given build context.
func NewContainer(build BuildContext, name string) *Container {
	if build.Platform == "" {
		build.Platform = runtime.DefaultPlatform()
	}
	if build.Address == "" {
		build.Address = paths.ContainerdSocket()
	}
	if build.Namespace == "" {
		build.Namespace = "lambdapack"
	}
	return &Container{build: build, name: name}
}

// Verifies that a container runtime is reachable.
//
// Called by the pipeline before any directory under the function root is
// touched, so that a missing runtime aborts the run without side effects.
func (c *Container) Check() error {
	rt, err := runtime.New(c.build.Address, c.build.Namespace)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContainerUnavailable, err)
	}
	return rt.Close()
}

// Installs the manifest's packages into targetDir via an install container.
//
// The Lambda base image for the requested interpreter version is pulled for
// the target platform, the manifest is streamed into a parked container,
// pip runs inside it, and the installed tree is streamed back out into
// targetDir. A missing container runtime surfaces as
// [ErrContainerUnavailable] before anything else happens; pip failures
// surface as [ErrInstall] with the captured output attached.
func (c *Container) Install(ctx context.Context, manifestPath, targetDir string) error {
	rt, err := runtime.New(c.build.Address, c.build.Namespace)
	if err != nil {
		if errors.Is(err, runtime.ErrUnavailable) {
			return fmt.Errorf("%w: %w", ErrContainerUnavailable, err)
		}
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	defer rt.Close()

	slog.Info("installing dependencies in container",
		"image", c.build.Ref(),
		"platform", c.build.Platform,
	)

	ctr, err := rt.StartContainer(ctx, c.build.Ref(), c.containerID(), c.build.Platform)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	defer ctr.Destroy(ctx)

	if err := c.run(ctx, ctr, manifestPath, targetDir); err != nil {
		return err
	}

	return nil
}

// Executes the install inside a started container.
func (c *Container) run(ctx context.Context, ctr *runtime.Container, manifestPath, targetDir string) error {
	if err := ctr.MkdirAll(ctx, containerWorkdir); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}

	manifestName := filepath.Base(manifestPath)
	if err := copyManifestTo(ctx, ctr, manifestPath, manifestName); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}

	result, err := ctr.Exec(ctx, nil, containerWorkdir,
		"pip", "install",
		"-r", path.Join(containerWorkdir, manifestName),
		"-t", path.Join(containerWorkdir, paths.PackageDirName),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: pip exited with code %d: %s", ErrInstall, result.ExitCode, result.Stderr)
	}

	if err := copyPackagesFrom(ctx, ctr, targetDir); err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}

	return nil
}

// Returns a unique container ID for this function and platform.
func (c *Container) containerID() string {
	slug := strings.ReplaceAll(c.build.Platform, "/", "-")
	return fmt.Sprintf("lambdapack-%s-%s-install", c.name, slug)
}

// Streams the manifest file into the container's scratch directory.
func copyManifestTo(ctx context.Context, ctr *runtime.Container, manifestPath, name string) error {
	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		err := writeFileToTar(tw, manifestPath, name)
		tw.Close()
		pw.CloseWithError(err)
	}()

	return ctr.CopyTo(ctx, pr, containerWorkdir)
}

// Streams the installed package tree out of the container into targetDir.
//
// The container emits a tar stream rooted at the package directory name;
// extraction strips that prefix so the host target holds the flat layout
// directly.
func copyPackagesFrom(ctx context.Context, ctr *runtime.Container, targetDir string) error {
	pr, pw := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		errc <- ctr.CopyFrom(ctx, pw, path.Join(containerWorkdir, paths.PackageDirName))
		pw.Close()
	}()

	if err := extractTar(pr, targetDir, paths.PackageDirName); err != nil {
		return err
	}

	return <-errc
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Extracts a tar stream into destDir, stripping a leading path prefix.
//
// Entries that escape destDir are rejected. Entry types other than regular
// files and directories (device nodes, links) do not occur in a pip install
// tree and are skipped.
func extractTar(r io.Reader, destDir, stripPrefix string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := path.Clean(header.Name)
		name = strings.TrimPrefix(name, stripPrefix)
		name = strings.TrimPrefix(name, "/")
		if name == "" || name == "." {
			continue
		}

		dest := filepath.Join(destDir, filepath.FromSlash(name))
		if !strings.HasPrefix(dest, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("tar entry %q escapes target directory", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(header.Mode).Perm()|0700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
				return err
			}
			f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			slog.Debug("skipping tar entry", "name", header.Name, "type", header.Typeflag)
		}
	}
}
