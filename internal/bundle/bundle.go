package bundle

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bkovaluk/lambdapack/internal/paths"
)

// Merges function source files and filtered dependencies into a staging
// directory mirroring the final archive layout.
//
// Source entries are copied first, excluding the names in skip (the
// virtualenv, the installation target, and the release directory, to avoid
// recursive self-inclusion). The filtered installation target is then merged
// at the staging root, so dependency modules are importable at the same
// level as the function's entry file. The flat layout is required by the
// Lambda loader.
//
// A missing packageDir is treated as an empty dependency set.
func Assemble(sourceDir, packageDir, stagingDir string, skip []string) error {
	skipSet := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipSet[name] = struct{}{}
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("%w: read source: %w", ErrCopy, err)
	}

	for _, entry := range entries {
		if _, skipped := skipSet[entry.Name()]; skipped {
			slog.Debug("skipping pipeline directory", "entry", entry.Name())
			continue
		}
		src := filepath.Join(sourceDir, entry.Name())
		dst := filepath.Join(stagingDir, entry.Name())
		if err := mergeEntry(src, dst); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCopy, entry.Name(), err)
		}
	}

	if _, err := os.Stat(packageDir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: stat installation target: %w", ErrCopy, err)
	}

	if err := mergeTree(packageDir, stagingDir); err != nil {
		return fmt.Errorf("%w: merge dependencies: %w", ErrCopy, err)
	}

	return nil
}

// Recursively merges the contents of src into dst.
//
// Files overwrite pre-existing destination files; directories are recursed
// into rather than replaced. Overwriting an existing file is logged as a
// warning first, so a collision between function source and a dependency
// module is never silent.
func mergeTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := mergeEntry(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// Merges a single file or directory into the destination path.
//
// Symbolic links are followed; a broken link is skipped with a warning
// rather than aborting the run.
func mergeEntry(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if isBrokenSymlink(src) {
			slog.Warn("skipping broken symlink", "path", src)
			return nil
		}
		return err
	}

	if info.IsDir() {
		if err := os.MkdirAll(dst, paths.DefaultDirMode); err != nil {
			return err
		}
		return mergeTree(src, dst)
	}

	if _, err := os.Lstat(dst); err == nil {
		slog.Warn("overwriting existing bundle entry", "path", dst)
	}

	return copyFile(src, dst, info)
}

// Copies a regular file, preserving its permission bits and modification time.
func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// An overwritten destination keeps its old mode from OpenFile; align it.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Reports whether path is a symlink whose target does not resolve.
func isBrokenSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
