package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/bkovaluk/lambdapack/internal/paths"
)

// Timestamp stamped on every archive entry.
//
// Zip cannot represent times before the DOS epoch, so entries are pinned to
// it. A fixed timestamp makes reruns over unchanged content byte-identical
// regardless of when dependencies were installed.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Serializes a staging directory into a compressed zip archive.
//
// The staging tree is walked in stable lexicographic order and each entry is
// written with a slash-separated path relative to the staging root. Absolute
// paths and parent-escaping paths are rejected; both would break the Lambda
// loader's extraction. Executable permission bits are preserved. An existing
// archive at outputPath is overwritten. Any failure mid-write removes the
// partially written archive rather than leaving a corrupt artifact.
//
// Returns the digest of the finished archive.
func WriteZip(stagingDir, outputPath string) (digest.Digest, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	digester := digest.Canonical.Digester()
	zw := zip.NewWriter(io.MultiWriter(f, digester.Hash()))

	if err := writeEntries(zw, stagingDir); err != nil {
		zw.Close()
		f.Close()
		discard(outputPath)
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		discard(outputPath)
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		discard(outputPath)
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return digester.Digest(), nil
}

// Walks the staging tree and writes each entry into the zip writer.
func writeEntries(zw *zip.Writer, stagingDir string) error {
	return filepath.WalkDir(stagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if !entryWithinRoot(rel) {
			return fmt.Errorf("entry %q escapes the staging root", rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return writeEntry(zw, path, filepath.ToSlash(rel), info)
	})
}

// Writes a single file or directory entry.
//
// Directory entries carry a trailing slash so that empty directories
// survive the round trip.
func writeEntry(zw *zip.Writer, path, name string, info os.FileInfo) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: archiveEpoch,
	}

	if info.IsDir() {
		header.Name += "/"
		header.Method = zip.Store
		header.SetMode(info.Mode().Perm() | os.ModeDir)
		_, err := zw.CreateHeader(header)
		return err
	}

	header.SetMode(info.Mode().Perm())

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Reports whether a cleaned relative path stays inside the archive root.
func entryWithinRoot(rel string) bool {
	if filepath.IsAbs(rel) {
		return false
	}
	for _, component := range strings.Split(filepath.Clean(rel), string(os.PathSeparator)) {
		if component == ".." {
			return false
		}
	}
	return true
}

// Removes a partially written archive, logging rather than failing when the
// cleanup itself goes wrong.
func discard(outputPath string) {
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove partial archive", "path", outputPath, "error", err)
	}
}

// Writes a sha256sum-style sidecar file recording the archive digest.
func WriteChecksum(archivePath string, dgst digest.Digest) error {
	line := fmt.Sprintf("%s  %s\n", dgst.Encoded(), filepath.Base(archivePath))
	if err := os.WriteFile(archivePath+".sha256", []byte(line), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: checksum: %w", ErrWrite, err)
	}
	return nil
}
