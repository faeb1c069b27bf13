package exclude

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bkovaluk/lambdapack/internal/manifest"
)

// A set of package names pre-provided by the hosting runtime.
//
// Names are stored canonically so that matching is case-insensitive and
// spelling-insensitive. The set is read-only after construction; each
// packaging run receives its own copy rather than sharing process-wide
// state.
type Set struct {
	names map[string]struct{}
}

// Package names the AWS Lambda Python runtime provides natively.
var Defaults = []string{"boto3", "botocore"}

// Builds an exclusion set from a list of package names.
func New(names ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s.names[manifest.Normalize(name)] = struct{}{}
		}
	}
	return s
}

// Reports whether a package name belongs to the set.
func (s *Set) Contains(name string) bool {
	_, ok := s.names[manifest.Normalize(name)]
	return ok
}

// Returns the canonical names in the set, unordered.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names
}

// Removes excluded packages from an installation target, in place.
//
// Matching is by top-level entry only: a directory is removed when its name
// matches an excluded package, and a file or metadata directory (e.g.,
// "boto3-1.34.0.dist-info") is removed when its name before the first dash
// matches. Transitive dependencies of an excluded package are deliberately
// left alone; removing more than the exact excluded names risks breaking
// packages the runtime does not provide. Absence of an excluded package is
// not an error.
func (s *Set) Apply(targetDir string) error {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read installation target: %w", err)
	}

	for _, entry := range entries {
		if !s.matches(entry.Name(), entry.IsDir()) {
			continue
		}

		path := filepath.Join(targetDir, entry.Name())
		slog.Debug("removing runtime-provided package", "entry", entry.Name())

		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// Reports whether a top-level entry matches the set.
//
// Directories match by exact name, or by the name before the first dash
// when they carry a ".dist-info" or ".egg-info" metadata suffix (e.g.,
// "boto3-1.34.0.dist-info"). Plain files match by the name before the
// first dash. A package like "boto3-stubs" is an ordinary directory and
// is never matched by the "boto3" exclusion.
func (s *Set) matches(entryName string, isDir bool) bool {
	if s.Contains(entryName) {
		return true
	}

	base, _, cut := strings.Cut(entryName, "-")
	if !cut {
		return false
	}

	if isDir {
		if !strings.HasSuffix(entryName, ".dist-info") && !strings.HasSuffix(entryName, ".egg-info") {
			return false
		}
	}

	return s.Contains(base)
}
