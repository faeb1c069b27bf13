package manifest

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Matches the package name at the start of a requirement line.
var nameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// A single named requirement from a manifest file.
type Requirement struct {
	Name       string // Name as written in the manifest.
	Canonical  string // Normalized name (lowercase, underscores folded to dashes).
	Constraint string // Raw version constraint (e.g., "==2.31.0"), may be empty.
}

// A parsed dependency manifest.
//
// Requirements appear in declaration order. Duplicate names are last-wins:
// the entry keeps its first position but carries the constraint of the last
// occurrence. The manifest file itself is still handed to the installer
// verbatim; this parsed form exists for reporting and validation.
type File struct {
	Path         string        // Path the manifest was read from.
	Requirements []Requirement // Named requirements in declaration order.
}

// Normalizes a package name for comparison.
//
// Package indexes treat names case-insensitively and fold underscores,
// dashes, and dots together; lowercasing and mapping "_" and "." to "-"
// is enough to compare two spellings of the same package.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}

// Reads and parses a requirements manifest.
//
// Blank lines, comments, installer option lines (leading "-"), and URL or
// VCS requirements carry no package name and are skipped. Environment
// markers and trailing comments are stripped from the constraint.
func Parse(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	file := &File{Path: path}
	index := make(map[string]int)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		req, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}

		if i, seen := index[req.Canonical]; seen {
			file.Requirements[i].Constraint = req.Constraint
			continue
		}

		index[req.Canonical] = len(file.Requirements)
		file.Requirements = append(file.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return file, nil
}

// Parses a single manifest line into a requirement.
//
// Returns false for lines that carry no named requirement.
func parseLine(line string) (Requirement, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == '-' {
		return Requirement{}, false
	}
	if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
		return Requirement{}, false
	}

	m := nameRE.FindStringSubmatch(line)
	if len(m) < 2 {
		return Requirement{}, false
	}

	name := m[1]
	rest := strings.TrimSpace(line[len(name):])

	// Strip environment markers and trailing comments from the constraint.
	if i := strings.IndexByte(rest, ';'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}

	return Requirement{
		Name:       name,
		Canonical:  Normalize(name),
		Constraint: strings.TrimSpace(rest),
	}, true
}

// Returns the canonical names of all requirements, in declaration order.
func (f *File) Names() []string {
	names := make([]string, len(f.Requirements))
	for i, req := range f.Requirements {
		names[i] = req.Canonical
	}
	return names
}
