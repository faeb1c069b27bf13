package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"requests", "requests"},
		{"Django", "django"},
		{"typing_extensions", "typing-extensions"},
		{"zope.interface", "zope-interface"},
		{"  boto3  ", "boto3"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Requirement
		ok   bool
	}{
		{
			name: "pinned version",
			line: "requests==2.31.0",
			want: Requirement{Name: "requests", Canonical: "requests", Constraint: "==2.31.0"},
			ok:   true,
		},
		{
			name: "bare name",
			line: "boto3",
			want: Requirement{Name: "boto3", Canonical: "boto3"},
			ok:   true,
		},
		{
			name: "range constraint with spaces",
			line: "urllib3 >=1.26, <3",
			want: Requirement{Name: "urllib3", Canonical: "urllib3", Constraint: ">=1.26, <3"},
			ok:   true,
		},
		{
			name: "extras",
			line: "requests[security]==2.31.0",
			want: Requirement{Name: "requests", Canonical: "requests", Constraint: "[security]==2.31.0"},
			ok:   true,
		},
		{
			name: "environment marker stripped",
			line: `colorama==0.4.6; sys_platform == "win32"`,
			want: Requirement{Name: "colorama", Canonical: "colorama", Constraint: "==0.4.6"},
			ok:   true,
		},
		{
			name: "trailing comment stripped",
			line: "six==1.16.0  # transitively pinned",
			want: Requirement{Name: "six", Canonical: "six", Constraint: "==1.16.0"},
			ok:   true,
		},
		{name: "blank"},
		{name: "comment", line: "# a comment"},
		{name: "option line", line: "-r other.txt"},
		{name: "url requirement", line: "https://example.com/pkg.whl"},
		{name: "vcs requirement", line: "git+https://example.com/repo.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("requirement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOrderAndLastWins(t *testing.T) {
	path := writeManifest(t, `
# production deps
requests==2.30.0
boto3==1.34.0
typing_extensions>=4.0

requests==2.31.0
`)

	f, err := Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Requirement{
		{Name: "requests", Canonical: "requests", Constraint: "==2.31.0"},
		{Name: "boto3", Canonical: "boto3", Constraint: "==1.34.0"},
		{Name: "typing_extensions", Canonical: "typing-extensions", Constraint: ">=4.0"},
	}
	if diff := cmp.Diff(want, f.Requirements); diff != "" {
		t.Errorf("requirements mismatch (-want +got):\n%s", diff)
	}

	wantNames := []string{"requests", "boto3", "typing-extensions"}
	if diff := cmp.Diff(wantNames, f.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "requirements.txt")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
