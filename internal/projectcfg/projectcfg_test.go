package projectcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, base, `
python-version = "3.12"
requirements  = "requirements-prod.txt"
exclude       = ["boto3", "botocore", "urllib3"]

[container]
image    = "registry.example.com/python"
platform = "linux/arm64"
`)

	cfg, err := Load(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		PythonVersion: "3.12",
		Requirements:  "requirements-prod.txt",
		Exclude:       []string{"boto3", "botocore", "urllib3"},
		Container: Container{
			Image:    "registry.example.com/python",
			Platform: "linux/arm64",
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, base, `excluded-packages = ["boto3"]`)

	if _, err := Load(base); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	base := t.TempDir()
	writeConfig(t, base, `python-version = [`)

	if _, err := Load(base); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func writeConfig(t *testing.T, baseDir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(baseDir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
