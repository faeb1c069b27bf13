package installer

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildContextRef(t *testing.T) {
	tests := []struct {
		name  string
		build BuildContext
		want  string
	}{
		{
			name:  "default image",
			build: BuildContext{PythonVersion: "3.12"},
			want:  "public.ecr.aws/lambda/python:3.12",
		},
		{
			name:  "custom image",
			build: BuildContext{Image: "registry.example.com/python", PythonVersion: "3.8"},
			want:  "registry.example.com/python:3.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build.Ref(); got != tt.want {
				t.Errorf("Ref() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewContainerDefaults(t *testing.T) {
	c := NewContainer(BuildContext{PythonVersion: "3.12"}, "myfn")

	if c.build.Platform == "" {
		t.Error("platform default not applied")
	}
	if c.build.Address == "" {
		t.Error("address default not applied")
	}
	if c.build.Namespace != "lambdapack" {
		t.Errorf("namespace = %q, want lambdapack", c.build.Namespace)
	}
}

func TestContainerID(t *testing.T) {
	c := NewContainer(BuildContext{PythonVersion: "3.12", Platform: "linux/arm64"}, "myfn")

	want := "lambdapack-myfn-linux-arm64-install"
	if got := c.containerID(); got != want {
		t.Errorf("containerID() = %q, want %q", got, want)
	}
}

func TestExtractTarStripsPrefix(t *testing.T) {
	stream := tarStream(t, map[string]string{
		"package/requests/__init__.py": "x = 1\n",
		"package/six.py":               "# six\n",
	})

	dest := t.TempDir()
	if err := extractTar(stream, dest, "package"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "requests", "__init__.py"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(got) != "x = 1\n" {
		t.Errorf("content = %q", got)
	}

	if _, err := os.Stat(filepath.Join(dest, "six.py")); err != nil {
		t.Errorf("top-level module missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "package")); !os.IsNotExist(err) {
		t.Error("prefix directory leaked into target")
	}
}

func TestExtractTarRejectsEscapingEntries(t *testing.T) {
	stream := tarStream(t, map[string]string{
		"package/../../escape.py": "bad\n",
	})

	dest := t.TempDir()
	if err := extractTar(stream, dest, "package"); err == nil {
		t.Fatal("expected error for escaping entry")
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape.py")); !os.IsNotExist(err) {
		t.Error("escaping entry was written outside the target")
	}
}

func TestWriteFileToTar(t *testing.T) {
	src := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(src, []byte("requests==2.31.0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeFileToTar(tw, src, "requirements.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()

	tr := tar.NewReader(&buf)
	header, err := tr.Next()
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if header.Name != "requirements.txt" {
		t.Errorf("entry name = %q", header.Name)
	}

	content, _ := io.ReadAll(tr)
	if string(content) != "requests==2.31.0\n" {
		t.Errorf("content = %q", content)
	}
}

func tarStream(t *testing.T, files map[string]string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		header := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	tw.Close()
	return &buf
}
