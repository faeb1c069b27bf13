package pyenv

import (
	"path/filepath"
	"testing"
)

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", filepath.Join("env", "bin", "python")},
		{"darwin", filepath.Join("env", "bin", "python")},
		{"windows", filepath.Join("env", "Scripts", "python.exe")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := layoutFor(tt.goos).python("env")
			if got != tt.want {
				t.Errorf("python path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPythonUsesVenvRoot(t *testing.T) {
	env := &Env{root: filepath.Join("base", "venv"), layout: posixLayout{}}
	want := filepath.Join("base", "venv", "bin", "python")
	if got := env.Python(); got != want {
		t.Errorf("Python() = %q, want %q", got, want)
	}
	if env.Root() != filepath.Join("base", "venv") {
		t.Errorf("Root() = %q", env.Root())
	}
}
