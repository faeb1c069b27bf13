package cli

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bkovaluk/lambdapack/internal/projectcfg"
)

func TestPackageOptionsPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		cmd          PackageCmd
		cfg          projectcfg.Config
		wantManifest string
		wantPython   string
		wantImage    string
		wantExclude  []string
	}{
		{
			name:         "built-in defaults",
			cmd:          PackageCmd{BaseDir: "/fn"},
			wantManifest: "requirements.txt",
			wantPython:   "3.8",
			wantExclude:  []string{"boto3", "botocore"},
		},
		{
			name: "config overrides defaults",
			cmd:  PackageCmd{BaseDir: "/fn"},
			cfg: projectcfg.Config{
				PythonVersion: "3.12",
				Requirements:  "requirements-prod.txt",
				Exclude:       []string{"boto3"},
				Container:     projectcfg.Container{Image: "registry.example.com/lambda/python"},
			},
			wantManifest: "requirements-prod.txt",
			wantPython:   "3.12",
			wantImage:    "registry.example.com/lambda/python",
			wantExclude:  []string{"boto3"},
		},
		{
			name: "flags override config",
			cmd: PackageCmd{
				BaseDir:       "/fn",
				PythonVersion: "3.11",
				Requirements:  "dev-requirements.txt",
				Exclude:       []string{"botocore"},
			},
			cfg: projectcfg.Config{
				PythonVersion: "3.12",
				Requirements:  "requirements-prod.txt",
				Exclude:       []string{"boto3"},
			},
			wantManifest: "dev-requirements.txt",
			wantPython:   "3.11",
			wantExclude:  []string{"botocore"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.cmd.options(&tt.cfg)

			if opts.Manifest != tt.wantManifest {
				t.Errorf("Manifest = %q, want %q", opts.Manifest, tt.wantManifest)
			}
			if opts.Build.PythonVersion != tt.wantPython {
				t.Errorf("PythonVersion = %q, want %q", opts.Build.PythonVersion, tt.wantPython)
			}
			if opts.Build.Image != tt.wantImage {
				t.Errorf("Image = %q, want %q", opts.Build.Image, tt.wantImage)
			}
			names := opts.Exclude.Names()
			sort.Strings(names)
			if diff := cmp.Diff(tt.wantExclude, names); diff != "" {
				t.Errorf("exclude names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFirstOf(t *testing.T) {
	if got := firstOf("", "b", "c"); got != "b" {
		t.Errorf("firstOf = %q, want %q", got, "b")
	}
	if got := firstOf(); got != "" {
		t.Errorf("firstOf() = %q, want empty", got)
	}
}
