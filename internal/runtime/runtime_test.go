package runtime

import (
	"strings"
	"testing"
)

func TestDefaultPlatform(t *testing.T) {
	p := DefaultPlatform()
	if !strings.HasPrefix(p, "linux/") {
		t.Fatalf("DefaultPlatform = %q, want linux/<arch>", p)
	}
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("DefaultPlatform = %q, want linux/<arch>", p)
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := parsePlatform("linux/arm64")
	if err != nil {
		t.Fatalf("parsePlatform: %v", err)
	}
	if p.OS != "linux" || p.Architecture != "arm64" {
		t.Fatalf("parsePlatform = %s/%s, want linux/arm64", p.OS, p.Architecture)
	}

	if _, err := parsePlatform("not a platform"); err == nil {
		t.Fatal("parsePlatform accepted malformed input")
	}
}
