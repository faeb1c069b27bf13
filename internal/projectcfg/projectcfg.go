package projectcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Name of the optional per-function configuration file.
const FileName = "lambdapack.toml"

// Per-function packaging configuration.
//
// Every field is optional; zero values defer to built-in defaults, and CLI
// flags override anything set here.
type Config struct {
	PythonVersion string    `toml:"python-version"`
	Requirements  string    `toml:"requirements"`
	Exclude       []string  `toml:"exclude"`
	Container     Container `toml:"container"`
}

// Containerized build settings.
type Container struct {
	Image    string `toml:"image"`
	Platform string `toml:"platform"`
}

// Loads the configuration file from a function root.
//
// A missing file is not an error; it yields an empty configuration. A file
// that exists but does not parse is an error, since silently ignoring a
// typo would change which packages end up in the bundle.
func Load(baseDir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(baseDir, FileName)
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", FileName, undecoded[0].String())
	}

	return cfg, nil
}
