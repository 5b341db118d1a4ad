package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Loader locates and reads the configuration file. Lookup order: an
// explicit override path, a .picbinrc in the working directory on dev
// builds, then the XDG config directory.
type Loader struct {
	version      string
	overridePath string
}

// NewLoader creates a Loader. version selects dev-mode lookup; overridePath
// pins the config file when non-empty.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{version: version, overridePath: overridePath}
}

// Load reads the first config file found, or returns defaults when none
// exists. A .env in the working directory is loaded first so PICBIN_*
// fallbacks are in place before commands consult the environment.
func (l *Loader) Load() (*Config, error) {
	_ = godotenv.Load()

	path := l.Path()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Path returns the config file that Load would read, or "" when none of
// the candidate locations exist.
func (l *Loader) Path() string {
	if l.overridePath != "" {
		if _, err := os.Stat(l.overridePath); err == nil {
			return l.overridePath
		}
	}

	if l.version == "dev" {
		wd, _ := os.Getwd()
		local := filepath.Join(wd, ".picbinrc")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}

	home, _ := os.UserHomeDir()
	for _, name := range []string{"config.rc", "picbin.rc"} {
		candidate := filepath.Join(home, ".config", "picbin", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
