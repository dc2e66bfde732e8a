package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file system paths used by the
// application. Relative directories from PathsConfig are resolved against the
// base directory (the executable directory unless overridden).
type Paths struct {
	BaseDir    string
	ExportsDir string
	LogsDir    string
	WebDir     string
}

// ResolvePaths builds Paths from the configuration. When no base directory is
// configured the executable's directory is used, so the application behaves the
// same regardless of the working directory it was launched from.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}

	return &Paths{
		BaseDir:    base,
		ExportsDir: resolve(base, cfg.ExportsDir, "exports"),
		LogsDir:    resolve(base, cfg.LogsDir, "logs"),
		WebDir:     resolve(base, cfg.WebDir, "web"),
	}, nil
}

func resolve(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExportPath joins a validated filename onto the exports directory
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}
