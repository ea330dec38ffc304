package home

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackzampolin/scanedit/internal/extract/tesseract"
)

const (
	// DefaultDirName is the default name for the scanedit home directory.
	DefaultDirName = ".scanedit"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// TesseractDirName holds generated tesseract config files.
	TesseractDirName = "tesseract"

	// TesseractConfigName is the engine mode config file passed to tesseract.
	TesseractConfigName = "scanedit.config"

	// ExportsDirName holds saved document views.
	ExportsDirName = "exports"
)

// Dir represents the scanedit home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.scanedit).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// TesseractConfigPath returns the path of the generated tesseract config file.
func (d *Dir) TesseractConfigPath() string {
	return filepath.Join(d.path, TesseractDirName, TesseractConfigName)
}

// ExportsDir returns the directory for saved document views.
func (d *Dir) ExportsDir() string {
	return filepath.Join(d.path, ExportsDirName)
}

// ExportPath returns the path for a saved view of the named image.
func (d *Dir) ExportPath(imagePath, ext string) string {
	base := filepath.Base(imagePath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(d.ExportsDir(), base+"."+ext)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{filepath.Join(d.path, TesseractDirName), d.ExportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// EnsureTesseractConfig writes the config file selecting engineMode and
// returns its path. The file is only rewritten when its contents differ.
func (d *Dir) EnsureTesseractConfig(engineMode int) (string, error) {
	path := d.TesseractConfigPath()
	want := []byte(tesseract.ConfigFileContents(engineMode))

	if have, err := os.ReadFile(path); err == nil && bytes.Equal(have, want) {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create tesseract config directory: %w", err)
	}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		return "", fmt.Errorf("failed to write tesseract config: %w", err)
	}
	return path, nil
}
