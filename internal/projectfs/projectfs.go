// Package projectfs provides the file system operations used to scaffold a project.
//
// Overview:
//   - Responsibility: Create the project root and fixed layout, write and read project files
//   - Key Types: ProjectFS
//   - Concurrency Model: Single writer per run; not safe for concurrent use
//   - Error Semantics: Errors carry the project-relative path; ErrRootExists for a taken root
//   - Performance Notes: Direct os calls, no buffering
//
// Usage:
//
//	pfs := projectfs.NewProjectFS("my-api")
//	err := pfs.CreateRoot()
//	err = pfs.WriteFile("index.js", content, 0644)
package projectfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.eggybyte.com/expressgen/internal/ui"
)

// ErrRootExists is returned by CreateRoot when the project root is already present.
var ErrRootExists = errors.New("project root already exists")

// Layout is the fixed set of subdirectories every generated project gets.
var Layout = []string{"config", "controller", "lib", "utils", "queries", "routes", "middlewares", "models"}

// ProjectFS provides file system operations rooted at a project directory.
//
// Parameters:
//   - rootDir: Project root directory
//   - verbose: Whether to log file operations
//
// Concurrency:
//   - Not safe for concurrent use
type ProjectFS struct {
	rootDir string
	verbose bool
	written []string
}

// NewProjectFS creates a project file system rooted at rootDir.
func NewProjectFS(rootDir string) *ProjectFS {
	return &ProjectFS{rootDir: rootDir}
}

// SetVerbose enables or disables debug output for file operations.
func (p *ProjectFS) SetVerbose(enabled bool) {
	p.verbose = enabled
}

// RootDir returns the project root directory.
func (p *ProjectFS) RootDir() string {
	return p.rootDir
}

// Path returns the full path of a project-relative path.
func (p *ProjectFS) Path(rel string) string {
	return filepath.Join(p.rootDir, rel)
}

// CreateRoot creates the project root. It fails when the root already exists
// and never touches existing content.
//
// Returns:
//   - error: ErrRootExists or the underlying file system error
func (p *ProjectFS) CreateRoot() error {
	if _, err := os.Stat(p.rootDir); err == nil {
		return fmt.Errorf("%w: %s", ErrRootExists, p.rootDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to inspect %s: %w", p.rootDir, err)
	}

	if err := os.Mkdir(p.rootDir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrRootExists, p.rootDir)
		}
		return fmt.Errorf("failed to create project root %s: %w", p.rootDir, err)
	}
	p.debug("Created directory: %s", p.rootDir)
	return nil
}

// CreateLayout creates every directory in Layout under the root.
func (p *ProjectFS) CreateLayout() error {
	for _, dir := range Layout {
		if err := p.CreateDirectory(dir); err != nil {
			return err
		}
	}
	return nil
}

// CreateDirectory creates a directory (and parents) under the root.
func (p *ProjectFS) CreateDirectory(rel string) error {
	if err := os.MkdirAll(p.Path(rel), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", rel, err)
	}
	p.debug("Created directory: %s", rel)
	return nil
}

// WriteFile writes content to a project-relative path, creating parents.
//
// Parameters:
//   - rel: Project-relative path
//   - content: File content
//   - mode: File permissions
//
// Returns:
//   - error: Write error if any
func (p *ProjectFS) WriteFile(rel, content string, mode fs.FileMode) error {
	full := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", rel, err)
	}
	if !slices.Contains(p.written, rel) {
		p.written = append(p.written, rel)
	}
	p.debug("Written file: %s", rel)
	return nil
}

// ReadFile reads a project-relative file.
func (p *ProjectFS) ReadFile(rel string) (string, error) {
	content, err := os.ReadFile(p.Path(rel))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", rel, err)
	}
	return string(content), nil
}

// FileExists reports whether a project-relative path exists.
func (p *ProjectFS) FileExists(rel string) (bool, error) {
	_, err := os.Stat(p.Path(rel))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ListDirectories lists the subdirectory names of a project-relative directory.
func (p *ProjectFS) ListDirectories(rel string) ([]string, error) {
	entries, err := os.ReadDir(p.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to list directories in %s: %w", rel, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, nil
}

// Written returns the project-relative paths written during this run, in
// first-write order.
func (p *ProjectFS) Written() []string {
	return slices.Clone(p.written)
}

func (p *ProjectFS) debug(format string, args ...any) {
	if p.verbose {
		ui.Debug(format, args...)
	}
}
