package projectfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateRootFailsWhenPresent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "svc")
	pfs := NewProjectFS(root)

	if err := pfs.CreateRoot(); err != nil {
		t.Fatalf("CreateRoot() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := pfs.CreateRoot()
	if err == nil {
		t.Fatal("Expected error for existing root")
	}
	if !errors.Is(err, ErrRootExists) {
		t.Errorf("Expected ErrRootExists, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("Expected existing content to be untouched: %v", err)
	}
}

func TestCreateLayoutMakesEightDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "svc")
	pfs := NewProjectFS(root)
	if err := pfs.CreateRoot(); err != nil {
		t.Fatal(err)
	}
	if err := pfs.CreateLayout(); err != nil {
		t.Fatalf("CreateLayout() error = %v", err)
	}

	dirs, err := pfs.ListDirectories(".")
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 8 {
		t.Errorf("Expected 8 directories, got %d: %v", len(dirs), dirs)
	}
	for _, want := range Layout {
		info, err := os.Stat(filepath.Join(root, want))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s", want)
		}
	}
}

func TestWriteAndReadFile(t *testing.T) {
	pfs := NewProjectFS(t.TempDir())

	if err := pfs.WriteFile("config/db.js", "module.exports = {};\n", 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := pfs.WriteFile(".env", "PORT=3000\n", 0644); err != nil {
		t.Fatal(err)
	}
	if err := pfs.WriteFile("config/db.js", "module.exports = null;\n", 0644); err != nil {
		t.Fatal(err)
	}

	got, err := pfs.ReadFile("config/db.js")
	if err != nil {
		t.Fatal(err)
	}
	if got != "module.exports = null;\n" {
		t.Errorf("Expected overwritten content, got %q", got)
	}

	written := pfs.Written()
	if len(written) != 2 || written[0] != "config/db.js" || written[1] != ".env" {
		t.Errorf("Expected written paths in first-write order, got %v", written)
	}

	exists, err := pfs.FileExists("missing.txt")
	if err != nil || exists {
		t.Errorf("Expected missing file to not exist, got %v, %v", exists, err)
	}
}
