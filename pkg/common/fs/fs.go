package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// sqlite keeps these companions next to the main database file.
var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// FileSystem wraps Afero with the .runtime directory that holds
// file-backed databases.
type FileSystem struct {
	fs          afero.Fs
	runtimePath string
}

// New creates the runtime directory under basePath on the OS filesystem.
func New(basePath string) (*FileSystem, error) {
	return NewWithFs(afero.NewOsFs(), basePath)
}

// NewWithFs creates the runtime directory under basePath on the given filesystem.
func NewWithFs(fs afero.Fs, basePath string) (*FileSystem, error) {
	if basePath == "" {
		basePath = "."
	}
	runtimePath := filepath.Join(basePath, ".runtime")
	if err := fs.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	return &FileSystem{fs: fs, runtimePath: runtimePath}, nil
}

// GetRuntimePath returns the .runtime directory path
func (fsys *FileSystem) GetRuntimePath() string {
	return fsys.runtimePath
}

// DatabasePath returns where the database file called name lives.
func (fsys *FileSystem) DatabasePath(name string) string {
	return filepath.Join(fsys.runtimePath, name)
}

// DatabaseExists reports whether the database file has been created.
func (fsys *FileSystem) DatabaseExists(name string) (bool, error) {
	return afero.Exists(fsys.fs, fsys.DatabasePath(name))
}

// DatabaseSize returns the on-disk size of the database file.
func (fsys *FileSystem) DatabaseSize(name string) (int64, error) {
	info, err := fsys.fs.Stat(fsys.DatabasePath(name))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveDatabase deletes the database file and its journal companions.
// Missing files are not an error.
func (fsys *FileSystem) RemoveDatabase(name string) error {
	base := fsys.DatabasePath(name)
	paths := []string{base}
	for _, suffix := range sidecarSuffixes {
		paths = append(paths, base+suffix)
	}
	for _, p := range paths {
		if err := fsys.fs.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}
