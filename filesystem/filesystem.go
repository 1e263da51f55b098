package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileNotFound      = errors.New("filesystem: file not found")
	ErrDirectoryNotFound = errors.New("filesystem: directory not found")
	ErrInvalidPath       = errors.New("filesystem: invalid path")
)

// Filesystem reads and writes files that live directly inside one base directory.
type Filesystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, content []byte) error
	Base() string
}

type localFileSystem struct {
	base string
}

// NewLocalFileSystem serves files from base. Names are single path elements;
// anything that could leave base is rejected with ErrInvalidPath.
func NewLocalFileSystem(base string) Filesystem {
	if base == "" {
		base = "."
	}
	return &localFileSystem{base: base}
}

func (filesystem *localFileSystem) Base() string {
	return filesystem.base
}

func (filesystem *localFileSystem) ReadFile(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	root, err := filesystem.openRoot()
	if err != nil {
		return nil, err
	}
	defer closeRoot(root)

	file, err := root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("closing file error", "error", closeErr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidPath, name)
	}

	return io.ReadAll(file)
}

// WriteFile creates name or truncates it, then writes content.
func (filesystem *localFileSystem) WriteFile(name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	root, err := filesystem.openRoot()
	if err != nil {
		return err
	}
	defer closeRoot(root)

	file, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func (filesystem *localFileSystem) openRoot() (*os.Root, error) {
	root, err := os.OpenRoot(filesystem.base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, filesystem.base)
		}
		return nil, err
	}
	return root, nil
}

func closeRoot(root *os.Root) {
	if closeErr := root.Close(); closeErr != nil {
		slog.Error("closing base directory error", "error", closeErr)
	}
}

func validateName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return nil
}
