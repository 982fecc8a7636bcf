package helpers

import (
	"os"
	"path/filepath"
)

var (
	file FileClient = &fileClient{}
)

type FileClient interface {
	// Create writes content into path, creating missing parent directories.
	Create(path string, content []byte) error
	// Recreate removes dir with all its content and creates it again empty.
	Recreate(dir string) error
}

func File() FileClient {
	return file
}

type fileClient struct{}

func (in *fileClient) Create(path string, content []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	return os.WriteFile(path, content, 0644)
}

func (in *fileClient) Recreate(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	return EnsureDir(dir)
}
