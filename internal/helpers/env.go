package helpers

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/pluralsh/scan-harness/pkg/log"
)

const (
	EnvPrefix = "PLRL"
)

// GetEnv - Lookup the environment variable provided and set to default value if variable isn't found
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); len(value) > 0 {
		return value
	}

	return fallback
}

// GetPluralEnv - Lookup the plural environment variable. It has to be prefixed with EnvPrefix. If variable
// with the provided key is not found, fallback will be used.
func GetPluralEnv(key, fallback string) string {
	return GetEnv(fmt.Sprintf("%s_%s", EnvPrefix, key), fallback)
}

// EnsureDir creates the directory together with all missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}

	klog.V(log.LogLevelDebug).InfoS("ensured directory", "dir", dir)
	return nil
}

// Exists returns true when the file or directory exists.
func Exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}

// IsDir returns true only when the path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
