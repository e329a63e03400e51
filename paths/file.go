package paths

import (
	"io/fs"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ReadFile reads the whole file at path into memory.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths: reading %q", path)
	}
	glog.V(2).Infof("paths: read %d bytes from %q", len(b), path)
	return b, nil
}

// Exists reports whether anything exists at path. Errors other than the file
// not existing are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrapf(err, "paths: checking %q", path)
	}
}

// WriteFile writes b to path in a single pass, creating or truncating the
// file.
func WriteFile(path string, b []byte) error {
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "paths: writing %q", path)
	}
	glog.V(2).Infof("paths: wrote %d bytes to %q", len(b), path)
	return nil
}
