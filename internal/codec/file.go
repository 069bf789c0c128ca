package codec

import (
	"os"
	"path/filepath"
)

// WriteFile writes recs to dir/filename, creating missing parent
// directories. An existing file is replaced, never appended to; the new
// content is written to a temporary file first and renamed into place.
// Returns the absolute path written.
func (c Codec[T]) WriteFile(recs []T, dir, filename string) (string, error) {
	data, err := c.Marshal(recs)
	if err != nil {
		return "", err
	}

	path, err := filepath.Abs(filepath.Join(dir, filename))
	if err != nil {
		return "", &IOError{Op: "resolve", Path: filename, Err: err}
	}
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", &IOError{Op: "mkdir", Path: parent, Err: err}
	}

	tmp, err := os.CreateTemp(parent, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return "", &IOError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", &IOError{Op: "rename", Path: path, Err: err}
	}

	return path, nil
}

// ReadFile parses the snapshot at path.
func (c Codec[T]) ReadFile(path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return c.unmarshal(data, path)
}
