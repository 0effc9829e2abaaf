package export

import (
	// Go Internal Packages
	"os"
	"path/filepath"

	// Local Packages
	errors "paybot-console/errors"
)

// Saver stores downloaded content under a file name and returns where it ended up.
type Saver interface {
	Save(name string, content []byte) (string, error)
}

// DirSaver writes files into a local directory, creating it when missing.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.E(errors.Other, "failed to create export directory", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", errors.E(errors.Other, "failed to write "+path, err)
	}
	return path, nil
}
