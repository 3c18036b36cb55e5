package workspace

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/logfields"
)

const dirMode = 0o755

// Manager handles output directories under a staging root.
type Manager struct {
	root string
}

// NewManager creates a manager rooted at root, or at os.TempDir() when root is empty.
func NewManager(root string) *Manager {
	if root == "" {
		root = os.TempDir()
	}
	return &Manager{root: filepath.Clean(root)}
}

// Root returns the staging root.
func (m *Manager) Root() string {
	return m.root
}

// Resolve maps an output directory name to the path that will be written.
func (m *Manager) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", sderrors.InvalidInputError("output directory must not be empty").Build()
	}

	var dir string
	if filepath.IsAbs(name) {
		dir = filepath.Clean(name)
	} else {
		dir = filepath.Join(m.root, name)
		rel, err := filepath.Rel(m.root, dir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", sderrors.InvalidInputError("output directory must stay inside the staging root").
				WithContext("name", name).
				WithContext("root", m.root).
				Build()
		}
	}

	if filepath.Dir(dir) == dir {
		return "", sderrors.InvalidInputError("output directory must not be a filesystem root").
			WithContext("name", name).
			Build()
	}
	return dir, nil
}

// Exists reports whether anything is present at dir. A regular file counts.
func (m *Manager) Exists(dir string) (bool, error) {
	_, err := os.Lstat(dir)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, sderrors.WriteFailedError("failed to inspect output directory").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
}

// Clear recursively removes dir.
func (m *Manager) Clear(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return sderrors.CantDeleteError("unable to delete directory").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	slog.Debug("Cleared output directory", logfields.OutputDir(dir))
	return nil
}

// Create makes dir and any missing parents.
func (m *Manager) Create(dir string) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return sderrors.WriteFailedError("failed to create output directory").WithCause(err).
			WithContext("dir", dir).
			Build()
	}
	slog.Debug("Created output directory", logfields.OutputDir(dir))
	return nil
}
