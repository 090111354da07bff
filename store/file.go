package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON document per session in a directory,
// human-readable and git-friendly.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create store directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(session string) string {
	return filepath.Join(s.dir, session+".json")
}

// Load reads the session document. A missing file is found=false.
func (s *FileStore) Load(session string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(session))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not read %q: %w", s.path(session), err)
	}
	return b, true, nil
}

// Save writes the document atomically: write to a temp file in the same
// directory, then rename over the target.
func (s *FileStore) Save(session string, doc []byte) error {
	target := s.path(session)
	tmp, err := os.CreateTemp(s.dir, session+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("could not replace %q: %w", target, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
