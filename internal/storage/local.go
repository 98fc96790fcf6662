package storage

import (
	"context"
	"os"
	"path/filepath"
)

// Local stores objects under a media directory on disk. The router serves
// the directory at /media/.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (s *Local) Save(_ context.Context, key string, data []byte, _ string) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Local) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Local) URL(_ context.Context, key string) (string, error) {
	return "/media/" + key, nil
}
