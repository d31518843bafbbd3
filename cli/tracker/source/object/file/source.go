package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source читает объекты из локального каталога: <dir>/<bucket>/<key>
type Source struct {
	Dir string
}

func New(dir string) *Source {
	return &Source{Dir: dir}
}

func (s *Source) Fetch(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	path := filepath.Join(s.Dir, bucket, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	return f, nil
}
