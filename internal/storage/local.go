package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// localStore implements Store on the local file system. Assets are served
// back by the HTTP layer under /uploads/.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a file-system backed store rooted at dir, creating
// the directory if needed.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "local-storage").Logger(),
	}, nil
}

// Save writes the file under a UUID-derived name and returns its public path.
func (s *localStore) Save(_ context.Context, ext string, r io.Reader) (string, error) {
	name := uuid.New().String() + ext
	fullPath := filepath.Join(s.dir, name)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	publicPath := "/" + filepath.ToSlash(filepath.Join(s.dir, name))
	s.logger.Debug().Str("path", publicPath).Msg("image stored")

	return publicPath, nil
}

// Delete removes the backing file for a public path.
func (s *localStore) Delete(_ context.Context, path string) error {
	name := filepath.Base(strings.TrimPrefix(path, "/"))
	fullPath := filepath.Join(s.dir, name)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("image deleted")
	return nil
}
