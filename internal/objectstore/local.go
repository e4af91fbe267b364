package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps blobs on the local filesystem under basePath, addressed
// by the same storage keys an S3 backend would use. Meant for development
// without a minio instance; it cannot presign, so downloads must be
// proxied through the server.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	// Clean so containment checks in blobPath compare like with like.
	return &LocalStore{basePath: filepath.Clean(basePath)}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("object key cannot be empty")
	}

	finalPath, err := s.blobPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrStorageUnavailable, key, err)
	}

	// write-then-rename so a crash mid-write never leaves a partial blob
	// at the final key
	tmp, err := os.CreateTemp(s.basePath, "temp-*")
	if err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrStorageUnavailable, key, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: put %q: %v", ErrStorageUnavailable, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrStorageUnavailable, key, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.blobPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %q: %v", ErrStorageUnavailable, key, err)
	}
	return data, nil
}

func (s *LocalStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}

// blobPath maps a storage key onto the base directory. Keys carry the raw
// uploaded filename, so a ".." segment could otherwise walk the resolved
// path out of basePath; any key that does not stay under it is rejected.
func (s *LocalStore) blobPath(key string) (string, error) {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(path, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes the storage directory", key)
	}
	return path, nil
}
