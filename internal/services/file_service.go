package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"filestore-backend/internal/authz"
	"filestore-backend/internal/models"
	"filestore-backend/internal/objectstore"
	"filestore-backend/internal/repository"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrForbidden       = errors.New("not allowed to access this file")
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUploadFailed guarantees no file record was created.
	ErrUploadFailed = errors.New("upload failed")
)

// storageKeySuffixBytes is the entropy behind each storage key; enough
// that two uploads of the same filename never collide.
const storageKeySuffixBytes = 8

// FileStore is what FileService needs from the files table.
type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id int64) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error)
	ListAll(ctx context.Context) ([]models.File, error)
}

// FileService orchestrates uploads and downloads across the file registry
// and the object store.
type FileService struct {
	files   FileStore
	objects objectstore.ObjectStore
}

func NewFileService(files FileStore, objects objectstore.ObjectStore) *FileService {
	return &FileService{files: files, objects: objects}
}

// Upload writes the blob first, then the metadata row. If the blob write
// fails the registry is untouched and ErrUploadFailed carries the cause.
// If the row insert fails after a successful blob write, the blob is
// orphaned.
// TODO: reconciliation sweep for blobs with no matching row.
func (s *FileService) Upload(ctx context.Context, owner *models.User, filename string, data []byte) (*models.File, error) {
	if !authz.CanAccessFile(owner, nil, authz.OpUpload) {
		return nil, ErrUnauthenticated
	}

	key, err := newStorageKey(owner.ID, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate storage key: %w", err)
	}

	if err := s.objects.Put(ctx, key, data); err != nil {
		return nil, multierror.Append(ErrUploadFailed, err)
	}

	file := &models.File{
		Filename:   filename,
		OwnerID:    owner.ID,
		StorageKey: key,
		Size:       int64(len(data)),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, multierror.Append(ErrUploadFailed, err)
	}

	return file, nil
}

// Download returns the file record and its full content. Missing records
// are ErrFileNotFound regardless of who asks; records the requester may
// not read are ErrForbidden (or ErrUnauthenticated for anonymous), so 404
// and 403 stay distinct for the web layer.
func (s *FileService) Download(ctx context.Context, requester *models.User, fileID int64) (*models.File, []byte, error) {
	file, err := s.authorize(ctx, requester, fileID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.objects.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch blob: %w", err)
	}
	return file, data, nil
}

// PresignDownload runs the same checks as Download but returns a
// time-limited direct URL so the bytes bypass the application server.
func (s *FileService) PresignDownload(ctx context.Context, requester *models.User, fileID int64, ttl time.Duration) (*models.File, string, error) {
	file, err := s.authorize(ctx, requester, fileID)
	if err != nil {
		return nil, "", err
	}

	url, err := s.objects.Presign(ctx, file.StorageKey, ttl)
	if err != nil {
		return nil, "", err
	}
	return file, url, nil
}

func (s *FileService) ListForOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	return s.files.ListByOwner(ctx, ownerID)
}

// ListAll is admin-only and enforces that itself since the registry does not.
func (s *FileService) ListAll(ctx context.Context, requester *models.User) ([]models.File, error) {
	if !authz.CanViewAdminPanel(requester) {
		if requester == nil {
			return nil, ErrUnauthenticated
		}
		return nil, ErrForbidden
	}
	return s.files.ListAll(ctx)
}

// authorize resolves the record first so a missing id is NotFound even for
// anonymous callers, then applies the access gate.
func (s *FileService) authorize(ctx context.Context, requester *models.User, fileID int64) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	if !authz.CanAccessFile(requester, file, authz.OpDownload) {
		if requester == nil {
			return nil, ErrUnauthenticated
		}
		return nil, ErrForbidden
	}
	return file, nil
}

// newStorageKey builds "{ownerID}/{filename}-{hexsuffix}". The random
// suffix keeps repeat uploads of the same filename from colliding.
func newStorageKey(ownerID int64, filename string) (string, error) {
	suffix := make([]byte, storageKeySuffixBytes)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%s-%s", ownerID, filename, hex.EncodeToString(suffix)), nil
}
