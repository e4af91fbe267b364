package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filestore-backend/internal/models"
	"filestore-backend/internal/objectstore"
	"filestore-backend/internal/repository"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeFileStore struct {
	files      []*models.File
	nextID     int64
	failCreate bool
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{}
}

func (f *fakeFileStore) Create(ctx context.Context, file *models.File) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.nextID++
	file.ID = f.nextID
	file.UploadTime = time.Now()
	cp := *file
	f.files = append(f.files, &cp)
	return nil
}

func (f *fakeFileStore) GetByID(ctx context.Context, id int64) (*models.File, error) {
	for _, file := range f.files {
		if file.ID == id {
			cp := *file
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFileStore) ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	out := []models.File{}
	for _, file := range f.files {
		if file.OwnerID == ownerID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeFileStore) ListAll(ctx context.Context) ([]models.File, error) {
	out := []models.File{}
	for _, file := range f.files {
		out = append(out, *file)
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	session.CreatedAt = time.Now()
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

type fakeObjectStore struct {
	blobs      map[string][]byte
	failPut    bool
	canPresign bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{blobs: make(map[string][]byte), canPresign: true}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte) error {
	if f.failPut {
		return fmt.Errorf("%w: connection refused", objectstore.ErrStorageUnavailable)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.blobs[key] = cp
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, objectstore.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if !f.canPresign {
		return "", objectstore.ErrPresignUnsupported
	}
	if _, ok := f.blobs[key]; !ok {
		return "", objectstore.ErrObjectNotFound
	}
	return "https://blobs.example/" + key, nil
}
