package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filestore-backend/internal/database"
	"filestore-backend/internal/models"
)

type FileRepository struct {
	db *database.DB
}

func NewFileRepository(db *database.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		insert into files (filename, owner_id, storage_key, size)
		values ($1, $2, $3, $4)
		returning id, upload_time
	`
	err := r.db.QueryRowxContext(ctx, query,
		file.Filename, file.OwnerID, file.StorageKey, file.Size,
	).Scan(&file.ID, &file.UploadTime)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	var file models.File
	query := "select id, filename, owner_id, storage_key, size, upload_time from files where id = $1"

	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &file, nil
}

// ListByOwner returns the owner's files in insertion order.
func (r *FileRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.File, error) {
	files := []models.File{}
	query := "select id, filename, owner_id, storage_key, size, upload_time from files where owner_id = $1 order by id"

	if err := r.db.SelectContext(ctx, &files, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list files for owner: %w", err)
	}
	return files, nil
}

// ListAll is for the admin panel; access control is the caller's job.
func (r *FileRepository) ListAll(ctx context.Context) ([]models.File, error) {
	files := []models.File{}
	query := "select id, filename, owner_id, storage_key, size, upload_time from files order by id"

	if err := r.db.SelectContext(ctx, &files, query); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}
