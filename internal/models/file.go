package models

import (
	"time"
)

type File struct {
	ID         int64     `db:"id" json:"id"`
	Filename   string    `db:"filename" json:"filename"`
	OwnerID    int64     `db:"owner_id" json:"owner_id"`
	StorageKey string    `db:"storage_key" json:"-"`
	Size       int64     `db:"size" json:"size"`
	UploadTime time.Time `db:"upload_time" json:"upload_time"`
}
