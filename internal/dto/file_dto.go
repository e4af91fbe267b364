package dto

import (
	"time"
)

type FileResponse struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	OwnerID    int64     `json:"owner_id"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"upload_time"`
}

type FileUploadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
