// Package authz is the single place access policy lives. It is a pure
// function of the requester and the resource; transport concerns (HTTP
// status codes, redirects) belong to the caller.
package authz

import (
	"filestore-backend/internal/models"
)

type Operation string

const (
	OpDownload Operation = "download"
	OpView     Operation = "view"
	OpUpload   Operation = "upload"
)

// CanAccessFile decides whether user (nil for anonymous) may perform op.
// file may be nil for OpUpload, where no record exists yet.
func CanAccessFile(user *models.User, file *models.File, op Operation) bool {
	if user == nil {
		return false
	}

	switch op {
	case OpUpload:
		// any authenticated user; the upload is always owned by the requester
		return true
	case OpDownload, OpView:
		if file == nil {
			return false
		}
		return file.OwnerID == user.ID || user.IsAdmin()
	default:
		return false
	}
}

// CanViewAdminPanel gates the all-users and all-files listings.
func CanViewAdminPanel(user *models.User) bool {
	return user.IsAdmin()
}
