package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"filestore-backend/internal/dto"
	"filestore-backend/internal/middleware"
	"filestore-backend/internal/models"
	"filestore-backend/internal/objectstore"
	"filestore-backend/internal/services"
	"filestore-backend/utils/response"
)

type FileHandler struct {
	service    *services.FileService
	presignTTL time.Duration
}

func NewFileHandler(service *services.FileService, presignTTL time.Duration) *FileHandler {
	return &FileHandler{service: service, presignTTL: presignTTL}
}

// ListFiles returns the requesting user's own files in upload order.
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	files, err := h.service.ListForOwner(r.Context(), user.ID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    toFileResponses(files),
	})
}

func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// TODO: support larger files, chunked upload protocol
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024*1024) // 100MB limit

	if err := r.ParseMultipartForm(32 * 1024 * 1024); err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Failed to get file from form: %v", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read file: %v", err))
		return
	}

	created, err := h.service.Upload(r.Context(), user, header.Filename, data)
	if err != nil {
		if errors.Is(err, services.ErrUploadFailed) {
			response.Error(w, http.StatusBadGateway, fmt.Sprintf("Upload failed: %v", err))
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data: dto.FileUploadResponse{
			ID:       created.ID,
			Filename: created.Filename,
			Size:     created.Size,
		},
		Message: "File uploaded successfully",
	})
}

// DownloadFile redirects to a presigned URL by default so the bytes bypass
// this process; ?proxy=1 (or a backend without presigning) streams them
// through instead. Mounted behind WithUser, not RequireAuth, so a missing
// file id is 404 even for anonymous callers.
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(r.PathValue("fileID"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid file id")
		return
	}

	user := middleware.UserFromContext(r.Context())

	if r.URL.Query().Get("proxy") != "1" {
		_, url, err := h.service.PresignDownload(r.Context(), user, fileID, h.presignTTL)
		if err == nil {
			http.Redirect(w, r, url, http.StatusFound)
			return
		}
		if !errors.Is(err, objectstore.ErrPresignUnsupported) {
			h.downloadError(w, err)
			return
		}
		// local backend: fall through to proxying
	}

	file, data, err := h.service.Download(r.Context(), user, fileID)
	if err != nil {
		h.downloadError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// downloadError keeps 404 and 403 distinct: a missing id is NotFound for
// everyone, an existing file the requester may not read is Forbidden.
func (h *FileHandler) downloadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		response.Error(w, http.StatusNotFound, "File not found")
	case errors.Is(err, services.ErrUnauthenticated):
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, services.ErrForbidden):
		response.Error(w, http.StatusForbidden, "Not allowed to access this file")
	case errors.Is(err, objectstore.ErrStorageUnavailable):
		response.Error(w, http.StatusBadGateway, "Storage temporarily unavailable")
	default:
		response.Error(w, http.StatusInternalServerError, "Failed to download file")
	}
}

func toFileResponses(files []models.File) []dto.FileResponse {
	out := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.FileResponse{
			ID:         f.ID,
			Filename:   f.Filename,
			OwnerID:    f.OwnerID,
			Size:       f.Size,
			UploadTime: f.UploadTime,
		})
	}
	return out
}
