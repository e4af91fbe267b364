package handlers

import (
	"net/http"

	"filestore-backend/internal/dto"
	"filestore-backend/internal/middleware"
	"filestore-backend/internal/services"
	"filestore-backend/utils/response"
)

// AdminHandler serves the admin panel listings. Routes are mounted behind
// RequireAdmin; ListAllFiles additionally asks the service, which enforces
// the gate itself.
type AdminHandler struct {
	auth  *services.AuthService
	files *services.FileService
}

func NewAdminHandler(auth *services.AuthService, files *services.FileService) *AdminHandler {
	return &AdminHandler{auth: auth, files: files}
}

func (h *AdminHandler) ListAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    out,
	})
}

func (h *AdminHandler) ListAllFiles(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserFromContext(r.Context())

	files, err := h.files.ListAll(r.Context(), requester)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    toFileResponses(files),
	})
}
