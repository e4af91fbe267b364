package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"filestore-backend/internal/dto"
	"filestore-backend/internal/middleware"
	"filestore-backend/internal/models"
	"filestore-backend/internal/services"
	"filestore-backend/utils/response"
)

type AuthHandler struct {
	auth      *services.AuthService
	sessions  *services.SessionService
	cookieTTL int
}

func NewAuthHandler(auth *services.AuthService, sessions *services.SessionService, cookieTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		sessions:  sessions,
		cookieTTL: cookieTTLSeconds,
	}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateIdentity) {
			response.Error(w, http.StatusConflict, "Username or email already taken")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	// registration logs the user straight in
	token, err := h.sessions.Start(r.Context(), user)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	h.setSessionCookie(w, token)

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    toUserResponse(user),
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// same message for unknown email and wrong password
			response.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to login user")
		return
	}

	token, err := h.sessions.Start(r.Context(), user)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}
	h.setSessionCookie(w, token)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    toUserResponse(user),
		Message: "User logged in successfully",
	})
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.End(r.Context(), cookie.Value); err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to end session")
			return
		}
	}
	h.clearSessionCookie(w)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Logged out",
	})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    toUserResponse(user),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   h.cookieTTL,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}
