package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/services"
	"github.com/taskvault/taskvault-api/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth   *services.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account with email and password (8-64 characters, at most 72 bytes)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.UserResponse "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.UserResponse{ID: user.ID, Email: user.Email})
}

// Login handles user login
// @Summary Login user
// @Description Exchange email (sent as username) and password for a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Incorrect email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.auth.Login(r.Context(), username, password)
	if errors.Is(err, services.ErrUnauthenticated) {
		middleware.WriteUnauthorized(w, "Incorrect email or password")
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: services.TokenType})
}

// readCredentials accepts the form-encoded body, or JSON as a convenience
func (h *AuthHandler) readCredentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var username, password string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req dto.LoginRequest
		if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
			return "", "", false
		}
		username, password = req.Username, req.Password
		if username == "" {
			username = req.Email
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, utils.MaxRequestBodyBytes)
		if err := r.ParseForm(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "body must be form-encoded")
			return "", "", false
		}
		username, password = r.PostForm.Get("username"), r.PostForm.Get("password")
	}

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		utils.WriteValidationError(w, "username and password are required", fields)
		return "", "", false
	}
	return username, password, true
}

// Me returns the authenticated user's public view
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}

// DeleteMe deletes the authenticated user and every task they own
// @Summary Delete current user
// @Description Removes the account and cascades to all owned tasks. Issued tokens stop working.
// @Tags auth
// @Security BearerAuth
// @Success 204 "Deleted"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/me [delete]
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthenticated)
		return
	}
	if err := h.auth.DeleteAccount(r.Context(), user); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
