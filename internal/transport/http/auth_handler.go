package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

// AuthHandler serves the login check behind the login page.
type AuthHandler struct {
	auth *app.Authenticator
	log  *zap.Logger
}

func NewAuthHandler(auth *app.Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	case err != nil:
		h.log.Error("login lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    loginUser{ID: user.ID, Username: user.Username},
	})
}
