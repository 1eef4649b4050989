package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dataqueryai/dataquery/internal/auth"
	"github.com/dataqueryai/dataquery/internal/middleware"
	"github.com/dataqueryai/dataquery/internal/session"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth     *auth.Service
	Sessions *session.Manager
}

// ==========================
// Register (no auto-login; caller must log in separately)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.Username == "" {
		fields["username"] = "required"
	}
	if input.Email == "" {
		fields["email"] = "required"
	}
	if input.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	err := h.Auth.Register(r.Context(), input.Username, input.Email, input.Password)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"username": input.Username,
			"message":  "registration successful, please log in",
		})
	case errors.Is(err, auth.ErrInvalidInput):
		JSONError(w, "all fields are required", http.StatusBadRequest)
	case errors.Is(err, auth.ErrUsernameTaken):
		JSONError(w, "username already taken", http.StatusConflict)
	default:
		slog.Error("register failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// ==========================
// Login (issues a session token on success)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	sess, err := h.Auth.Authenticate(r.Context(), input.Username, input.Password)
	switch {
	case err == nil:
		// fall through to token issuance
	case errors.Is(err, auth.ErrInvalidInput):
		JSONError(w, "username and password are required", http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	default:
		slog.Error("login failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	token, err := h.Sessions.Issue(sess.Username)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":    token,
		"username": sess.Username,
	})
}

// ==========================
// Logout (revokes the presented token)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		JSONError(w, "no session", http.StatusUnauthorized)
		return
	}

	h.Sessions.Revoke(token)
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Me (who is this session logged in as)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		JSONError(w, "no session", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"username": username})
}
