package handlers

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// минимальные требования к полям регистрации
const (
	minNameLen         = 3
	minUserPasswordLen = 6
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthHandler — регистрация, вход и выход.
type AuthHandler struct {
	Users  *service.UserService
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewAuthHandler(users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case len(name) < minNameLen:
		writeMessage(w, http.StatusBadRequest, "Name is required and must be at least 3 characters")
		return
	case !emailRe.MatchString(email):
		writeMessage(w, http.StatusBadRequest, "Please include a valid email")
		return
	case len(req.Password) < minUserPasswordLen:
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	user, err := h.Users.Register(r.Context(), name, email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		h.Logger.Errorw("Register: service error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    toUserDTO(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !emailRe.MatchString(email) || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	user, err := h.Users.Login(r.Context(), email, req.Password)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("Login: service error", "error", err)
		}
		writeMessage(w, status, msg)
		return
	}

	token, err := middleware.BuildJWTString(user.ID, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("Login: build token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: set cookie", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    toUserDTO(user),
		"token":   token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}
