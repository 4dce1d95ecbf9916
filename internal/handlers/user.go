package handlers

import (
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// UserHandler — профиль текущего пользователя.
type UserHandler struct {
	Users  *service.UserService
	Logger *zap.SugaredLogger
}

func NewUserHandler(users *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.Users.GetProfile(r.Context(), userID)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("Me: service error", "user_id", userID, "error", err)
		}
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		if len(n) < minNameLen {
			writeMessage(w, http.StatusBadRequest, "Name must be at least 3 characters")
			return
		}
		req.Name = &n
	}
	if req.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*req.Email))
		if !emailRe.MatchString(e) {
			writeMessage(w, http.StatusBadRequest, "Provide a valid email")
			return
		}
		req.Email = &e
	}

	user, err := h.Users.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("Update profile: service error", "user_id", userID, "error", err)
		}
		writeMessage(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    toUserDTO(user),
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.OldPassword == "" {
		writeMessage(w, http.StatusBadRequest, "Old password is required")
		return
	}
	if len(req.NewPassword) < minUserPasswordLen {
		writeMessage(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}

	if err := h.Users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid old password")
			return
		}
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("Change password: service error", "user_id", userID, "error", err)
		}
		writeMessage(w, status, msg)
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully")
}
