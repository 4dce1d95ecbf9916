package handlers

import (
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteHandler — CRUD заметок, просмотр с паролем, история и откат версий.
type NoteHandler struct {
	Notes  *service.NoteService
	Logger *zap.SugaredLogger
}

func NewNoteHandler(notes *service.NoteService, logger *zap.SugaredLogger) *NoteHandler {
	return &NoteHandler{Notes: notes, Logger: logger}
}

// nullableString различает три состояния JSON-поля: отсутствует,
// явный null и строковое значение. UnmarshalJSON вызывается только
// когда поле присутствует в запросе.
type nullableString struct {
	Present bool
	Valid   bool // false при явном null
	Value   string
}

func (n *nullableString) UnmarshalJSON(b []byte) error {
	n.Present = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// noteViewResponse — проекция заметки плюс сообщение для урезанных ответов.
type noteViewResponse struct {
	service.NoteDTO
	Message string `json:"message,omitempty"`
}

func (h *NoteHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	status, msg := statusForError(err)
	if status == http.StatusInternalServerError {
		h.Logger.Errorw(op+": service error", "error", err)
	}
	writeMessage(w, status, msg)
}

// List — публичный список заметок; описания защищённых скрыты плейсхолдером.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "List notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

type viewRequest struct {
	Password *string `json:"password,omitempty"`
}

// View — просмотр одной заметки. POST, чтобы пароль защищённой заметки
// можно было передать в теле.
func (h *NoteHandler) View(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	view, err := h.Notes.View(r.Context(), noteID, req.Password)
	if err != nil {
		h.writeServiceError(w, "View note", err)
		return
	}

	switch view.Access {
	case service.AccessSecretRequired:
		writeJSON(w, http.StatusOK, noteViewResponse{
			NoteDTO: view.Note,
			Message: "Note is password protected. Provide password to view full content and history.",
		})
	case service.AccessSecretMismatch:
		writeJSON(w, http.StatusUnauthorized, noteViewResponse{
			NoteDTO: view.Note,
			Message: "Incorrect password for note.",
		})
	default:
		writeJSON(w, http.StatusOK, view.Note)
	}
}

type createNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Password    string `json:"password,omitempty"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.Notes.Create(r.Context(), userID, service.CreateNoteInput{
		Title:       req.Title,
		Description: req.Description,
		Password:    req.Password,
	})
	if err != nil {
		h.writeServiceError(w, "Create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, service.ProjectNote(note, service.AccessFull))
}

type updateNoteRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Password    nullableString `json:"password"`
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	noteID := chi.URLParam(r, "id")

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	in := service.UpdateNoteInput{
		Title:       req.Title,
		Description: req.Description,
		Secret: service.SecretPatch{
			Set:   req.Password.Present,
			Clear: req.Password.Present && !req.Password.Valid,
			Value: req.Password.Value,
		},
	}

	note, err := h.Notes.Update(r.Context(), noteID, userID, in)
	if err != nil {
		h.writeServiceError(w, "Update note", err)
		return
	}
	writeJSON(w, http.StatusOK, service.ProjectNote(note, service.AccessFull))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	noteID := chi.URLParam(r, "id")

	if err := h.Notes.Delete(r.Context(), noteID, userID); err != nil {
		h.writeServiceError(w, "Delete note", err)
		return
	}
	writeMessage(w, http.StatusOK, "Note deleted successfully")
}

// Versions — история заметки. Для защищённой заметки пароль передаётся
// query-параметром password.
func (h *NoteHandler) Versions(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var supplied *string
	if p := r.URL.Query().Get("password"); p != "" {
		supplied = &p
	}

	versions, access, err := h.Notes.Versions(r.Context(), noteID, supplied)
	if err != nil {
		h.writeServiceError(w, "Note versions", err)
		return
	}
	if access != service.AccessFull {
		writeMessage(w, http.StatusUnauthorized, "Note is password protected. Provide password to view version history.")
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *NoteHandler) Revert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	noteID := chi.URLParam(r, "noteId")
	versionID := chi.URLParam(r, "versionId")

	note, err := h.Notes.Revert(r.Context(), noteID, userID, versionID)
	if err != nil {
		h.writeServiceError(w, "Revert note", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note reverted successfully",
		"note":    service.ProjectNote(note, service.AccessFull),
	})
}
