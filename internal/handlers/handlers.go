package handlers

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров. wsHandler обслуживает /ws и
// регистрируется в обход gzip: апгрейду соединения нужен чистый writer.
func NewHandler(
	userService *service.UserService,
	noteService *service.NoteService,
	wsHandler http.HandlerFunc,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging)
	r.Use(middleware.WithCORS(config.FrontendURL))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Notes Management System API"))
	})
	if wsHandler != nil {
		r.Get("/ws", wsHandler)
	}

	// Handlers
	authHandler := NewAuthHandler(userService, logger, config)
	userHandler := NewUserHandler(userService, logger)
	noteHandler := NewNoteHandler(noteService, logger)

	r.Group(func(api chi.Router) {
		api.Use(middleware.WithGzip)
		api.Use(middleware.WithAuth(config.AuthSecret))

		// Auth routes
		api.Post("/api/auth/register", authHandler.Register)
		api.Post("/api/auth/login", authHandler.Login)
		api.Post("/api/auth/logout", authHandler.Logout)

		// User routes
		api.Get("/api/users/me", userHandler.Me)
		api.Put("/api/users/me/update", userHandler.Update)
		api.Put("/api/users/me/change-password", userHandler.ChangePassword)

		// Note routes
		api.Route("/api/notes", func(n chi.Router) {
			n.Get("/", noteHandler.List)
			n.Post("/{id}/view", noteHandler.View)
			n.Get("/{id}/versions", noteHandler.Versions)
			n.Post("/create", noteHandler.Create)
			n.Put("/{id}/update", noteHandler.Update)
			n.Delete("/{id}/delete", noteHandler.Delete)
			n.Post("/{noteId}/versions/{versionId}/revert", noteHandler.Revert)
		})
	})

	return &Handler{Router: r}
}
