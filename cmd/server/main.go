package main

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/handlers"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/repo"
	"NoteKeeper/internal/service"
	"NoteKeeper/internal/ws"
	"context"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// хаб рассылки событий подключённым клиентам
	hub := ws.NewHub(sugar)
	go hub.Run(ctx)

	userRepo := repo.NewUserRepository(gormDB)
	noteRepo := repo.NewNoteRepository(gormDB)
	versionRepo := repo.NewVersionRepository(gormDB)

	userService := service.NewUserService(userRepo)
	noteService := service.NewNoteService(noteRepo, versionRepo, hub, sugar)

	h := handlers.NewHandler(userService, noteService, hub.ServeWS, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"FrontendURL", cfg.FrontendURL,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
