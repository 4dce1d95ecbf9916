package handlers_test

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/handlers"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"NoteKeeper/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

var handlerDBSeq atomic.Int64

// newTestRouter собирает полный роутер поверх in-memory SQLite.
// Хендлеры заметок гоняют сквозные сценарии, поэтому моков здесь нет.
func newTestRouter(t *testing.T) (http.Handler, *config.Config, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", handlerDBSeq.Add(1))
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Note{}, &model.NoteVersion{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	cfg := &config.Config{AuthSecret: "test-secret"}
	logger := zap.NewNop().Sugar()

	userSvc := service.NewUserService(repo.NewUserRepository(db))
	noteSvc := service.NewNoteService(repo.NewNoteRepository(db), repo.NewVersionRepository(db), nil, logger)

	h := handlers.NewHandler(userSvc, noteSvc, nil, logger, cfg)
	return h.Router, cfg, db
}

// seedUser регистрирует пользователя напрямую через репозиторий.
func seedUser(t *testing.T, db *gorm.DB, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := repo.NewUserRepository(db).CreateUser(context.Background(), &model.User{
		Name: "Test User", Email: email, Password: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// doJSON выполняет запрос с JSON-телом (или без него при body == nil).
func doJSON(t *testing.T, router http.Handler, method, target string, body string, userID int64, secret string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		addAuthCookie(t, req, userID, secret)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(dst))
}

// createNote — заметка через API, возвращает её id.
func createNote(t *testing.T, router http.Handler, userID int64, secret, body string) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/notes/create", body, userID, secret)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create note: status %d, body %s", rr.Code, rr.Body.String())
	}
	var note struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &note)
	return note.ID
}
