package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Тест: заголовки CORS проставляются, preflight завершается без next
func TestWithCORS(t *testing.T) {
	nextCalled := false
	h := WithCORS("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("regular request passes through with headers", func(t *testing.T) {
		nextCalled = false
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notes/", nil))

		if !nextCalled {
			t.Fatalf("next handler was not called")
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Fatalf("unexpected allow-origin: %q", got)
		}
		if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Fatalf("credentials header missing")
		}
	})

	t.Run("preflight is answered directly", func(t *testing.T) {
		nextCalled = false
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/notes/", nil))

		if nextCalled {
			t.Fatalf("next handler must not run on preflight")
		}
		if rr.Code != http.StatusNoContent {
			t.Fatalf("preflight status want 204, got %d", rr.Code)
		}
	})
}

// Тест: пустой origin — middleware прозрачен
func TestWithCORS_EmptyOrigin(t *testing.T) {
	h := WithCORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("no CORS headers expected for empty origin")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status want 200, got %d", rr.Code)
	}
}
