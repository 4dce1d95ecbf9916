package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// dialTestHub поднимает хаб с httptest-сервером и подключает клиента.
func dialTestHub(t *testing.T) (*Hub, *websocket.Conn, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		cancel()
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// ждём, пока Run зарегистрирует клиента
	time.Sleep(100 * time.Millisecond)
	return hub, conn, cancel
}

func TestHub_EmitReachesClient(t *testing.T) {
	hub, conn, cancel := dialTestHub(t)
	defer cancel()

	hub.Emit("note_created", map[string]any{"note_id": "n1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	assert.NoError(t, err)

	var got struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "note_created", got.Event)
	assert.Equal(t, "n1", got.Data["note_id"])
}

func TestHub_EmitWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	done := make(chan struct{})
	go func() {
		// больше ёмкости очереди — лишнее должно отбрасываться, а не висеть
		for i := 0; i < 200; i++ {
			hub.Emit("note_updated", map[string]any{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Emit must never block")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	_, conn, cancel := dialTestHub(t)

	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection should be closed after shutdown")
}
