package teachin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/enoceanmqtt/core/internal/infrastructure/config"
	"github.com/enoceanmqtt/core/internal/infrastructure/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.New(config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"}, "test")
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/teachin"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewHub(testLogger(t))
	mux := http.NewServeMux()
	mux.HandleFunc("/teachin", hub.ServeHTTP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	event := Event{ID: "abc", SenderID: "0x01020304", RORG: "A5", Func: "02", Type: "05", Timestamp: time.Now()}
	hub.Broadcast(event)

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SenderID != event.SenderID {
		t.Errorf("SenderID = %q, want %q", got.SenderID, event.SenderID)
	}
}

func TestHubClientCountDropsOnDisconnect(t *testing.T) {
	hub := NewHub(testLogger(t))
	mux := http.NewServeMux()
	mux.HandleFunc("/teachin", hub.ServeHTTP)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dial(t, srv)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.ClientCount() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hub.ClientCount() != 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0 after disconnect", hub.ClientCount())
	}
}
