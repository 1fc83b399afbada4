package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func readEvent(t *testing.T, conn *websocket.Conn) PresenterEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event PresenterEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read presenter event: %v", err)
	}
	return event
}

func TestPresenterEvents(t *testing.T) {
	s := setupTestServer(t)
	server := httptest.NewServer(s.handler.Echo)
	defer server.Close()

	body, _ := json.Marshal(map[string]string{"path": s.deck})
	if rec := s.do(t, http.MethodPut, "/api/pdf/current", string(body)); rec.Code != http.StatusOK {
		t.Fatalf("Failed to set current PDF: %d %s", rec.Code, rec.Body.String())
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/presenter/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	// the window is registered once the current PDF has arrived
	if event := readEvent(t, conn); event.Type != "current" || event.Path != s.deck {
		t.Fatalf("Expected current event for %s, got %+v", s.deck, event)
	}
	if s.handler.Events.Count() != 1 {
		t.Errorf("Expected 1 presenter window, got %d", s.handler.Events.Count())
	}

	if rec := s.do(t, http.MethodPut, "/api/presenter/page", `{"page":2}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if event := readEvent(t, conn); event.Type != "page" || event.Page != 2 {
		t.Errorf("Expected page 2 event, got %+v", event)
	}

	if rec := s.do(t, http.MethodPut, "/api/pdf/current", string(body)); rec.Code != http.StatusOK {
		t.Fatalf("Failed to set current PDF: %d", rec.Code)
	}
	if event := readEvent(t, conn); event.Type != "current" {
		t.Errorf("Expected current event after switching PDF, got %+v", event)
	}
}

func TestPresenterEventsWithoutCurrentPDF(t *testing.T) {
	s := setupTestServer(t)
	server := httptest.NewServer(s.handler.Echo)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/presenter/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	// registration races the dial, wait for it before broadcasting
	deadline := time.Now().Add(5 * time.Second)
	for s.handler.Events.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	s.handler.Events.Broadcast(PresenterEvent{Type: "page", Page: 3})
	if event := readEvent(t, conn); event.Page != 3 {
		t.Errorf("Expected page 3 event, got %+v", event)
	}
}

func TestSetPresenterPageValidation(t *testing.T) {
	s := setupTestServer(t)

	for _, body := range []string{`{"page":0}`, `{}`, `not json`} {
		if rec := s.do(t, http.MethodPut, "/api/presenter/page", body); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestBroadcastWithoutWindows(t *testing.T) {
	hub := NewEventHub()
	hub.Broadcast(PresenterEvent{Type: "page", Page: 1})
	if hub.Count() != 0 {
		t.Errorf("Expected no windows, got %d", hub.Count())
	}
}

func TestPresenterEventsCatchUp(t *testing.T) {
	s := setupTestServer(t)
	server := httptest.NewServer(s.handler.Echo)
	defer server.Close()

	body, _ := json.Marshal(map[string]string{"path": s.deck})
	if rec := s.do(t, http.MethodPut, "/api/pdf/current", string(body)); rec.Code != http.StatusOK {
		t.Fatalf("Failed to set current PDF: %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPut, "/api/presenter/page", `{"page":3}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// a window opened mid talk starts on the page the viewer is showing
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/presenter/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	if event := readEvent(t, conn); event.Type != "current" || event.Path != s.deck {
		t.Fatalf("Expected current event for %s, got %+v", s.deck, event)
	}
	if event := readEvent(t, conn); event.Type != "page" || event.Page != 3 {
		t.Errorf("Expected page 3 event, got %+v", event)
	}
}

func TestBroadcastTracksPage(t *testing.T) {
	hub := NewEventHub()

	hub.Broadcast(PresenterEvent{Type: "page", Page: 4})
	if hub.Page() != 4 {
		t.Errorf("Expected page 4, got %d", hub.Page())
	}

	hub.Broadcast(PresenterEvent{Type: "current", Path: "/talks/next.pdf"})
	if hub.Page() != 0 {
		t.Errorf("Expected a new PDF to clear the page, got %d", hub.Page())
	}
}

func TestCountDuringBroadcast(t *testing.T) {
	hub := NewEventHub()

	// stands in for a broadcast stuck on a stalled window
	hub.broadcastMu.Lock()
	defer hub.broadcastMu.Unlock()

	counted := make(chan int, 1)
	go func() {
		counted <- hub.Count()
	}()

	select {
	case n := <-counted:
		if n != 0 {
			t.Errorf("Expected no windows, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Count blocked behind a broadcast")
	}
}
