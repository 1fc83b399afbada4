package engine

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	// Maximum time allowed to write an event to a client
	writeWait = 10 * time.Second

	// How long a client may stay silent before it is dropped, browsers answer pings automatically
	pongWait = 60 * time.Second

	pingInterval = 45 * time.Second
)

// PresenterEvent tells presenter windows what to show
type PresenterEvent struct {
	Type string `json:"type"` // "current" or "page"
	Path string `json:"path,omitempty"`
	Page int    `json:"page,omitempty"`
}

var upgrader = websocket.Upgrader{
	// Origin check is handled by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// presenterWindow is one connected presenter, mu makes sure there is only ever one writer
type presenterWindow struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *presenterWindow) send(event PresenterEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(event)
}

func (w *presenterWindow) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// EventHub fans presenter events out to every connected window
type EventHub struct {
	// broadcastMu keeps events in order, it is never needed to read the hub
	broadcastMu sync.Mutex

	mu      sync.Mutex
	windows map[*presenterWindow]struct{}
	page    int // last page shown for the current PDF, 0 when none
}

// NewEventHub creates an empty hub
func NewEventHub() *EventHub {
	return &EventHub{windows: make(map[*presenterWindow]struct{})}
}

// Count returns the number of connected windows
func (h *EventHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}

// Page returns the last page broadcast since the current PDF changed, 0 when there is none
func (h *EventHub) Page() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

// Broadcast sends event to every window at once, windows that can't be written to are dropped.
// A stalled window delays the next broadcast by at most writeWait.
func (h *EventHub) Broadcast(event PresenterEvent) {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()

	h.mu.Lock()
	switch event.Type {
	case "current":
		h.page = 0
	case "page":
		h.page = event.Page
	}
	windows := make([]*presenterWindow, 0, len(h.windows))
	for w := range h.windows {
		windows = append(windows, w)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, w := range windows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.send(event); err != nil {
				Logger.Warn("Dropping presenter window", "remote", w.conn.RemoteAddr().String(), "error", err)
				h.remove(w)
				w.conn.Close()
			}
		}()
	}
	wg.Wait()
}

// add registers a new window and catches it up with the current PDF and page.
// Both happen under broadcastMu so no event can slip in between.
func (h *EventHub) add(w *presenterWindow, current func() (string, bool)) error {
	h.broadcastMu.Lock()
	defer h.broadcastMu.Unlock()

	h.mu.Lock()
	h.windows[w] = struct{}{}
	page := h.page
	h.mu.Unlock()

	path, ok := current()
	if !ok {
		return nil
	}
	events := []PresenterEvent{{Type: "current", Path: path}}
	if page > 0 {
		events = append(events, PresenterEvent{Type: "page", Page: page})
	}
	for _, event := range events {
		if err := w.send(event); err != nil {
			h.remove(w)
			return err
		}
	}
	return nil
}

func (h *EventHub) remove(w *presenterWindow) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.windows, w)
}

// PresenterEvents upgrades to a websocket that streams PresenterEvent values.
// The current PDF and page, if any, are sent straight away.
func (serverHandler *ServerHandler) PresenterEvents(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		Logger.Warn("Websocket upgrade failed", "error", err)
		return nil // the upgrader has already replied
	}
	defer conn.Close()

	ctx := c.Request().Context()
	current := func() (string, bool) {
		path, ok, err := serverHandler.Host.CurrentPDFPath(ctx)
		return path, err == nil && ok
	}

	hub, window := serverHandler.Events, &presenterWindow{conn: conn}
	if err := hub.add(window, current); err != nil {
		Logger.Warn("Unable to catch presenter window up", "error", err)
		return nil
	}
	defer hub.remove(window)
	Logger.Info("Presenter window connected", "remote", conn.RemoteAddr().String(), "windows", hub.Count())

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := window.ping(); err != nil {
					return
				}
			}
		}
	}()

	// Windows only listen, reading keeps control frames flowing until they go away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				Logger.Warn("Presenter window closed unexpectedly", "error", err)
			}
			Logger.Info("Presenter window disconnected", "remote", conn.RemoteAddr().String())
			return nil
		}
	}
}

// SetPresenterPage moves every presenter window to a page of the current PDF
func (serverHandler *ServerHandler) SetPresenterPage(c echo.Context) error {
	var payload struct {
		Page int `json:"page"`
	}
	if err := c.Bind(&payload); err != nil || payload.Page < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "a JSON body with a page of 1 or more is required",
		})
	}

	serverHandler.Events.Broadcast(PresenterEvent{Type: "page", Page: payload.Page})
	return c.JSON(http.StatusOK, payload)
}
