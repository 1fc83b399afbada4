package webapp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// GetAPIBaseURL returns the configured API base URL
// It reads from window.pdfpresenterConfig.apiURL if available,
// otherwise falls back to empty string (relative URLs)
func GetAPIBaseURL() string {
	// Check if config is available in browser
	if !app.IsClient {
		return "" // Server-side rendering - use relative URLs
	}

	// Try to get API URL from global config
	config := app.Window().Get("pdfpresenterConfig")
	if config.Truthy() {
		apiURL := config.Get("apiURL")
		if apiURL.Truthy() {
			url := apiURL.String()
			// Ensure no trailing slash
			if len(url) > 0 && url[len(url)-1] == '/' {
				return url[:len(url)-1]
			}
			return url
		}
	}

	// Fallback to relative URLs (same origin)
	return ""
}

// BuildAPIURL constructs a full API URL from a path
// Example: BuildAPIURL("/api/pdf/page") -> "http://backend:8000/api/pdf/page"
// or just "/api/pdf/page" if using relative URLs
func BuildAPIURL(path string) string {
	baseURL := GetAPIBaseURL()
	if baseURL == "" {
		return path // Relative URL
	}
	return baseURL + path
}

// PageResponse is a page rendered by the backend
type PageResponse struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	DataURL    string  `json:"dataUrl"`
	Scale      float64 `json:"scale"`
}

// Thumbnail is one entry of the thumbnail strip
type Thumbnail struct {
	Page    int    `json:"page"`
	DataURL string `json:"dataUrl"`
}

// PageText holds the speaker notes for a page
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// RecentDocument is an entry of the document history
type RecentDocument struct {
	ULID      string `json:"ulid"`
	Path      string `json:"path"`
	Name      string `json:"name"`
	PageCount int    `json:"pageCount"`
	OpenedAt  string `json:"openedAt"`
}

// APIError is the body returned by the backend on failure
type APIError struct {
	Error string `json:"error"`
}

// fetchJSON calls url and hands the JSON body to onResult on the UI goroutine.
// options is passed to fetch as-is, nil makes a plain GET.
func fetchJSON(ctx app.Context, url string, options map[string]any, onResult func(ctx app.Context, status int, body string), onNetworkError func(ctx app.Context)) {
	ctx.Async(func() {
		var res app.Value
		if options == nil {
			res = app.Window().Call("fetch", url)
		} else {
			res = app.Window().Call("fetch", url, options)
		}

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]

			status := response.Get("status").Int()

			response.Call("json").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				if len(args) == 0 {
					return nil
				}

				jsonData := args[0]
				jsonStr := app.Window().Get("JSON").Call("stringify", jsonData).String()

				ctx.Dispatch(func(ctx app.Context) {
					onResult(ctx, status, jsonStr)
				})

				return nil
			}))

			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) {
				onNetworkError(ctx)
			})
			return nil
		}))
	})
}

// putJSON returns fetch options for a PUT with a JSON body
func putJSON(body string) map[string]any {
	return map[string]any{
		"method": "PUT",
		"headers": map[string]any{
			"Content-Type": "application/json",
		},
		"body": body,
	}
}

// clampPage keeps page within 1..total, total of 0 or less means unknown
func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if total > 0 && page > total {
		return total
	}
	return page
}

// websocketURL turns an API path into a ws:// or wss:// URL.
// base is the configured API URL, when it is empty the page's own protocol and host are used.
func websocketURL(base, path, pageProtocol, pageHost string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + path
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + path
	}
	scheme := "ws://"
	if pageProtocol == "https:" {
		scheme = "wss://"
	}
	return scheme + pageHost + base + path
}

// syncPresenter moves open presenter windows to page, failures are only logged
func syncPresenter(ctx app.Context, page int) {
	fetchJSON(ctx, BuildAPIURL("/api/presenter/page"), putJSON(fmt.Sprintf(`{"page":%d}`, page)),
		func(ctx app.Context, status int, body string) {
			if status != 200 {
				app.Log("presenter sync failed:", apiErrorMessage(status, body))
			}
		},
		func(ctx app.Context) {})
}

// presenterEvent mirrors the events the backend pushes over /api/presenter/events
type presenterEvent struct {
	Type string `json:"type"` // "current" or "page"
	Path string `json:"path"`
	Page int    `json:"page"`
}

// eventStream is an open presenter websocket
type eventStream struct {
	socket    app.Value
	onMessage app.Func
}

// openEventStream connects to the presenter websocket and hands every event to onEvent on the UI goroutine
func openEventStream(ctx app.Context, onEvent func(ctx app.Context, event presenterEvent)) *eventStream {
	location := app.Window().Get("location")
	target := websocketURL(GetAPIBaseURL(), "/api/presenter/events",
		location.Get("protocol").String(), location.Get("host").String())

	stream := &eventStream{socket: app.Window().Get("WebSocket").New(target)}
	stream.onMessage = app.FuncOf(func(this app.Value, args []app.Value) any {
		if len(args) == 0 {
			return nil
		}
		var event presenterEvent
		if err := json.Unmarshal([]byte(args[0].Get("data").String()), &event); err != nil {
			return nil
		}
		ctx.Dispatch(func(ctx app.Context) {
			onEvent(ctx, event)
		})
		return nil
	})
	stream.socket.Set("onmessage", stream.onMessage)
	return stream
}

// Close disconnects and releases the message callback
func (s *eventStream) Close() {
	if s == nil {
		return
	}
	s.socket.Call("close")
	s.onMessage.Release()
}
