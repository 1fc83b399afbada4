package webapp

import (
	"encoding/json"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// PresenterPage shows the current PDF one page at a time, fullscreen
type PresenterPage struct {
	app.Compo
	page       PageResponse
	pageNumber int
	requests   pageRequests
	error      string

	currentPath string // last path announced by the backend
	document    int    // bumped when the backend switches PDF, older responses are dropped
	events      *eventStream
}

// pageRequests keeps one page fetch in flight. Requests made meanwhile collapse
// into the newest one, which is fetched once the current fetch finishes.
type pageRequests struct {
	loading bool
	wanted  int  // newest page asked for
	pending bool // wanted was asked for while loading and has not been fetched
}

// request returns true when page should be fetched now
func (q *pageRequests) request(page int) bool {
	q.wanted = page
	if q.loading {
		q.pending = true
		return false
	}
	q.loading = true
	return true
}

// done ends the fetch in flight. It returns the page to fetch next, or 0 when
// shown is already the newest request.
func (q *pageRequests) done(shown int) int {
	q.loading = false
	if !q.pending {
		return 0
	}
	q.pending = false
	if q.wanted == shown {
		return 0
	}
	q.loading = true
	return q.wanted
}

// target is the page navigation steps from, the newest request while one is in flight
func (q *pageRequests) target(shown int) int {
	if q.loading {
		return q.wanted
	}
	return shown
}

// OnMount is called when the component is mounted
func (p *PresenterPage) OnMount(ctx app.Context) {
	p.pageNumber = 1
	p.loadPage(ctx, 1)
	// follow the viewer: a new PDF starts at page 1, page events jump straight there
	p.events = openEventStream(ctx, p.handleEvent)
	ctx.Defer(func(ctx app.Context) {
		if stage := app.Window().GetElementByID("presenter-stage"); stage.Truthy() {
			stage.Call("focus")
		}
	})
}

// OnDismount closes the event stream
func (p *PresenterPage) OnDismount() {
	p.events.Close()
}

func (p *PresenterPage) handleEvent(ctx app.Context, event presenterEvent) {
	switch event.Type {
	case "current":
		// the first announcement is the PDF OnMount is already loading
		previous := p.currentPath
		p.currentPath = event.Path
		if previous == "" || previous == event.Path {
			return
		}
		p.document++
		p.page = PageResponse{}
		p.pageNumber = 0
		p.loadPage(ctx, 1)
	case "page":
		p.goTo(ctx, event.Page)
	}
}

// loadPage renders pageNumber of the current PDF, or queues it behind the fetch in flight
func (p *PresenterPage) loadPage(ctx app.Context, pageNumber int) {
	if p.requests.request(pageNumber) {
		p.fetchPage(ctx, pageNumber)
	}
}

func (p *PresenterPage) fetchPage(ctx app.Context, pageNumber int) {
	document := p.document
	finish := func(ctx app.Context, shown int) {
		if next := p.requests.done(shown); next > 0 {
			p.fetchPage(ctx, next)
		}
	}

	fetchJSON(ctx, BuildAPIURL(fmt.Sprintf("/api/pdf/page?page=%d", pageNumber)), nil,
		func(ctx app.Context, status int, body string) {
			if document != p.document {
				finish(ctx, 0)
				return
			}
			if status != 200 {
				p.error = apiErrorMessage(status, body)
				finish(ctx, 0)
				return
			}
			var page PageResponse
			if err := json.Unmarshal([]byte(body), &page); err != nil {
				p.error = fmt.Sprintf("Failed to parse response: %v", err)
				finish(ctx, 0)
				return
			}
			p.error = ""
			p.page = page
			p.pageNumber = page.Page
			finish(ctx, page.Page)
		},
		func(ctx app.Context) {
			p.error = "Network error"
			finish(ctx, 0)
		})
}

// navigationDelta maps a key to a page step, ok is false for keys the presenter ignores
func navigationDelta(key string) (delta int, ok bool) {
	switch key {
	case "ArrowRight", "ArrowDown", "PageDown", " ", "Enter":
		return 1, true
	case "ArrowLeft", "ArrowUp", "PageUp", "Backspace":
		return -1, true
	}
	return 0, false
}

// onKeyDown drives the presentation from the keyboard
func (p *PresenterPage) onKeyDown(ctx app.Context, e app.Event) {
	key := e.Get("key").String()
	switch key {
	case "Escape":
		p.close(ctx)
		return
	case "f", "F":
		p.enterFullscreen()
		return
	case "Home":
		p.goTo(ctx, 1)
		return
	case "End":
		p.goTo(ctx, p.page.TotalPages)
		return
	}

	if delta, ok := navigationDelta(key); ok {
		e.PreventDefault()
		p.goTo(ctx, p.requests.target(p.pageNumber)+delta)
	}
}

// goTo loads page unless it is already on screen with nothing else on the way
func (p *PresenterPage) goTo(ctx app.Context, page int) {
	page = clampPage(page, p.page.TotalPages)
	if page == p.pageNumber && !p.requests.loading {
		return
	}
	p.loadPage(ctx, page)
}

// enterFullscreen asks the browser to show the presenter fullscreen.
// Browsers only allow this from a user gesture.
func (p *PresenterPage) enterFullscreen() {
	doc := app.Window().Get("document")
	if doc.Get("fullscreenElement").Truthy() {
		return
	}
	if stage := app.Window().GetElementByID("presenter-stage"); stage.Truthy() {
		stage.Call("requestFullscreen")
	}
}

// close leaves fullscreen and returns to the viewer
func (p *PresenterPage) close(ctx app.Context) {
	doc := app.Window().Get("document")
	if doc.Get("fullscreenElement").Truthy() {
		doc.Call("exitFullscreen")
	}
	ctx.Navigate("/")
}

// Render renders the presenter page
func (p *PresenterPage) Render() app.UI {
	var content app.UI
	switch {
	case p.error != "":
		content = app.Div().Class("presenter-message error").Body(
			app.Text("Error: "+p.error),
			app.A().Href("/").Class("presenter-back-link").Text("Back to viewer"),
		)
	case p.page.DataURL == "":
		content = app.Div().Class("presenter-message loading").Body(app.Text("Loading..."))
	default:
		content = app.Img().
			Class("presenter-slide").
			Src(p.page.DataURL).
			Alt(fmt.Sprintf("Page %d", p.page.Page))
	}

	return app.Div().
		ID("presenter-stage").
		Class("presenter-page").
		TabIndex(0).
		OnKeyDown(p.onKeyDown).
		OnDblClick(func(ctx app.Context, e app.Event) {
			p.enterFullscreen()
		}).
		Body(
			content,
			app.Div().Class("presenter-footer").Body(
				app.Span().Text(fmt.Sprintf("%d / %d", p.pageNumber, p.page.TotalPages)),
				app.Button().
					Class("presenter-btn").
					Text("Fullscreen").
					OnClick(func(ctx app.Context, e app.Event) {
						p.enterFullscreen()
					}),
				app.Button().
					Class("presenter-btn").
					Text("Close").
					OnClick(func(ctx app.Context, e app.Event) {
						p.close(ctx)
					}),
			),
		)
}
