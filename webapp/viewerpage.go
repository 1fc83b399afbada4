package webapp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// ViewerPage shows the selected PDF with a thumbnail strip and speaker notes
type ViewerPage struct {
	app.Compo
	pathInput     string
	currentPath   string
	page          PageResponse
	pageNumber    int
	thumbnails    []Thumbnail
	notes         string
	loading       bool
	thumbsLoading bool
	error         string
}

// OnMount is called when the component is mounted
func (v *ViewerPage) OnMount(ctx app.Context) {
	v.pageNumber = 1
	if path := app.Window().URL().Query().Get("path"); path != "" {
		v.pathInput = path
		v.selectPDF(ctx, path)
		return
	}
	v.loadCurrent(ctx)
}

// loadCurrent opens the PDF the backend already has selected, if any
func (v *ViewerPage) loadCurrent(ctx app.Context) {
	fetchJSON(ctx, BuildAPIURL("/api/pdf/current"), nil,
		func(ctx app.Context, status int, body string) {
			if status != 200 {
				return // nothing selected yet
			}
			var current struct {
				Path string `json:"path"`
			}
			if err := json.Unmarshal([]byte(body), &current); err != nil || current.Path == "" {
				return
			}
			v.pathInput = current.Path
			v.openDocument(ctx, current.Path)
		},
		func(ctx app.Context) {
			v.error = "Network error"
		})
}

// selectPDF makes path the current PDF on the backend, then opens it
func (v *ViewerPage) selectPDF(ctx app.Context, path string) {
	payload, _ := json.Marshal(map[string]string{"path": path})
	v.loading = true
	v.error = ""

	fetchJSON(ctx, BuildAPIURL("/api/pdf/current"), putJSON(string(payload)),
		func(ctx app.Context, status int, body string) {
			if status < 200 || status >= 300 {
				v.loading = false
				v.error = apiErrorMessage(status, body)
				return
			}
			v.openDocument(ctx, path)
		},
		func(ctx app.Context) {
			v.loading = false
			v.error = "Network error: Could not connect to server"
		})
}

// openDocument shows the first page and starts loading the thumbnails
func (v *ViewerPage) openDocument(ctx app.Context, path string) {
	v.currentPath = path
	v.thumbnails = nil
	v.loadPage(ctx, 1)
	v.loadThumbnails(ctx)
}

// loadPage renders pageNumber of the current PDF
func (v *ViewerPage) loadPage(ctx app.Context, pageNumber int) {
	v.loading = true
	v.error = ""
	target := fmt.Sprintf("/api/pdf/page?path=%s&page=%d", url.QueryEscape(v.currentPath), pageNumber)

	fetchJSON(ctx, BuildAPIURL(target), nil,
		func(ctx app.Context, status int, body string) {
			v.loading = false
			if status != 200 {
				v.error = apiErrorMessage(status, body)
				return
			}
			var page PageResponse
			if err := json.Unmarshal([]byte(body), &page); err != nil {
				v.error = fmt.Sprintf("Failed to parse response: %v", err)
				return
			}
			v.page = page
			v.pageNumber = page.Page
			v.loadNotes(ctx, page.Page)
			syncPresenter(ctx, page.Page)
		},
		func(ctx app.Context) {
			v.loading = false
			v.error = "Network error"
		})
}

// loadThumbnails fetches the whole thumbnail strip in one request
func (v *ViewerPage) loadThumbnails(ctx app.Context) {
	v.thumbsLoading = true
	target := "/api/pdf/thumbnails?path=" + url.QueryEscape(v.currentPath)

	fetchJSON(ctx, BuildAPIURL(target), nil,
		func(ctx app.Context, status int, body string) {
			v.thumbsLoading = false
			if status != 200 {
				return
			}
			var thumbnails []Thumbnail
			if err := json.Unmarshal([]byte(body), &thumbnails); err == nil {
				v.thumbnails = thumbnails
			}
		},
		func(ctx app.Context) {
			v.thumbsLoading = false
		})
}

// loadNotes fetches the page text shown below the slide
func (v *ViewerPage) loadNotes(ctx app.Context, pageNumber int) {
	target := fmt.Sprintf("/api/pdf/text?path=%s&page=%d", url.QueryEscape(v.currentPath), pageNumber)

	fetchJSON(ctx, BuildAPIURL(target), nil,
		func(ctx app.Context, status int, body string) {
			v.notes = ""
			if status != 200 {
				return
			}
			var text PageText
			if err := json.Unmarshal([]byte(body), &text); err == nil {
				v.notes = text.Text
			}
		},
		func(ctx app.Context) {
			v.notes = ""
		})
}

// onPageChange handles page navigation
func (v *ViewerPage) onPageChange(page int) func(ctx app.Context, e app.Event) {
	return func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		v.loadPage(ctx, clampPage(page, v.page.TotalPages))
	}
}

// onOpenClick handles the open button click
func (v *ViewerPage) onOpenClick(ctx app.Context, e app.Event) {
	if v.pathInput == "" {
		v.error = "Please enter the path of a PDF"
		return
	}
	v.selectPDF(ctx, v.pathInput)
}

// Render renders the viewer page
func (v *ViewerPage) Render() app.UI {
	return app.Div().
		Class("viewer-page").
		Body(
			app.Div().Class("open-form").Body(
				app.Input().
					Type("text").
					Class("path-input").
					Placeholder("Path of a PDF, relative to the document root...").
					Value(v.pathInput).
					OnInput(func(ctx app.Context, e app.Event) {
						v.pathInput = ctx.JSSrc().Get("value").String()
					}).
					OnKeyDown(func(ctx app.Context, e app.Event) {
						if e.Get("key").String() == "Enter" {
							v.onOpenClick(ctx, e)
						}
					}),
				app.Button().
					Class("btn-primary").
					Disabled(v.loading).
					Text("Open").
					OnClick(v.onOpenClick),
				app.If(v.currentPath != "", func() app.UI {
					return app.A().
						Href("/present").
						Class("btn-secondary").
						Text("Present")
				}),
			),
			v.renderContent(),
		)
}

// renderContent renders the slide area
func (v *ViewerPage) renderContent() app.UI {
	if v.error != "" {
		return app.Div().Class("error").Body(app.Text("Error: " + v.error))
	}
	if v.currentPath == "" {
		return app.Div().Class("no-results").Body(app.Text("No PDF selected."))
	}
	if v.page.DataURL == "" {
		return app.Div().Class("loading").Body(app.Text("Loading..."))
	}

	return app.Div().Class("viewer-layout").Body(
		v.renderThumbnails(),
		app.Div().Class("viewer-main").Body(
			app.Img().
				Class("page-image").
				Src(v.page.DataURL).
				Width(v.page.Width).
				Height(v.page.Height).
				Alt(fmt.Sprintf("Page %d", v.page.Page)),
			v.renderPagination(),
			app.Div().Class("speaker-notes").Body(
				app.H3().Text("Notes"),
				app.If(v.notes == "", func() app.UI {
					return app.P().Class("notes-empty").Text("No text on this page.")
				}).Else(func() app.UI {
					return app.Pre().Class("notes-text").Text(v.notes)
				}),
			),
		),
	)
}

// renderThumbnails renders the thumbnail strip
func (v *ViewerPage) renderThumbnails() app.UI {
	if v.thumbsLoading {
		return app.Aside().Class("thumbnail-strip").Body(
			app.Div().Class("loading").Body(app.Text("Loading thumbnails...")),
		)
	}

	return app.Aside().Class("thumbnail-strip").Body(
		app.Range(v.thumbnails).Slice(func(i int) app.UI {
			thumb := v.thumbnails[i]
			class := "thumbnail"
			if thumb.Page == v.pageNumber {
				class += " thumbnail-active"
			}
			return app.Div().
				Class(class).
				OnClick(v.onPageChange(thumb.Page)).
				Body(
					app.Img().Src(thumb.DataURL).Alt(fmt.Sprintf("Page %d", thumb.Page)),
					app.Span().Class("thumbnail-label").Text(fmt.Sprintf("%d", thumb.Page)),
				)
		}),
	)
}

// renderPagination renders the previous/next controls
func (v *ViewerPage) renderPagination() app.UI {
	return app.Div().Class("pagination").Body(
		app.Button().
			Class("pagination-btn").
			Disabled(v.pageNumber <= 1 || v.loading).
			OnClick(v.onPageChange(v.pageNumber - 1)).
			Body(app.Text("← Previous")),
		app.Span().Class("pagination-info").Body(
			app.Text(fmt.Sprintf("Page %d of %d", v.pageNumber, v.page.TotalPages)),
		),
		app.Button().
			Class("pagination-btn").
			Disabled(v.pageNumber >= v.page.TotalPages || v.loading).
			OnClick(v.onPageChange(v.pageNumber + 1)).
			Body(app.Text("Next →")),
	)
}

// apiErrorMessage picks the backend's error message out of body
func apiErrorMessage(status int, body string) string {
	var apiErr APIError
	if err := json.Unmarshal([]byte(body), &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return fmt.Sprintf("Request failed with status: %d", status)
}
