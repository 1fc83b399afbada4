package webapp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// RecentPage lists the most recently opened documents
type RecentPage struct {
	app.Compo
	documents []RecentDocument
	loading   bool
	error     string
}

// OnMount is called when the component is mounted
func (r *RecentPage) OnMount(ctx app.Context) {
	r.loading = true
	r.fetchDocuments(ctx)
}

// fetchDocuments fetches the document history
func (r *RecentPage) fetchDocuments(ctx app.Context) {
	fetchJSON(ctx, BuildAPIURL("/api/documents/recent"), nil,
		func(ctx app.Context, status int, body string) {
			r.loading = false
			if status != 200 {
				r.error = apiErrorMessage(status, body)
				return
			}
			var docs []RecentDocument
			if err := json.Unmarshal([]byte(body), &docs); err != nil {
				r.error = fmt.Sprintf("Failed to parse response: %v", err)
				return
			}
			r.documents = docs
		},
		func(ctx app.Context) {
			r.error = "Network error"
			r.loading = false
		})
}

// Render renders the recent documents page
func (r *RecentPage) Render() app.UI {
	var content app.UI

	if r.loading {
		content = app.Div().Class("loading").Body(app.Text("Loading..."))
	} else if r.error != "" {
		content = app.Div().Class("error").Body(app.Text("Error: " + r.error))
	} else if len(r.documents) == 0 {
		content = app.Div().Class("no-results").Body(app.Text("No documents opened yet."))
	} else {
		content = app.Div().Class("document-grid").Body(
			app.Range(r.documents).Slice(func(i int) app.UI {
				return &DocumentCard{Document: r.documents[i]}
			}),
		)
	}

	return app.Div().
		Class("recent-page").
		Body(
			app.H2().Text("Recent Documents"),
			content,
		)
}

// DocumentCard displays a single document card
type DocumentCard struct {
	app.Compo
	Document RecentDocument
}

// Render renders the document card
func (d *DocumentCard) Render() app.UI {
	return app.Div().
		Class("document-card").
		Body(
			app.Div().Class("document-icon").Body(
				app.Text("📄"),
			),
			app.Div().Class("document-info").Body(
				app.H3().Text(d.Document.Name),
				app.P().
					Class("document-date").
					Text(fmt.Sprintf("%s | opened %s", pageCountLabel(d.Document.PageCount), d.Document.OpenedAt)),
				app.A().
					Href(viewerLink(d.Document.Path)).
					Class("document-link").
					Body(app.Text("Open")),
			),
		)
}

// viewerLink opens path in the viewer
func viewerLink(path string) string {
	return "/?path=" + url.QueryEscape(path)
}

// pageCountLabel formats a page count
func pageCountLabel(count int) string {
	if count == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", count)
}
