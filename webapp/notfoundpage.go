package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// NotFoundPage is shown for routes the web app doesn't know
type NotFoundPage struct {
	app.Compo
	Path string
}

// Render renders the not found page with a way back to every real page
func (p *NotFoundPage) Render() app.UI {
	links := make([]app.UI, 0, len(navItems))
	for _, item := range navItems {
		links = append(links, app.A().Href(item.Href).Class("not-found-link").Text(item.Icon+" "+item.Label))
	}

	message := "There is no page here."
	if p.Path != "" {
		message = "There is no page at " + p.Path + "."
	}

	return app.Div().Class("not-found-page").Body(
		app.H1().Class("not-found-title").Text("404"),
		app.P().Class("not-found-message").Text(message),
		app.Div().Class("not-found-actions").Body(links...),
	)
}
