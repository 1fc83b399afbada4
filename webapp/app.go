package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// pages maps a route to the component shown in the main content area
var pages = map[string]func() app.UI{
	"/":       func() app.UI { return &ViewerPage{} },
	"/recent": func() app.UI { return &RecentPage{} },
	"/about":  func() app.UI { return &AboutPage{} },
}

// App is the root component, every route renders it
type App struct {
	app.Compo
}

// Render picks the page for the current URL
func (a *App) Render() app.UI {
	currentPath := app.Window().URL().Path

	// The presenter owns the whole window, no chrome around it
	if currentPath == "/present" {
		return &PresenterPage{}
	}

	return app.Div().Class("app-container").Body(
		app.Header().Body(&NavBar{}),
		app.Div().Class("app-layout").Body(
			&Sidebar{},
			app.Main().Class("main-content").Body(pageFor(currentPath)),
		),
	)
}

// pageFor returns the page component for path, unknown paths get the not found page
func pageFor(path string) app.UI {
	if page, ok := pages[path]; ok {
		return page()
	}
	return &NotFoundPage{Path: path}
}
