package webapp

import (
	"fmt"
	"path"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Version info - can be set at build time with -ldflags
var (
	Version   = "dev"
	BuildDate = ""
)

// NavBar shows the brand, the PDF being presented and links to every page
type NavBar struct {
	app.Compo
	currentName string
	presenting  int // page last pushed to presenter windows
	events      *eventStream
}

// OnMount is called when the component is mounted
func (n *NavBar) OnMount(ctx app.Context) {
	n.events = openEventStream(ctx, n.onEvent)
}

// OnDismount is called when the component is unmounted
func (n *NavBar) OnDismount() {
	n.events.Close()
}

func (n *NavBar) onEvent(ctx app.Context, event presenterEvent) {
	switch event.Type {
	case "current":
		n.currentName = path.Base(event.Path)
		n.presenting = 1
	case "page":
		n.presenting = event.Page
	}
}

// Render renders the navigation bar
func (n *NavBar) Render() app.UI {
	currentPath := app.Window().URL().Path
	links := make([]app.UI, 0, len(navItems))
	for _, item := range navItems {
		class := "navbar-item"
		if isActive(currentPath, item.Href) {
			class += " navbar-item-active"
		}
		links = append(links, app.A().Href(item.Href).Class(class).Text(item.Label))
	}

	return app.Nav().
		Class("navbar").
		Body(
			app.Button().
				Class("hamburger-menu").
				ID("menu-toggle").
				OnClick(n.onMenuToggle).
				Body(
					app.Span().Class("hamburger-line"),
					app.Span().Class("hamburger-line"),
					app.Span().Class("hamburger-line"),
				),
			app.Div().Class("navbar-brand").Body(
				app.H1().Text("pdfpresenter"),
				app.Span().Class("version-info").Text(versionLabel(Version, BuildDate)),
			),
			app.If(n.currentName != "", func() app.UI {
				return app.Span().Class("navbar-current").Text(presentingLabel(n.currentName, n.presenting))
			}),
			app.Div().Class("navbar-menu").Body(links...),
		)
}

// onMenuToggle flips the sidebar, the Sidebar reads the state on reload
func (n *NavBar) onMenuToggle(ctx app.Context, e app.Event) {
	var open bool
	ctx.LocalStorage().Get(sidebarKey, &open)
	ctx.LocalStorage().Set(sidebarKey, !open)
	ctx.Reload()
}

func versionLabel(version, buildDate string) string {
	if buildDate == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, buildDate)
}

func presentingLabel(name string, page int) string {
	if page < 1 {
		return "▶ " + name
	}
	return fmt.Sprintf("▶ %s, page %d", name, page)
}
