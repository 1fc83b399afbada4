package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Sidebar repeats the navigation with icons, it is toggled from the navbar
type Sidebar struct {
	app.Compo
	isOpen bool
}

// OnMount is called when the component is mounted
func (s *Sidebar) OnMount(ctx app.Context) {
	ctx.LocalStorage().Get(sidebarKey, &s.isOpen)
}

// Render renders the sidebar
func (s *Sidebar) Render() app.UI {
	class := "sidebar"
	if s.isOpen {
		class += " sidebar-open"
	}

	currentPath := app.Window().URL().Path
	items := make([]app.UI, 0, len(navItems))
	for _, item := range navItems {
		itemClass := "sidebar-item"
		if isActive(currentPath, item.Href) {
			itemClass += " sidebar-item-active"
		}
		items = append(items, app.A().Href(item.Href).Class(itemClass).Body(
			app.Span().Class("sidebar-icon").Text(item.Icon),
			app.Span().Class("sidebar-label").Text(item.Label),
		))
	}

	return app.Aside().Class(class).Body(
		app.Nav().Class("sidebar-nav").Body(items...),
	)
}
