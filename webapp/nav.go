package webapp

import "strings"

// navItem is a page reachable from the navbar and sidebar
type navItem struct {
	Icon  string
	Label string
	Href  string
}

var navItems = []navItem{
	{"📄", "Viewer", "/"},
	{"🖥️", "Present", "/present"},
	{"🕘", "Recent", "/recent"},
	{"ℹ️", "About", "/about"},
}

// isActive reports whether href is the page at currentPath. "/" only matches itself.
func isActive(currentPath, href string) bool {
	if href == "/" {
		return currentPath == "/"
	}
	return currentPath == href || strings.HasPrefix(currentPath, href+"/")
}

// sidebarKey is the local storage key holding the sidebar state
const sidebarKey = "pdfpresenter-sidebar-open"
