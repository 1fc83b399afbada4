package webapp

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Routes served by the web app, all of them render App
var Routes = []string{"/", "/present", "/recent", "/about"}

// RegisterRoutes tells go-app which paths belong to the web app
func RegisterRoutes() {
	for _, route := range Routes {
		app.Route(route, func() app.Composer { return &App{} })
	}
}

// Handler returns an HTTP handler for the web app
func Handler() http.Handler {
	RegisterRoutes()
	app.RunWhenOnBrowser()

	// Create and return the handler
	// wasm_exec.js is served at /wasm_exec.js by Echo
	// app.wasm is served from /web/app.wasm by Echo
	return &app.Handler{
		Name:        "pdfpresenter",
		Title:       "pdfpresenter",
		Description: "PDF viewer and presenter",
		Styles: []string{
			"/webapp/webapp.css",
		},
		Scripts: []string{
			"/config.js", // Load backend API configuration
		},
		RawHeaders: []string{
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		},
	}
}

// ConfigScript is served as /config.js, the web app reads its backend settings from it.
// An empty apiURL keeps API calls on the page's own origin.
func ConfigScript(apiURL string, recentDocumentCount int) string {
	return fmt.Sprintf(`window.pdfpresenterConfig = {
    apiURL: %s,
    recentDocumentCount: %d
};
`, strconv.Quote(apiURL), recentDocumentCount)
}
