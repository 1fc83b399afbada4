package webapp

import (
	"encoding/json"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// AboutInfo is the body of /api/about
type AboutInfo struct {
	Version         string  `json:"version"`
	Renderer        string  `json:"renderer"`
	DatabaseType    string  `json:"databaseType"`
	DocumentRoot    string  `json:"documentRoot"`
	DisplayScale    float64 `json:"displayScale"`
	ThumbnailScale  float64 `json:"thumbnailScale"`
	RetentionDays   int     `json:"retentionDays"`
	RecentDocuments int     `json:"recentDocuments"`
	ObjectStore     string  `json:"objectStore"` // bucket name, empty when reading from disk
	Presenters      int     `json:"presenters"`
}

// aboutSection is a titled group of label/value rows
type aboutSection struct {
	Title string
	Rows  [][2]string
}

// Sections lays the about information out for display
func (info AboutInfo) Sections() []aboutSection {
	return []aboutSection{
		{"Application", [][2]string{
			{"Version", info.Version},
			{"Renderer", info.rendererDisplay()},
			{"Database", info.databaseDisplay()},
		}},
		{"Rendering", [][2]string{
			{"Page scale", fmt.Sprintf("%gx", info.DisplayScale)},
			{"Thumbnail scale", fmt.Sprintf("%gx", info.ThumbnailScale)},
			{"Open presenter windows", fmt.Sprintf("%d", info.Presenters)},
		}},
		{"Documents", [][2]string{
			{"Read from", info.sourceDisplay()},
			{"History retention", info.retentionDisplay()},
			{"Recent documents listed", fmt.Sprintf("%d", info.RecentDocuments)},
		}},
	}
}

func (info AboutInfo) databaseDisplay() string {
	switch info.DatabaseType {
	case "postgres":
		return "PostgreSQL"
	case "cockroachdb":
		return "CockroachDB"
	case "sqlite":
		return "SQLite"
	case "ephemeral":
		return "Ephemeral PostgreSQL"
	default:
		return info.DatabaseType
	}
}

func (info AboutInfo) rendererDisplay() string {
	switch info.Renderer {
	case "pdfium":
		return "PDFium (WebAssembly)"
	case "fitz":
		return "MuPDF (go-fitz)"
	default:
		return info.Renderer
	}
}

func (info AboutInfo) sourceDisplay() string {
	switch {
	case info.ObjectStore != "":
		return "Object store bucket " + info.ObjectStore
	case info.DocumentRoot != "":
		return info.DocumentRoot
	default:
		return "Unrestricted"
	}
}

func (info AboutInfo) retentionDisplay() string {
	switch days := info.RetentionDays; {
	case days <= 0:
		return "Kept forever"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// AboutPage shows how the backend is configured
type AboutPage struct {
	app.Compo
	info    AboutInfo
	loading bool
	error   string
}

// OnMount is called when the component is mounted
func (a *AboutPage) OnMount(ctx app.Context) {
	a.loading = true
	fetchJSON(ctx, BuildAPIURL("/api/about"), nil,
		func(ctx app.Context, status int, body string) {
			a.loading = false
			if status != 200 {
				a.error = apiErrorMessage(status, body)
				return
			}
			if err := json.Unmarshal([]byte(body), &a.info); err != nil {
				a.error = fmt.Sprintf("Failed to parse response: %v", err)
			}
		},
		func(ctx app.Context) {
			a.loading = false
			a.error = "Network error"
		})
}

// Render renders the about page
func (a *AboutPage) Render() app.UI {
	var content app.UI
	switch {
	case a.loading:
		content = app.Div().Class("loading").Text("Loading...")
	case a.error != "":
		content = app.Div().Class("error").Text("Error: " + a.error)
	default:
		sections := make([]app.UI, 0, 3)
		for _, section := range a.info.Sections() {
			rows := make([]app.UI, 0, len(section.Rows))
			for _, row := range section.Rows {
				rows = append(rows, app.Div().Class("info-item").Body(
					app.Div().Class("info-label").Text(row[0]),
					app.Div().Class("info-value").Text(row[1]),
				))
			}
			sections = append(sections, app.Div().Class("about-section").Body(
				app.H3().Text(section.Title),
				app.Div().Class("info-grid").Body(rows...),
			))
		}
		content = app.Div().Class("about-content").Body(sections...)
	}

	return app.Div().Class("about-page").Body(
		app.H2().Text("About pdfpresenter"),
		content,
	)
}
