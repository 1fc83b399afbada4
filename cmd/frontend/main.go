package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drummonds/pdfpresenter/config"
	"github.com/drummonds/pdfpresenter/webapp"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

func main() {
	port := flag.String("port", "3000", "Port to serve the web app on")
	apiURL := flag.String("api", "", "Backend API URL (overrides SERVER_API_URL)")
	direct := flag.Bool("direct", false, "Let the browser call the backend directly instead of through the /api proxy")
	flag.Parse()

	frontendConfig, logger := config.SetupFrontend()
	Logger = logger
	config.Logger = logger

	if *apiURL != "" {
		frontendConfig.ServerAPIURL = *apiURL
	}

	e, err := newFrontend(frontendConfig, *direct)
	if err != nil {
		Logger.Error("Unable to set up frontend", "backendAPI", frontendConfig.ServerAPIURL, "error", err)
		os.Exit(1)
	}

	addr := ":" + *port
	Logger.Info("Starting frontend server", "address", addr, "backendAPI", frontendConfig.ServerAPIURL, "direct", *direct)
	fmt.Printf("📄  pdfpresenter web app on http://localhost:%s (API at %s)\n", *port, frontendConfig.ServerAPIURL)

	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		Logger.Error("Frontend server stopped", "error", err)
		os.Exit(1)
	}
}

// newFrontend serves the web app and forwards /api, presenter websockets included, to the backend.
// With direct set the browser is pointed at the backend instead, which then has to allow CORS.
func newFrontend(frontendConfig config.FrontEndConfig, direct bool) (*echo.Echo, error) {
	backendURL, err := url.Parse(frontendConfig.ServerAPIURL)
	if err != nil || backendURL.Scheme == "" || backendURL.Host == "" {
		return nil, fmt.Errorf("invalid backend API URL %q", frontendConfig.ServerAPIURL)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	appHandler := webapp.Handler()
	e.GET("/wasm_exec.js", func(c echo.Context) error {
		return c.File("web/wasm_exec.js")
	})
	e.Static("/web", "web")
	e.File("/webapp/webapp.css", "webapp/webapp.css")
	for _, resource := range []string{"/app.js", "/app.css", "/manifest.webmanifest"} {
		e.GET(resource, echo.WrapHandler(appHandler))
	}

	browserAPIURL := ""
	if direct {
		browserAPIURL = frontendConfig.ServerAPIURL
	}
	e.GET("/config.js", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/javascript",
			[]byte(webapp.ConfigScript(browserAPIURL, frontendConfig.RecentDocumentCount)))
	})

	e.Group("/api", middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{URL: backendURL}}),
	}))

	e.Any("/*", echo.WrapHandler(appHandler))
	return e, nil
}
