package main

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/config"
	"github.com/drummonds/pdfpresenter/database"
	"github.com/drummonds/pdfpresenter/engine"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
	"github.com/drummonds/pdfpresenter/presenter"
	"github.com/drummonds/pdfpresenter/webapp"
)

//go:embed webapp/webapp.css
var webappFS embed.FS

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	database.Logger = Logger
	config.Logger = Logger
	engine.Logger = Logger
	bridge.Logger = Logger
	presenter.Logger = Logger
}

func main() {
	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	if serverConfig.DatabaseType == "ephemeral" {
		fmt.Println("🚀  Ephemeral database: document history is lost on exit")
	}

	db, err := database.NewRepository(serverConfig)
	if err != nil {
		Logger.Error("Failed to set up database", "type", serverConfig.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	library, err := pdfrenderer.NewLibrary(serverConfig.RendererBackend)
	if err != nil {
		Logger.Error("Failed to load PDF library", "backend", serverConfig.RendererBackend, "error", err)
		os.Exit(1)
	}
	defer library.Close()

	e, serverHandler := newServer(serverConfig, db, library)
	scheduler := serverHandler.InitializeSchedules() //initialize all the cron jobs
	defer scheduler.Stop()
	if err := serverHandler.StartupChecks(); err != nil { //Run all the sanity checks
		Logger.Error("Startup checks failed", "error", err)
		os.Exit(1)
	}

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}
	if err := startWithRetry(e.Start, serverConfig.ListenAddrIP, serverConfig.ListenAddrPort, 5); err != nil {
		Logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// startWithRetry calls start on port, moving to the next port while the address is in use.
// It returns when start returns for any other reason, a clean shutdown gives nil.
func startWithRetry(start func(addr string) error, ip, port string, attempts int) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}

	for attempt := 0; attempt < attempts; attempt++ {
		addr := net.JoinHostPort(ip, strconv.Itoa(portNum+attempt))
		Logger.Info("Starting HTTP server", "address", addr, "attempt", attempt+1)

		err := start(addr)
		switch {
		case err == nil || errors.Is(err, http.ErrServerClosed):
			return nil
		case !isAddressInUse(err):
			return err
		}
		Logger.Warn("Port already in use, trying next port", "address", addr)
	}
	return fmt.Errorf("no free port in %d..%d", portNum, portNum+attempts-1)
}

// newServer builds the combined API and web app server
func newServer(serverConfig config.ServerConfig, db database.Repository, library pdfrenderer.Library) (*echo.Echo, *engine.ServerHandler) {
	e := echo.New()
	e.HideBanner = true

	// Custom 404 handler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// API requests get JSON, everything else falls through to the web app's NotFoundPage
		if code == http.StatusNotFound && strings.HasPrefix(c.Request().URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, map[string]string{
				"error":   "Not Found",
				"message": "The requested API endpoint does not exist",
				"path":    c.Request().URL.Path,
			})
			return
		}

		e.DefaultHTTPErrorHandler(err, c)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	serverHandler := engine.NewServerHandler(db, e, serverConfig, library) //injecting the database into the handler for routes
	serverHandler.RegisterRoutes()

	Logger.Info("Setting up go-app WASM UI")
	appHandler := webapp.Handler()

	// wasm_exec.js and app.wasm are build outputs, served from disk
	e.GET("/wasm_exec.js", func(c echo.Context) error {
		return c.File("web/wasm_exec.js")
	})
	e.Static("/web", "web")

	// Register go-app specific resources
	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))

	// Serve CSS files from embedded filesystem
	e.GET("/webapp/webapp.css", func(c echo.Context) error {
		data, err := webappFS.ReadFile("webapp/webapp.css")
		if err != nil {
			return c.String(http.StatusNotFound, "webapp.css not found")
		}
		return c.Blob(http.StatusOK, "text/css", data)
	})

	// API and web app share an origin, so the browser uses relative API URLs
	e.GET("/config.js", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/javascript",
			[]byte(webapp.ConfigScript("", serverConfig.RecentDocumentCount)))
	})

	// Serve go-app handler for all other routes (must be last)
	// The WASM app handles its own client-side routing and 404s via NotFoundPage component
	e.Any("/*", echo.WrapHandler(appHandler))

	return e, serverHandler
}

// isAddressInUse checks if the error is due to address already in use
func isAddressInUse(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "address already in use")
}
