package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/config"
	"github.com/drummonds/pdfpresenter/database"
	"github.com/drummonds/pdfpresenter/engine"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
	"github.com/drummonds/pdfpresenter/presenter"
)

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
	port := flag.String("port", "", "Port for the API server (overrides SERVER_PORT)")
	flag.Parse()

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages
	if *port != "" {
		serverConfig.ListenAddrPort = *port
	}

	repo, err := database.NewRepository(serverConfig)
	if err != nil {
		Logger.Error("Failed to set up database", "type", serverConfig.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	library, err := pdfrenderer.NewLibrary(serverConfig.RendererBackend)
	if err != nil {
		Logger.Error("Failed to load PDF library", "backend", serverConfig.RendererBackend, "error", err)
		os.Exit(1)
	}
	defer library.Close()

	e, serverHandler := newBackend(serverConfig, repo, library)
	scheduler := serverHandler.InitializeSchedules() //initialize all the cron jobs
	defer scheduler.Stop()
	if err := serverHandler.StartupChecks(); err != nil { //Run all the sanity checks
		Logger.Error("Startup checks failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
	Logger.Info("Starting API server", "address", addr, "renderer", library.Name())
	fmt.Printf("📡  pdfpresenter API on http://%s/api/ (health at /api/health)\n", addr)

	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		Logger.Error("API server stopped", "error", err)
		os.Exit(1)
	}
}

// newBackend builds the API only server. Every unknown path is an API path, so 404s are JSON.
func newBackend(serverConfig config.ServerConfig, repo database.Repository, library pdfrenderer.Library) (*echo.Echo, *engine.ServerHandler) {
	e := echo.New()
	e.HideBanner = true

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
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
	// the web app may be served from another origin by cmd/frontend -direct
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	serverHandler := engine.NewServerHandler(repo, e, serverConfig, library)
	serverHandler.RegisterRoutes()
	return e, serverHandler
}
