package engine

import (
	"github.com/labstack/echo/v4"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/config"
	"github.com/drummonds/pdfpresenter/database"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
	"github.com/drummonds/pdfpresenter/presenter"
)

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	DB           database.Repository
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Host         bridge.Host
	Library      pdfrenderer.Library
	Loader       *presenter.Loader
	Events       *EventHub
}

// NewServerHandler wires the host bridge and PDF library together. The repository
// doubles as the store for the current PDF path.
func NewServerHandler(db database.Repository, e *echo.Echo, serverConfig config.ServerConfig, library pdfrenderer.Library) *ServerHandler {
	host := bridge.NewLocalHost(serverConfig.DocumentRoot, db)
	return &ServerHandler{
		DB:           db,
		Echo:         e,
		ServerConfig: serverConfig,
		Host:         host,
		Library:      library,
		Loader:       presenter.NewLoader(host, library),
		Events:       NewEventHub(),
	}
}

// UseHost swaps the host bridge, e.g. for an object store, the repository still keeps the current path
func (serverHandler *ServerHandler) UseHost(host bridge.Host) {
	serverHandler.Host = host
	serverHandler.Loader = presenter.NewLoader(host, serverHandler.Library)
}

// RegisterRoutes adds every API route to Echo, all under /api/*
func (serverHandler *ServerHandler) RegisterRoutes() {
	e := serverHandler.Echo

	// Host bridge routes
	e.GET("/api/pdf/bytes", serverHandler.GetPDFBytes)
	e.GET("/api/pdf/current", serverHandler.GetCurrentPDF)
	e.PUT("/api/pdf/current", serverHandler.SetCurrentPDF)

	// Presenter window sync
	e.GET("/api/presenter/events", serverHandler.PresenterEvents)
	e.PUT("/api/presenter/page", serverHandler.SetPresenterPage)

	// Rendering routes
	e.GET("/api/pdf/page", serverHandler.GetPage)
	e.GET("/api/pdf/thumbnails", serverHandler.GetThumbnails)
	e.GET("/api/pdf/text", serverHandler.GetPageText)

	// History routes
	e.GET("/api/documents/recent", serverHandler.GetRecentDocuments)
	e.GET("/api/document/:ulid", serverHandler.GetDocument)

	// Admin routes
	e.GET("/api/about", serverHandler.GetAboutInfo)
	e.GET("/api/health", serverHandler.GetHealth)
}
