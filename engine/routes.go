package engine

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/canvas"
	"github.com/drummonds/pdfpresenter/database"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
	"github.com/drummonds/pdfpresenter/internal/build"
	"github.com/drummonds/pdfpresenter/presenter"
)

// PageResponse is a rendered page
type PageResponse struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	DataURL    string  `json:"dataUrl"`
	Scale      float64 `json:"scale"`
}

// PageTextResponse is the text of a page, shown as speaker notes
type PageTextResponse struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// errorResponse maps host and library errors onto HTTP status codes
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, bridge.ErrNoCurrentPath),
		errors.Is(err, database.ErrDocumentNotFound),
		errors.Is(err, pdfrenderer.ErrPageOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, bridge.ErrOutsideRoot):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		Logger.Error("Request failed", "uri", c.Request().RequestURI, "error", err)
	} else {
		Logger.Warn("Request rejected", "uri", c.Request().RequestURI, "status", status, "error", err)
	}
	return c.JSON(status, map[string]string{
		"error": err.Error(),
	})
}

// requestedPath returns the path query parameter, or the current PDF when it is missing
func (serverHandler *ServerHandler) requestedPath(c echo.Context) (string, error) {
	if path := c.QueryParam("path"); path != "" {
		return path, nil
	}
	path, ok, err := serverHandler.Host.CurrentPDFPath(c.Request().Context())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", bridge.ErrNoCurrentPath
	}
	return path, nil
}

// queryInt parses an optional integer query parameter
func queryInt(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

// GetPDFBytes returns the raw bytes of a PDF
func (serverHandler *ServerHandler) GetPDFBytes(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "path is required",
		})
	}

	data, err := serverHandler.Host.LoadPDFBytes(c.Request().Context(), path)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// GetCurrentPDF returns the PDF selected for the presenter
func (serverHandler *ServerHandler) GetCurrentPDF(c echo.Context) error {
	path, ok, err := serverHandler.Host.CurrentPDFPath(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	if !ok {
		return errorResponse(c, bridge.ErrNoCurrentPath)
	}
	return c.JSON(http.StatusOK, bridge.CurrentPathPayload{Path: path})
}

// SetCurrentPDF selects the PDF shown by the presenter
func (serverHandler *ServerHandler) SetCurrentPDF(c echo.Context) error {
	var payload bridge.CurrentPathPayload
	if err := c.Bind(&payload); err != nil || payload.Path == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "a JSON body with a path is required",
		})
	}

	if err := serverHandler.Host.SetCurrentPDFPath(c.Request().Context(), payload.Path); err != nil {
		return errorResponse(c, err)
	}
	serverHandler.Events.Broadcast(PresenterEvent{Type: "current", Path: payload.Path})
	return c.JSON(http.StatusOK, payload)
}

// GetPage renders one page at the display scale
func (serverHandler *ServerHandler) GetPage(c echo.Context) error {
	path, err := serverHandler.requestedPath(c)
	if err != nil {
		return errorResponse(c, err)
	}
	pageNumber, err := queryInt(c, "page", 1)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "page must be a number",
		})
	}

	surface := canvas.New()
	result, err := serverHandler.Loader.LoadPDF(c.Request().Context(), path, surface, pageNumber)
	if err != nil {
		return errorResponse(c, err)
	}
	defer result.Document.Close()

	dataURL, err := surface.ToDataURL()
	if err != nil {
		return errorResponse(c, err)
	}

	if _, err := serverHandler.DB.RecordDocumentOpened(path, result.TotalPages); err != nil {
		Logger.Warn("Unable to record document in history", "path", path, "error", err)
	}

	if pageNumber == 0 {
		pageNumber = 1
	}

	return c.JSON(http.StatusOK, PageResponse{
		Page:       pageNumber,
		TotalPages: result.TotalPages,
		Width:      surface.Width(),
		Height:     surface.Height(),
		DataURL:    dataURL,
		Scale:      presenter.DisplayScale,
	})
}

// GetThumbnails renders every page at the thumbnail scale
func (serverHandler *ServerHandler) GetThumbnails(c echo.Context) error {
	path, err := serverHandler.requestedPath(c)
	if err != nil {
		return errorResponse(c, err)
	}

	thumbnails, err := serverHandler.Loader.LoadThumbnails(c.Request().Context(), path)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, thumbnails)
}

// GetPageText returns the text of a page
func (serverHandler *ServerHandler) GetPageText(c echo.Context) error {
	path, err := serverHandler.requestedPath(c)
	if err != nil {
		return errorResponse(c, err)
	}
	pageNumber, err := queryInt(c, "page", 1)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "page must be a number",
		})
	}

	data, err := serverHandler.Host.LoadPDFBytes(c.Request().Context(), path)
	if err != nil {
		return errorResponse(c, err)
	}

	text, err := pdfrenderer.ExtractPageText(data, pageNumber)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, PageTextResponse{Page: pageNumber, Text: text})
}

// GetRecentDocuments lists the most recently opened documents
func (serverHandler *ServerHandler) GetRecentDocuments(c echo.Context) error {
	defaultLimit := serverHandler.ServerConfig.RecentDocumentCount
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "limit must be a positive number",
		})
	}

	docs, err := serverHandler.DB.GetRecentDocuments(limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}

// GetDocument returns a single history entry by ULID
func (serverHandler *ServerHandler) GetDocument(c echo.Context) error {
	doc, err := serverHandler.DB.GetDocumentByULID(c.Param("ulid"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// GetAboutInfo returns information about the application configuration
func (serverHandler *ServerHandler) GetAboutInfo(c echo.Context) error {
	aboutInfo := map[string]interface{}{
		"version":         build.Version,
		"renderer":        serverHandler.Library.Name(),
		"databaseType":    serverHandler.ServerConfig.DatabaseType,
		"documentRoot":    serverHandler.ServerConfig.DocumentRoot,
		"displayScale":    presenter.DisplayScale,
		"thumbnailScale":  presenter.ThumbnailScale,
		"retentionDays":   serverHandler.ServerConfig.HistoryRetentionDays,
		"recentDocuments": serverHandler.ServerConfig.RecentDocumentCount,
		"objectStore":     serverHandler.ServerConfig.S3Bucket,
		"presenters":      serverHandler.Events.Count(),
	}

	return c.JSON(http.StatusOK, aboutInfo)
}

// GetHealth is the service health check
func (serverHandler *ServerHandler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pdfpresenter API",
	})
}
