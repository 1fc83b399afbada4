// Package presenter draws PDF pages onto canvases. Bytes come from the host
// bridge and all parsing and rasterization is left to the PDF library.
package presenter

import (
	"context"
	"log/slog"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/canvas"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

const (
	// DisplayScale is used for the page shown in the viewer and presenter
	DisplayScale = 1.5

	// ThumbnailScale is used for the thumbnail strip
	ThumbnailScale = 0.5
)

// Loader ties a host bridge to a PDF library
type Loader struct {
	Host    bridge.Host
	Library pdfrenderer.Library
}

// NewLoader creates a Loader
func NewLoader(host bridge.Host, library pdfrenderer.Library) *Loader {
	return &Loader{Host: host, Library: library}
}

// LoadResult is what LoadPDF hands back, the caller owns Document and must close it
type LoadResult struct {
	Document   pdfrenderer.Document
	TotalPages int
}

// Thumbnail pairs a 1-based page number with its PNG data URL
type Thumbnail struct {
	Page    int    `json:"page"`
	DataURL string `json:"dataUrl"`
}

// LoadPDF renders one page of the PDF at path into surface at DisplayScale.
// A pageNumber of 0 means the first page. The surface is resized to the page's viewport.
// Errors from the host or library are returned as they are.
func (l *Loader) LoadPDF(ctx context.Context, path string, surface *canvas.Canvas, pageNumber int) (*LoadResult, error) {
	if pageNumber == 0 {
		pageNumber = 1
	}

	data, err := l.Host.LoadPDFBytes(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := l.Library.OpenDocument(data)
	if err != nil {
		return nil, err
	}

	totalPages := doc.NumPages()
	page, err := doc.Page(pageNumber)
	if err != nil {
		doc.Close()
		return nil, err
	}

	viewport := page.Viewport(DisplayScale)
	surface.SetSize(viewport.PixelWidth(), viewport.PixelHeight())

	if err := page.Render(ctx, surface, viewport); err != nil {
		doc.Close()
		return nil, err
	}

	Logger.Debug("Rendered PDF page", "path", path, "page", pageNumber, "totalPages", totalPages,
		"width", surface.Width(), "height", surface.Height())

	return &LoadResult{Document: doc, TotalPages: totalPages}, nil
}

// LoadThumbnails renders every page of the PDF at path at ThumbnailScale, in page order.
// The first page that fails aborts the whole run.
func (l *Loader) LoadThumbnails(ctx context.Context, path string) ([]Thumbnail, error) {
	data, err := l.Host.LoadPDFBytes(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := l.Library.OpenDocument(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	numPages := doc.NumPages()
	thumbnails := make([]Thumbnail, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page, err := doc.Page(i)
		if err != nil {
			return nil, err
		}

		viewport := page.Viewport(ThumbnailScale)
		surface := canvas.New()
		surface.SetSize(viewport.PixelWidth(), viewport.PixelHeight())

		if err := page.Render(ctx, surface, viewport); err != nil {
			return nil, err
		}

		dataURL, err := surface.ToDataURL()
		if err != nil {
			return nil, err
		}

		thumbnails = append(thumbnails, Thumbnail{Page: i, DataURL: dataURL})
	}

	Logger.Debug("Generated thumbnails", "path", path, "count", len(thumbnails))
	return thumbnails, nil
}
