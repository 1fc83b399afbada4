package pdfrenderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/drummonds/pdfpresenter/canvas"
)

// PointsPerInch is the PDF user space unit, a scale of 1 renders at 72 DPI
const PointsPerInch = 72.0

// ErrUnknownBackend is returned by NewLibrary for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown renderer backend")

// Library opens PDF documents from raw bytes
type Library interface {
	// OpenDocument parses data and returns a handle to the document
	OpenDocument(data []byte) (Document, error)

	// Name identifies the backend, used in logs and the about endpoint
	Name() string

	// Close cleans up any resources used by the library
	Close() error
}

// Document is an opened PDF. Handles hold native or WebAssembly memory so they must be closed.
type Document interface {
	NumPages() int

	// Page returns the 1-based page number. Out of range numbers give the backend's own error,
	// wrapped with ErrPageOutOfRange.
	Page(number int) (Page, error)

	Close() error
}

// Page is a single page of a Document
type Page interface {
	Number() int

	// Viewport describes the page rendered at scale
	Viewport(scale float64) Viewport

	// Render rasterizes the page into surface at the size described by viewport
	Render(ctx context.Context, surface *canvas.Canvas, viewport Viewport) error
}

// Viewport is the size of a page at a given scale, in CSS pixels
type Viewport struct {
	Scale  float64 `json:"scale"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewViewport scales a page size given in points
func NewViewport(pageWidth, pageHeight, scale float64) Viewport {
	return Viewport{
		Scale:  scale,
		Width:  pageWidth * scale,
		Height: pageHeight * scale,
	}
}

// PixelWidth is the width a canvas gets when assigned this viewport's width
func (v Viewport) PixelWidth() int {
	return int(v.Width)
}

// PixelHeight is the height a canvas gets when assigned this viewport's height
func (v Viewport) PixelHeight() int {
	return int(v.Height)
}

// DPI is the rasterization resolution matching the viewport scale
func (v Viewport) DPI() float64 {
	return v.Scale * PointsPerInch
}

// NewLibrary creates the PDF library for the configured backend, PDFium unless asked otherwise
func NewLibrary(backend string) (Library, error) {
	switch backend {
	case "", "pdfium":
		return NewPDFiumLibrary()
	case "fitz", "mupdf":
		return NewFitzLibrary()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// drawFitted draws a rasterized page into surface. Backends round page bounds
// differently, so the image is resized when it is off from the viewport by a pixel or two.
func drawFitted(surface *canvas.Canvas, img image.Image, viewport Viewport) {
	width, height := viewport.PixelWidth(), viewport.PixelHeight()
	if width <= 0 || height <= 0 {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	surface.DrawImage(img, 0, 0)
}
