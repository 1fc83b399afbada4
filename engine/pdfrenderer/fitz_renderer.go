package pdfrenderer

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/drummonds/pdfpresenter/canvas"
)

// FitzLibrary implements PDF rendering using go-fitz (requires CGo and MuPDF)
type FitzLibrary struct {
}

// NewFitzLibrary creates a new Fitz-based PDF library
func NewFitzLibrary() (*FitzLibrary, error) {
	return &FitzLibrary{}, nil
}

// Name of the backend
func (l *FitzLibrary) Name() string {
	return "fitz"
}

// OpenDocument opens a PDF held in memory with MuPDF
func (l *FitzLibrary) OpenDocument(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	// sizes stays nil when they can't be read, pages then fall back to MuPDF's whole point bounds
	sizes, err := readPageSizes(data)
	if err != nil || len(sizes) != doc.NumPage() {
		sizes = nil
	}
	return &fitzDocument{doc: doc, sizes: sizes}, nil
}

// Close is a no-op, documents are closed individually
func (l *FitzLibrary) Close() error {
	return nil
}

type fitzDocument struct {
	doc   *fitz.Document
	sizes []pageSize
}

func (d *fitzDocument) NumPages() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Page(number int) (Page, error) {
	// go-fitz only range checks the upper bound
	if number < 1 {
		return nil, fmt.Errorf("unable to load page %d: %w: %w", number, ErrPageOutOfRange, fitz.ErrPageMissing)
	}
	bounds, err := d.doc.Bound(number - 1)
	if err != nil {
		if number > d.doc.NumPage() {
			return nil, fmt.Errorf("unable to load page %d: %w: %w", number, ErrPageOutOfRange, err)
		}
		return nil, fmt.Errorf("unable to load page %d: %w", number, err)
	}

	size := pageSize{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
	if d.sizes != nil {
		size = d.sizes[number-1]
	}
	return &fitzPage{doc: d.doc, number: number, size: size}, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

type fitzPage struct {
	doc    *fitz.Document
	number int
	size   pageSize
}

func (p *fitzPage) Number() int {
	return p.number
}

func (p *fitzPage) Viewport(scale float64) Viewport {
	return NewViewport(p.size.Width, p.size.Height, scale)
}

func (p *fitzPage) Render(_ context.Context, surface *canvas.Canvas, viewport Viewport) error {
	img, err := p.doc.ImageDPI(p.number-1, viewport.DPI())
	if err != nil {
		return fmt.Errorf("unable to render page %d: %w", p.number, err)
	}
	drawFitted(surface, img, viewport)
	return nil
}
