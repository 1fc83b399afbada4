package pdfrenderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/drummonds/pdfpresenter/canvas"
)

// PDFiumLibrary implements PDF rendering using go-pdfium with WebAssembly (pure Go, no CGo)
type PDFiumLibrary struct {
	// a single instance is not safe for concurrent use
	mu       sync.Mutex
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumLibrary creates a new PDFium-based PDF library using WebAssembly
func NewPDFiumLibrary() (*PDFiumLibrary, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1, // Minimum idle workers
		MaxIdle:  1, // Maximum idle workers
		MaxTotal: 1, // Total worker limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	// Get a PDFium instance from the pool
	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumLibrary{
		pool:     pool,
		instance: instance,
	}, nil
}

// Name of the backend
func (l *PDFiumLibrary) Name() string {
	return "pdfium"
}

// OpenDocument loads a PDF held in memory into the PDFium instance
func (l *PDFiumLibrary) OpenDocument(data []byte) (Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}

	pageCountResp, err := l.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		l.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, fmt.Errorf("unable to get page count: %w", err)
	}

	return &pdfiumDocument{lib: l, ref: doc.Document, pages: pageCountResp.PageCount}, nil
}

// Close cleans up resources used by the PDFium library
func (l *PDFiumLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.instance != nil {
		l.instance.Close()
		l.instance = nil
	}
	if l.pool != nil {
		l.pool.Close()
		l.pool = nil
	}
	return nil
}

type pdfiumDocument struct {
	lib   *PDFiumLibrary
	ref   references.FPDF_DOCUMENT
	pages int
}

func (d *pdfiumDocument) NumPages() int {
	return d.pages
}

func (d *pdfiumDocument) pageRequest(number int) requests.Page {
	return requests.Page{
		ByIndex: &requests.PageByIndex{
			Document: d.ref,
			Index:    number - 1,
		},
	}
}

func (d *pdfiumDocument) Page(number int) (Page, error) {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()

	size, err := d.lib.instance.GetPageSize(&requests.GetPageSize{
		Page: d.pageRequest(number),
	})
	if err != nil {
		if number < 1 || number > d.pages {
			return nil, fmt.Errorf("unable to load page %d: %w: %w", number, ErrPageOutOfRange, err)
		}
		return nil, fmt.Errorf("unable to load page %d: %w", number, err)
	}

	return &pdfiumPage{doc: d, number: number, width: size.Width, height: size.Height}, nil
}

func (d *pdfiumDocument) Close() error {
	d.lib.mu.Lock()
	defer d.lib.mu.Unlock()

	if _, err := d.lib.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.ref,
	}); err != nil {
		return fmt.Errorf("unable to close PDF document: %w", err)
	}
	return nil
}

type pdfiumPage struct {
	doc    *pdfiumDocument
	number int
	width  float64 // in points
	height float64
}

func (p *pdfiumPage) Number() int {
	return p.number
}

func (p *pdfiumPage) Viewport(scale float64) Viewport {
	return NewViewport(p.width, p.height, scale)
}

func (p *pdfiumPage) Render(_ context.Context, surface *canvas.Canvas, viewport Viewport) error {
	if viewport.PixelWidth() <= 0 || viewport.PixelHeight() <= 0 {
		return nil
	}

	p.doc.lib.mu.Lock()
	defer p.doc.lib.mu.Unlock()

	pageRender, err := p.doc.lib.instance.RenderPageInPixels(&requests.RenderPageInPixels{
		Page:   p.doc.pageRequest(p.number),
		Width:  viewport.PixelWidth(),
		Height: viewport.PixelHeight(),
	})
	if err != nil {
		return fmt.Errorf("unable to render page %d: %w", p.number, err)
	}
	// Clean up WebAssembly resources once the bitmap is on the canvas
	defer pageRender.Cleanup()

	drawFitted(surface, pageRender.Result.Image, viewport)
	return nil
}
