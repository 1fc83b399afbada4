package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/drummonds/pdfpresenter/bridge"
	"github.com/drummonds/pdfpresenter/canvas"
	"github.com/drummonds/pdfpresenter/config"
	"github.com/drummonds/pdfpresenter/engine/pdfrenderer"
	"github.com/drummonds/pdfpresenter/presenter"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

type RenderResponse struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Image      string `json:"image"` // PNG data URL
	Error      string `json:"error,omitempty"`
}

type ThumbnailsResponse struct {
	Thumbnails []presenter.Thumbnail `json:"thumbnails"`
	Error      string                `json:"error,omitempty"`
}

type ExtractTextResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	PageCount int    `json:"pageCount,omitempty"`
	Bytes     int    `json:"bytes"`
	Error     string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Renderer  string `json:"renderer"`
	Timestamp string `json:"timestamp"`
}

var errNoSource = errors.New("no PDF file provided")

// uploadHost serves a single uploaded PDF to the presenter
type uploadHost struct {
	name string
	data []byte
}

func (h *uploadHost) LoadPDFBytes(_ context.Context, path string) ([]byte, error) {
	if path != h.name {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return h.data, nil
}

func (h *uploadHost) CurrentPDFPath(_ context.Context) (string, bool, error) {
	return h.name, true, nil
}

func (h *uploadHost) SetCurrentPDFPath(_ context.Context, _ string) error {
	return errors.New("an uploaded PDF can't be replaced")
}

// service renders uploaded PDFs, or PDFs fetched from a remote host when one is configured
type service struct {
	library pdfrenderer.Library
	remote  bridge.Host // nil when HOST_URL is not set
}

func main() {
	api.DisableConfigDir()
	serverConfig, logger := config.SetupServer()
	Logger = logger
	config.Logger = logger
	bridge.Logger = logger
	presenter.Logger = logger

	port := os.Getenv("PORT")
	if port == "" {
		port = "8002"
	}

	library, err := pdfrenderer.NewLibrary(serverConfig.RendererBackend)
	if err != nil {
		Logger.Error("Failed to load PDF library", "backend", serverConfig.RendererBackend, "error", err)
		os.Exit(1)
	}
	defer library.Close()

	svc := &service{library: library}
	if serverConfig.HostURL != "" {
		Logger.Info("Reading PDFs by path from remote host", "url", serverConfig.HostURL)
		svc.remote = bridge.NewHTTPHost(serverConfig.HostURL)
	}

	Logger.Info("Starting PDF service", "port", port, "renderer", library.Name())
	if err := http.ListenAndServe(":"+port, svc.routes()); err != nil {
		Logger.Error("PDF service stopped", "error", err)
		os.Exit(1)
	}
}

func (s *service) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/pdf/render", s.renderHandler)
	mux.HandleFunc("/pdf/thumbnails", s.thumbnailsHandler)
	mux.HandleFunc("/pdf/extract-text", s.extractTextHandler)
	mux.HandleFunc("/pdf/validate", s.validateHandler)
	return mux
}

func (s *service) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Renderer:  s.library.Name(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// loader picks the PDF out of the request: an uploaded "pdf" file or a "path" on the remote host
func (s *service) loader(r *http.Request) (*presenter.Loader, string, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, "", fmt.Errorf("failed to parse form: %w", err)
	}

	file, header, err := r.FormFile("pdf")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read PDF file: %w", err)
		}
		Logger.Info("Processing uploaded PDF", "file", header.Filename, "bytes", len(data))
		host := &uploadHost{name: header.Filename, data: data}
		return presenter.NewLoader(host, s.library), header.Filename, nil
	}

	if path := r.FormValue("path"); path != "" && s.remote != nil {
		Logger.Info("Processing remote PDF", "path", path)
		return presenter.NewLoader(s.remote, s.library), path, nil
	}
	return nil, "", errNoSource
}

func (s *service) renderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loader, path, err := s.loader(r)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	pageNumber := 1
	if raw := r.FormValue("page"); raw != "" {
		pageNumber, err = strconv.Atoi(raw)
		if err != nil {
			sendErrorResponse(w, "page must be a number", http.StatusBadRequest)
			return
		}
	}

	surface := canvas.New()
	result, err := loader.LoadPDF(r.Context(), path, surface, pageNumber)
	if err != nil {
		Logger.Error("Render failed", "path", path, "page", pageNumber, "error", err)
		sendErrorResponse(w, fmt.Sprintf("Render failed: %v", err), statusFor(err))
		return
	}
	defer result.Document.Close()

	dataURL, err := surface.ToDataURL()
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if pageNumber == 0 {
		pageNumber = 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RenderResponse{
		Page:       pageNumber,
		TotalPages: result.TotalPages,
		Width:      surface.Width(),
		Height:     surface.Height(),
		Image:      dataURL,
	})
}

func (s *service) thumbnailsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loader, path, err := s.loader(r)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	thumbnails, err := loader.LoadThumbnails(r.Context(), path)
	if err != nil {
		Logger.Error("Thumbnails failed", "path", path, "error", err)
		sendErrorResponse(w, fmt.Sprintf("Thumbnails failed: %v", err), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ThumbnailsResponse{Thumbnails: thumbnails})
}

func (s *service) extractTextHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loader, path, err := s.loader(r)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := loader.Host.LoadPDFBytes(r.Context(), path)
	if err != nil {
		sendErrorResponse(w, err.Error(), statusFor(err))
		return
	}

	text, err := pdfrenderer.ExtractText(data)
	if err != nil {
		Logger.Error("Text extraction failed", "path", path, "error", err)
		sendErrorResponse(w, fmt.Sprintf("Text extraction failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ExtractTextResponse{Text: text})
}

// validateHandler checks the PDF structure without rendering it, invalid files get a 422
func (s *service) validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loader, path, err := s.loader(r)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := loader.Host.LoadPDFBytes(r.Context(), path)
	if err != nil {
		sendErrorResponse(w, err.Error(), statusFor(err))
		return
	}

	response, status := validatePDF(data), http.StatusOK
	if !response.Valid {
		Logger.Warn("PDF failed validation", "path", path, "error", response.Error)
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// validatePDF runs pdfcpu in relaxed mode, the same leniency the renderers show
func validatePDF(data []byte) ValidateResponse {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	response := ValidateResponse{Bytes: len(data)}
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		response.Error = err.Error()
		return response
	}
	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		response.Error = err.Error()
		return response
	}
	response.Valid = true
	response.PageCount = pageCount
	return response
}

// statusFor maps host errors onto HTTP status codes, library errors are 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, pdfrenderer.ErrPageOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, bridge.ErrOutsideRoot):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]string{
		"error": message,
	}
	json.NewEncoder(w).Encode(response)
}
