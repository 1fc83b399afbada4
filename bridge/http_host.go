package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// CurrentPathPayload is the body of the current PDF endpoints
type CurrentPathPayload struct {
	Path string `json:"path"`
}

// HTTPHost runs the host commands against a pdfpresenter backend
type HTTPHost struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPHost creates a new HTTPHost for the backend at baseURL
func NewHTTPHost(baseURL string) *HTTPHost {
	return &HTTPHost{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// LoadPDFBytes downloads the PDF at path from the backend
func (h *HTTPHost) LoadPDFBytes(ctx context.Context, path string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/pdf/bytes?path=%s", h.BaseURL, url.QueryEscape(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call host: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp, path); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF bytes: %w", err)
	}
	return data, nil
}

// CurrentPDFPath asks the backend for the selected PDF
func (h *HTTPHost) CurrentPDFPath(ctx context.Context) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/api/pdf/current", nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to call host: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if err := statusError(resp, ""); err != nil {
		return "", false, err
	}

	var payload CurrentPathPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false, fmt.Errorf("failed to decode current path: %w", err)
	}
	return payload.Path, true, nil
}

// SetCurrentPDFPath selects path on the backend
func (h *HTTPHost) SetCurrentPDFPath(ctx context.Context, path string) error {
	body, err := json.Marshal(CurrentPathPayload{Path: path})
	if err != nil {
		return fmt.Errorf("failed to encode current path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, h.BaseURL+"/api/pdf/current", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call host: %w", err)
	}
	defer resp.Body.Close()

	return statusError(resp, path)
}

// statusError turns a non 2xx response into an error the rest of the app can match on
func statusError(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	message := strings.TrimSpace(string(bodyBytes))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", os.ErrNotExist, path)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	default:
		return fmt.Errorf("host returned error status %d: %s", resp.StatusCode, message)
	}
}
