package pdfrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrPageOutOfRange is returned for a page the document doesn't have
var ErrPageOutOfRange = errors.New("page out of range")

// ExtractPageText returns the plain text of a 1-based page, shown as speaker notes by the presenter
func ExtractPageText(data []byte, pageNumber int) (text string, err error) {
	// ledongthuc/pdf panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF text: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	totalPages := reader.NumPage()
	if pageNumber < 1 || pageNumber > totalPages {
		return "", fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNumber, totalPages)
	}

	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageNumber, err)
	}
	return text, nil
}

// ExtractText returns the plain text of every page. Pages whose text can't be read are skipped.
func ExtractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF text: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fullText.WriteString(pageText)
	}
	return fullText.String(), nil
}
