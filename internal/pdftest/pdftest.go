// Package pdftest builds small, well formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Letter is the US letter page size in points
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Document returns a PDF with the given number of pages of size width x height points.
// Page n shows the text "Page n" in Helvetica and a filled square.
func Document(pages int, width, height float64) []byte {
	var buf bytes.Buffer
	// object number -> byte offset, index 0 is the free list head
	offsets := []int{0}

	startObject := func() {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", len(offsets)-1)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// 1: catalog, 2: pages, 3: font, then a page and content stream per page
	startObject()
	buf.WriteString("<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	startObject()
	buf.WriteString("<< /Type /Pages /Kids [")
	for i := 0; i < pages; i++ {
		fmt.Fprintf(&buf, " %d 0 R", 4+2*i)
	}
	fmt.Fprintf(&buf, " ] /Count %d >>\nendobj\n", pages)

	startObject()
	buf.WriteString("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i := 0; i < pages; i++ {
		startObject()
		fmt.Fprintf(&buf, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			width, height, 5+2*i)

		content := fmt.Sprintf("BT /F1 24 Tf 36 %g Td (Page %d) Tj ET\n0 0 1 rg 36 36 72 72 re f\n", height/2, i+1)
		startObject()
		fmt.Fprintf(&buf, "<< /Length %d >>\nstream\n%sendstream\nendobj\n", len(content), content)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefOffset)

	return buf.Bytes()
}

// WriteFile writes a letter sized document with the given number of pages into
// a temporary directory and returns its path
func WriteFile(t testing.TB, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fmt.Sprintf("deck-%d.pdf", pages))
	if err := os.WriteFile(path, Document(pages, LetterWidth, LetterHeight), 0644); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}
