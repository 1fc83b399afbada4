package pdfrenderer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ledongthuc/pdf"
)

// pageSize is the displayed size of a page in points
type pageSize struct {
	Width, Height float64
}

// readPageSizes returns the size of every page in points, as shown on screen:
// the CropBox (MediaBox when there is none) turned by the page's /Rotate.
// MuPDF only reports whole points, this keeps the fractions.
func readPageSizes(data []byte) (sizes []pageSize, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read page sizes: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	sizes = make([]pageSize, reader.NumPage())
	for i := range sizes {
		page := reader.Page(i + 1).V
		box := inherited(page, "CropBox")
		if box.Len() != 4 {
			box = inherited(page, "MediaBox")
		}
		if box.Len() != 4 {
			return nil, fmt.Errorf("page %d has no MediaBox", i+1)
		}

		size := pageSize{
			Width:  math.Abs(box.Index(2).Float64() - box.Index(0).Float64()),
			Height: math.Abs(box.Index(3).Float64() - box.Index(1).Float64()),
		}
		if rotate := (int64(inherited(page, "Rotate").Float64())%360 + 360) % 360; rotate == 90 || rotate == 270 {
			size.Width, size.Height = size.Height, size.Width
		}
		sizes[i] = size
	}
	return sizes, nil
}

// inherited looks key up on the page, then on its ancestors in the page tree
func inherited(page pdf.Value, key string) pdf.Value {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		if value := v.Key(key); !value.IsNull() {
			return value
		}
	}
	return pdf.Value{}
}
