// Package canvas is an off-screen drawing surface with the sizing and data URL
// behaviour of an HTML canvas element.
package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// Default size of a freshly created canvas element
const (
	DefaultWidth  = 300
	DefaultHeight = 150
)

// Canvas is a 2D drawing surface backed by an NRGBA image
type Canvas struct {
	img *image.NRGBA
}

// New creates a transparent canvas at the default size
func New() *Canvas {
	c := &Canvas{}
	c.SetSize(DefaultWidth, DefaultHeight)
	return c
}

// NewWithSize creates a transparent canvas of the given size
func NewWithSize(width, height int) *Canvas {
	c := &Canvas{}
	c.SetSize(width, height)
	return c
}

// SetSize resizes the canvas. As with a canvas element any existing content is cleared.
func (c *Canvas) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.img = image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Width of the canvas in pixels
func (c *Canvas) Width() int {
	return c.img.Bounds().Dx()
}

// Height of the canvas in pixels
func (c *Canvas) Height() int {
	return c.img.Bounds().Dy()
}

// DrawImage composites img onto the canvas with its top left corner at (x, y).
// Anything falling outside the canvas is clipped.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	if c.Width() == 0 || c.Height() == 0 {
		return
	}
	c.img = imaging.Overlay(c.img, img, image.Pt(x, y), 1.0)
}

// Image returns the current content of the canvas
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// EncodePNG writes the canvas content as PNG
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// ToDataURL returns the canvas as a base64 PNG data URL. A canvas with no area
// gives "data:," like a browser does.
func (c *Canvas) ToDataURL() (string, error) {
	if c.Width() == 0 || c.Height() == 0 {
		return "data:,", nil
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
