//go:build ocr

// Package ocr adapts the Tesseract OCR engine to the token interface the
// mosaic pipeline consumes: word-level text with bounding boxes and
// confidences.
//
// This package wraps Tesseract via gosseract and requires Tesseract to be
// installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"

	"github.com/docmosaic/mosaic/model"
)

// minRasterWidth is the page raster width below which the image is
// upscaled before recognition; Tesseract degrades sharply on low-DPI
// scans.
const minRasterWidth = 1200

// Client wraps Tesseract for token extraction.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for recognition.
// Multiple languages can be specified as a "+" separated string
// (e.g. "eng+fra"). Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode, which affects how
// Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}

// Tokens recognizes a page raster and returns its words as positioned
// tokens in page coordinates, tagged with the given page index. Empty
// words are dropped.
func (c *Client) Tokens(img image.Image, page int) ([]model.Token, error) {
	scale := 1.0
	if w := img.Bounds().Dx(); w > 0 && w < minRasterWidth {
		scale = float64(minRasterWidth) / float64(w)
		img = upscale(img, scale)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode raster: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	tokens := make([]model.Token, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		tokens = append(tokens, model.Token{
			Text: word,
			BBox: model.NewBBox(
				float64(box.Box.Min.X)/scale,
				float64(box.Box.Min.Y)/scale,
				float64(box.Box.Max.X)/scale,
				float64(box.Box.Max.Y)/scale,
			),
			Confidence: box.Confidence / 100,
			Page:       page,
		})
	}
	return tokens, nil
}

// upscale resizes the raster by the given factor with bilinear
// interpolation.
func upscale(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(b.Dx())*factor), int(float64(b.Dy())*factor)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
