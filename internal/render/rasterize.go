package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gen2brain/go-fitz"
)

// ErrEmptyDocument is returned when a document has no page to render.
var ErrEmptyDocument = errors.New("document has no pages")

// Rasterizer converts the first page of a document into a bitmap that fits the given box.
type Rasterizer interface {
	FirstPage(ctx context.Context, doc []byte, width, height int) (image.Image, error)
}

// FitzRasterizer renders PDF pages with MuPDF.
type FitzRasterizer struct{}

const pointsPerInch = 72.0

// FirstPage renders page one at the resolution that makes it fit width x height.
func (FitzRasterizer) FirstPage(ctx context.Context, doc []byte, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer d.Close()

	if d.NumPage() < 1 {
		return nil, ErrEmptyDocument
	}

	dpi := pointsPerInch
	if bound, err := d.Bound(0); err == nil && !bound.Empty() {
		dpi = pointsPerInch * math.Min(float64(width)/float64(bound.Dx()), float64(height)/float64(bound.Dy()))
	}

	img, err := d.ImageDPI(0, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page 1: %w", err)
	}
	return img, nil
}
