package render

import (
	"context"
	"fmt"
)

// Thumbnailer produces fixed-size previews of PDF documents.
type Thumbnailer struct {
	rasterizer Rasterizer
	width      int
	height     int
}

// NewThumbnailer returns a Thumbnailer rendering into a width x height box.
func NewThumbnailer(r Rasterizer, width, height int) *Thumbnailer {
	return &Thumbnailer{rasterizer: r, width: width, height: height}
}

// Thumbnail rasterizes the first page of pdf, fits it on a white canvas and encodes it as f.
func (t *Thumbnailer) Thumbnail(ctx context.Context, pdf []byte, f Format) ([]byte, error) {
	page, err := t.rasterizer.FirstPage(ctx, pdf, t.width, t.height)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	return Encode(Contain(page, t.width, t.height), f)
}
