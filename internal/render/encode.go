// Package render turns source documents into fixed-size preview images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
)

// Format is an output encoding.
type Format int

const (
	JPEG Format = iota
	WebP
	PNG
)

const (
	jpegQuality = 90
	webpQuality = 80
)

// ContentType returns the mime type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case WebP:
		return "image/webp"
	case PNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

func (f Format) String() string {
	switch f {
	case WebP:
		return "webp"
	case PNG:
		return "png"
	default:
		return "jpeg"
	}
}

// Encode encodes img: WebP at quality 80, JPEG at quality 90, or lossless PNG.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case WebP:
		err = webp.Encode(&buf, img, webp.Options{Quality: webpQuality})
	case PNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// Contain scales img to fit inside width x height, keeping its aspect ratio, and centers it on a
// white canvas of exactly that size. Smaller images are enlarged.
func Contain(img image.Image, width, height int) *image.NRGBA {
	bg := imaging.New(width, height, color.White)

	b := img.Bounds()
	if b.Empty() {
		return bg
	}
	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	return imaging.OverlayCenter(bg, resized, 1.0)
}
