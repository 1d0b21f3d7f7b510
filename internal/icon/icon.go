// Package icon synthesizes a preview icon for file extensions without a dedicated asset.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"contentapi/internal/assets"
	"contentapi/internal/render"
)

const (
	size       = 280
	maxLabel   = 5
	maxHashed  = 3
	labelY     = 185.0
	fontPoints = 44.0
)

var palette = []string{
	"#efefef",
	"#44efef",
	"#efef44",
	"#ef44ef",
	"#44ef44",
	"#ef4444",
	"#4444ef",
	"#444444",
}

// Hash weights the first three characters of the lower-cased extension by position: c0 + c1*2 + c2*4.
func Hash(ext string) int {
	h, w := 0, 1
	for i, r := range []rune(strings.ToLower(ext)) {
		if i == maxHashed {
			break
		}
		h += int(r) * w
		w *= 2
	}
	return h
}

// Color returns the band color for ext.
func Color(ext string) string {
	return palette[Hash(ext)%len(palette)]
}

// Label is the text drawn on the icon: at most five upper-cased characters.
func Label(ext string) string {
	r := []rune(strings.ToUpper(ext))
	if len(r) > maxLabel {
		r = r[:maxLabel]
	}
	return string(r)
}

// SVG returns the page template with its band recolored for ext.
func SVG(ext string) []byte {
	return bytes.Replace(assets.Template(), []byte(assets.TemplateColor), []byte(Color(ext)), 1)
}

// Render draws the icon for ext and encodes it as WebP when webp is set, PNG otherwise.
// The output depends only on its arguments.
func Render(ext string, webp bool) ([]byte, string, error) {
	img, err := draw(ext)
	if err != nil {
		return nil, "", err
	}
	f := render.PNG
	if webp {
		f = render.WebP
	}
	b, err := render.Encode(img, f)
	if err != nil {
		return nil, "", err
	}
	return b, f.ContentType(), nil
}

func draw(ext string) (image.Image, error) {
	tpl, err := oksvg.ReadIconStream(bytes.NewReader(SVG(ext)))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	tpl.SetTarget(0, 0, size, size)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	tpl.Draw(rasterx.NewDasher(size, size, scanner), 1)

	face, err := labelFace()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	dc := gg.NewContextForRGBA(rgba)
	dc.SetFontFace(face)
	dc.SetHexColor(textColor(Color(ext)))
	dc.DrawStringAnchored(Label(ext), size/2, labelY, 0.5, 0.5)
	return dc.Image(), nil
}

var labelFace = sync.OnceValues(func() (font.Face, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: fontPoints}), nil
})

// textColor picks dark text on light bands.
func textColor(band string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(band, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "#ffffff"
	}
	if 299*r+587*g+114*b > 150_000 {
		return "#444444"
	}
	return "#ffffff"
}
