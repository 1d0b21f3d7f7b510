// Package assets embeds the static preview images: type icons, the localized 404 images
// and the vector template used for extension icons.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed files
var files embed.FS

const (
	ContentTypePNG = "image/png"
	ContentTypeSVG = "image/svg+xml"
)

// Image is an embedded asset and the content type it is served with.
type Image struct {
	Name        string
	Data        []byte
	ContentType string
}

// Icon returns the static PNG icon with the given name, e.g. "pdf".
func Icon(name string) (Image, error) {
	fn := strings.ToLower(name) + ".png"
	b, err := files.ReadFile(path.Join("files", fn))
	if err != nil {
		return Image{}, fmt.Errorf("icon %q: %w", name, err)
	}
	return Image{Name: fn, Data: b, ContentType: ContentTypePNG}, nil
}

// NotFound returns the "not found" image. SVG is chosen when the client accepts it; a culture
// listed in languages selects the localized variant.
func NotFound(acceptSVG bool, culture string, languages []string) Image {
	base := "404"
	if c := strings.ToLower(culture); c != "" && slices.Contains(languages, c) {
		if _, err := fs.Stat(files, path.Join("files", base+"_"+c+".png")); err == nil {
			base += "_" + c
		}
	}

	fn, ct := base+".png", ContentTypePNG
	if acceptSVG {
		fn, ct = base+".svg", ContentTypeSVG
	}
	return Image{Name: fn, Data: mustRead(fn), ContentType: ct}
}

// Template returns the SVG page template. Its band is filled with TemplateColor.
func Template() []byte {
	return mustRead("template.svg")
}

// TemplateColor is the band color in the template that gets replaced per extension.
const TemplateColor = "#4444ef"

func mustRead(fn string) []byte {
	b, err := files.ReadFile(path.Join("files", fn))
	if err != nil {
		panic(fmt.Sprintf("embedded asset %s: %v", fn, err))
	}
	return b
}
