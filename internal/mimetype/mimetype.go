// Package mimetype maps a document mime type to the way its preview is produced.
package mimetype

import "strings"

// Strategy is the closed set of preview strategies.
type Strategy int

const (
	// Synthesize draws an extension icon.
	Synthesize Strategy = iota
	// Redirect sends the client to the image-resizing endpoint.
	Redirect
	// StaticIcon serves a pre-rendered icon asset.
	StaticIcon
	// PDF renders the first page through the preview cache.
	PDF
	// Video serves an artifact produced out-of-band, if any.
	Video
)

func (s Strategy) String() string {
	switch s {
	case Synthesize:
		return "synthesize"
	case Redirect:
		return "redirect"
	case StaticIcon:
		return "static_icon"
	case PDF:
		return "pdf"
	case Video:
		return "video"
	}
	return "unknown"
}

// Rule is the classification of a mime type. Icon names the static asset for StaticIcon.
type Rule struct {
	Strategy Strategy
	Icon     string
}

// Static icon names.
const (
	IconTIF = "tif"
	IconTXT = "txt"
	IconPSD = "psd"
	IconPS  = "ps"
	IconPPT = "ppt"
	IconXLS = "xls"
	IconDOC = "doc"
	IconZIP = "zip"
	IconPDF = "pdf"
)

var rules = map[string]Rule{
	"image/bmp":     {Strategy: Redirect},
	"image/gif":     {Strategy: Redirect},
	"image/jpeg":    {Strategy: Redirect},
	"image/pjpeg":   {Strategy: Redirect},
	"image/png":     {Strategy: Redirect},
	"image/svg+xml": {Strategy: Redirect},
	"image/webp":    {Strategy: Redirect},

	"image/tiff":                                {Strategy: StaticIcon, Icon: IconTIF},
	"text/plain":                                {Strategy: StaticIcon, Icon: IconTXT},
	"document-image/vnd.adobe.photoshop":        {Strategy: StaticIcon, Icon: IconPSD},
	"document-application/postscript":           {Strategy: StaticIcon, Icon: IconPS},
	"document-application/vnd.ms-powerpoint":    {Strategy: StaticIcon, Icon: IconPPT},
	"document-application/vnd.ms-excel":         {Strategy: StaticIcon, Icon: IconXLS},
	"application/msword":                        {Strategy: StaticIcon, Icon: IconDOC},
	"application/x-compressed":                  {Strategy: StaticIcon, Icon: IconZIP},
	"application/x-zip-compressed":              {Strategy: StaticIcon, Icon: IconZIP},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {Strategy: StaticIcon, Icon: IconXLS},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {Strategy: StaticIcon, Icon: IconDOC},

	"application/pdf": {Strategy: PDF},
}

const videoPrefix = "video/"

// Classify returns the preview rule for a mime type. Lookups are case-insensitive and
// ignore parameters such as "; charset=utf-8".
func Classify(mime string) Rule {
	m := normalize(mime)
	if r, ok := rules[m]; ok {
		return r
	}
	if strings.HasPrefix(m, videoPrefix) {
		return Rule{Strategy: Video}
	}
	return Rule{Strategy: Synthesize}
}

// IsImage reports whether mime is any image type.
func IsImage(mime string) bool {
	return strings.HasPrefix(normalize(mime), "image/")
}

func normalize(mime string) string {
	m, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(m))
}
