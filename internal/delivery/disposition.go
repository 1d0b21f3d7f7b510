package delivery

import (
	"strconv"
	"strings"

	"contentapi/internal/model"
)

// Mode selects the Content-Disposition strategy.
type Mode int

const (
	Attachment Mode = iota
	Inline
)

// InlineFilename is the synthetic name used when a document is shown inline,
// e.g. "datasheet_1.pdf".
func InlineFilename(doc *model.Document) string {
	return doc.DocumentType + "_" + strconv.Itoa(doc.ItemNum) + "." + doc.Extension
}

// Disposition returns the Content-Disposition value for doc.
func Disposition(doc *model.Document, mode Mode) string {
	if mode == Inline {
		return `inline; filename="` + InlineFilename(doc) + `"`
	}
	name := doc.Name
	if name == "" {
		name = InlineFilename(doc)
	}
	return `attachment; filename="` + asciiFallback(name) + `"; filename*=UTF-8''` + encodeRFC5987(name)
}

// asciiFallback replaces every byte that cannot appear in a quoted-string filename.
func asciiFallback(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// encodeRFC5987 percent-encodes every byte outside attr-char.
func encodeRFC5987(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
