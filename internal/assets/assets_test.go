package assets

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestIcon(t *testing.T) {
	for _, name := range []string{"tif", "txt", "psd", "ps", "ppt", "xls", "doc", "zip", "pdf", "PDF"} {
		img, err := Icon(name)
		require.NoError(t, err, name)
		assert.Equal(t, ContentTypePNG, img.ContentType)
		assert.True(t, bytes.HasPrefix(img.Data, pngMagic), name)
	}

	_, err := Icon("exe")
	assert.Error(t, err)
}

func TestNotFound(t *testing.T) {
	langs := []string{"nl", "fr"}

	tests := []struct {
		name      string
		acceptSVG bool
		culture   string
		langs     []string
		want      string
		wantType  string
	}{
		{name: "png nl", culture: "nl", langs: langs, want: "404_nl.png", wantType: ContentTypePNG},
		{name: "png fr upper", culture: "FR", langs: langs, want: "404_fr.png", wantType: ContentTypePNG},
		{name: "png neutral", culture: "de", langs: langs, want: "404.png", wantType: ContentTypePNG},
		{name: "svg nl", acceptSVG: true, culture: "nl", langs: langs, want: "404_nl.svg", wantType: ContentTypeSVG},
		{name: "svg empty culture", acceptSVG: true, langs: langs, want: "404.svg", wantType: ContentTypeSVG},
		{name: "configured without asset", culture: "de", langs: []string{"de"}, want: "404.png", wantType: ContentTypePNG},
		{name: "asset but not configured", culture: "fr", langs: []string{"nl"}, want: "404.png", wantType: ContentTypePNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NotFound(tt.acceptSVG, tt.culture, tt.langs)
			assert.Equal(t, tt.want, img.Name)
			assert.Equal(t, tt.wantType, img.ContentType)
			assert.NotEmpty(t, img.Data)
		})
	}
}

func TestTemplate(t *testing.T) {
	tpl := Template()
	assert.Contains(t, string(tpl), TemplateColor)
	assert.Contains(t, string(tpl), "<svg")
}
