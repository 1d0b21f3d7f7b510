package mimetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mime string
		want Rule
	}{
		{"image/png", Rule{Strategy: Redirect}},
		{"IMAGE/JPEG", Rule{Strategy: Redirect}},
		{"image/svg+xml", Rule{Strategy: Redirect}},
		{"image/tiff", Rule{Strategy: StaticIcon, Icon: IconTIF}},
		{"text/plain; charset=utf-8", Rule{Strategy: StaticIcon, Icon: IconTXT}},
		{"document-image/vnd.adobe.photoshop", Rule{Strategy: StaticIcon, Icon: IconPSD}},
		{"document-application/postscript", Rule{Strategy: StaticIcon, Icon: IconPS}},
		{"document-application/vnd.ms-powerpoint", Rule{Strategy: StaticIcon, Icon: IconPPT}},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Rule{Strategy: StaticIcon, Icon: IconXLS}},
		{"application/msword", Rule{Strategy: StaticIcon, Icon: IconDOC}},
		{"application/x-zip-compressed", Rule{Strategy: StaticIcon, Icon: IconZIP}},
		{"application/pdf", Rule{Strategy: PDF}},
		{"video/mp4", Rule{Strategy: Video}},
		{"video/quicktime", Rule{Strategy: Video}},
		{"application/octet-stream", Rule{Strategy: Synthesize}},
		{"image/heic", Rule{Strategy: Synthesize}},
		{"", Rule{Strategy: Synthesize}},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mime))
		})
	}
}

func TestEveryStaticIconHasAName(t *testing.T) {
	for mime, r := range rules {
		if r.Strategy == StaticIcon {
			assert.NotEmpty(t, r.Icon, mime)
		}
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/heic"))
	assert.True(t, IsImage(" Image/PNG"))
	assert.False(t, IsImage("application/pdf"))
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "static_icon", StaticIcon.String())
	assert.Equal(t, "unknown", Strategy(99).String())
}
