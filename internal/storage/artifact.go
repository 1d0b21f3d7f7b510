package storage

// RawFile is the artifact name of the original upload.
const RawFile = "file"

// Derived artifact names.
const (
	ThumbLarge     = "thumb_large"
	ThumbLargeJPEG = "thumb_large_jpeg"
	Thumb          = "thumb"
	ThumbM         = "thumb_m"
	ThumbL         = "thumb_l"
	ImageSmall     = "image_small"
	Image          = "image"
	ImageLarge     = "image_large"
	Miniature      = "miniature"

	BorderColorCode     = "border-color_code"
	BackgroundColorCode = "background-color_code"
	ColorCode           = "color_code"
)

const etagSuffix = "_etag"

// EtagArtifacts lists the derived artifacts that carry a fingerprint sidecar.
var EtagArtifacts = []string{
	ImageSmall,
	Thumb,
	ThumbM,
	ThumbL,
	ThumbLarge,
	ThumbLargeJPEG,
	Miniature,
	Image,
	ImageLarge,
}

// SingletonArtifacts lists the derived artifacts stored without a sidecar.
var SingletonArtifacts = []string{
	BorderColorCode,
	BackgroundColorCode,
	ColorCode,
}

// EtagName returns the sidecar artifact name holding the fingerprint of artifact.
func EtagName(artifact string) string {
	return artifact + etagSuffix
}
