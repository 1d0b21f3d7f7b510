package storage

import (
	"path/filepath"
	"strings"
)

const contentDir = "content"

// Locate maps a GUID and artifact name to its on-disk path:
// base/content/{guid[0:2]}/{guid}/{artifact}. The GUID is lower-cased first,
// so every casing of the same GUID lands in the same directory.
// No I/O is done; callers check existence.
func Locate(base, guid, artifact string) string {
	g := strings.ToLower(guid)
	return filepath.Join(base, contentDir, shard(g), g, artifact)
}

// ObjectKey is the origin bucket key of an artifact, using the same layout as the local disk.
func ObjectKey(guid, artifact string) string {
	g := strings.ToLower(guid)
	return contentDir + "/" + shard(g) + "/" + g + "/" + artifact
}

func shard(guid string) string {
	if len(guid) < 2 {
		return guid
	}
	return guid[:2]
}
