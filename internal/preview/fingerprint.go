package preview

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// isoMillis is the ISO-8601 UTC form with millisecond precision that existing sidecars were hashed from.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Fingerprint derives the etag of a source file from its modification time, not its content.
func Fingerprint(mtime time.Time) string {
	sum := sha1.Sum([]byte(mtime.UTC().Format(isoMillis)))
	return hex.EncodeToString(sum[:])
}
