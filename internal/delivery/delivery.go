// Package delivery writes raw document bytes to a Fiber response, in full or as a single byte range.
package delivery

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/byterange"
	"contentapi/internal/model"
)

// HeaderDocumentGUID carries the GUID of the delivered document.
const HeaderDocumentGUID = "document-guid"

// Source is an opened raw file. Deliver takes ownership of Body and closes it.
type Source struct {
	Body    io.ReadSeekCloser
	Size    int64
	ModTime time.Time
}

// ModeFromRequest returns Inline when the request carries a "show" query flag.
func ModeFromRequest(c *fiber.Ctx) Mode {
	if c.Context().QueryArgs().Has("show") {
		return Inline
	}
	return Attachment
}

// RangeEligible reports whether partial delivery applies to a mime type.
func RangeEligible(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "video/")
}

// SetCacheHeaders sets the validation and caching headers shared by every delivery.
func SetCacheHeaders(c *fiber.Ctx, doc *model.Document, modTime time.Time) {
	maxAge := time.Duration(doc.MaxAge) * time.Second
	c.Set(fiber.HeaderCacheControl, "must-revalidate, max-age="+strconv.Itoa(doc.MaxAge)+", private")
	c.Set(fiber.HeaderExpires, modTime.Add(maxAge).UTC().Format(http.TimeFormat))
	c.Set(fiber.HeaderLastModified, modTime.UTC().Format(http.TimeFormat))
	c.Set(HeaderDocumentGUID, strings.ToLower(doc.GUID))
}

// Deliver writes src for doc. For video documents the range outcome is honored: a satisfiable
// range is served as 206, an absent one as the full body. Malformed and unsatisfiable ranges
// return byterange.ErrMalformed or byterange.ErrUnsatisfiable with Content-Range already set;
// the caller renders the 416 body. Other documents ignore the outcome.
func Deliver(c *fiber.Ctx, doc *model.Document, src Source, outcome byterange.Outcome, mode Mode) error {
	SetCacheHeaders(c, doc, src.ModTime)
	c.Set(fiber.HeaderContentType, doc.MimeType)

	if !RangeEligible(doc.MimeType) {
		return deliverFull(c, doc, src, mode)
	}

	c.Set(fiber.HeaderAcceptRanges, "bytes")
	switch outcome.Kind {
	case byterange.Absent:
		return deliverFull(c, doc, src, mode)
	case byterange.Satisfiable:
		return deliverPartial(c, doc, src, outcome.Spec)
	default:
		_ = src.Body.Close()
		c.Set(fiber.HeaderContentRange, byterange.UnsatisfiedRange(src.Size))
		return fmt.Errorf("deliver %s: %w", doc.GUID, outcome.Err)
	}
}

func deliverFull(c *fiber.Ctx, doc *model.Document, src Source, mode Mode) error {
	c.Set(fiber.HeaderContentDisposition, Disposition(doc, mode))

	if c.Method() == fiber.MethodHead {
		_ = src.Body.Close()
		c.Status(fiber.StatusOK)
		c.Response().Header.SetContentLength(int(doc.Size))
		return nil
	}

	c.Status(fiber.StatusOK)
	return c.SendStream(src.Body, int(src.Size))
}

func deliverPartial(c *fiber.Ctx, doc *model.Document, src Source, spec byterange.Spec) error {
	c.Status(fiber.StatusPartialContent)
	c.Set(fiber.HeaderContentRange, spec.ContentRange())
	c.Set(fiber.HeaderContentDisposition, Disposition(doc, Inline))

	if c.Method() == fiber.MethodHead {
		_ = src.Body.Close()
		c.Response().Header.SetContentLength(int(spec.Length()))
		return nil
	}

	if _, err := src.Body.Seek(spec.Start, io.SeekStart); err != nil {
		_ = src.Body.Close()
		return fmt.Errorf("seek %s to %d: %w", doc.GUID, spec.Start, err)
	}
	return c.SendStream(limitedBody{Reader: io.LimitReader(src.Body, spec.Length()), Closer: src.Body}, int(spec.Length()))
}

// limitedBody lets the server close the file once the span has been written.
type limitedBody struct {
	io.Reader
	io.Closer
}
