// Package preview produces and caches derived preview artifacts of documents and removes them on request.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"contentapi/internal/assets"
	"contentapi/internal/mimetype"
	"contentapi/internal/model"
	"contentapi/internal/render"
	"contentapi/internal/storage"
)

var (
	// ErrNoPreview means there is nothing to show for the document; callers serve the 404 image.
	ErrNoPreview = errors.New("no preview available")
	// ErrUnsupported is returned for documents whose preview is not produced by the cache.
	ErrUnsupported = errors.New("preview not produced by cache")
)

// Source tells where the bytes of a Result came from.
type Source int

const (
	FromCache Source = iota
	Rendered
	Fallback
)

// Result is a preview image ready to be sent.
type Result struct {
	Data        []byte
	ContentType string
	Source      Source
}

// Thumbnailer renders a PDF into an encoded preview image.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, pdf []byte, f render.Format) ([]byte, error)
}

// Cache serves preview artifacts for PDF and video documents. An artifact is valid only while
// its sidecar holds the fingerprint of the current source modification time. Concurrent misses
// on the same artifact share one render.
type Cache struct {
	store   *storage.FileStore
	thumbs  Thumbnailer
	log     *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	group   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// NewCache creates a Cache storing artifacts in store.
func NewCache(store *storage.FileStore, thumbs Thumbnailer, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		thumbs: thumbs,
		log:    slog.Default(),
		tracer: otel.Tracer("contentapi/internal/preview"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the preview of doc. PDF documents are rendered on demand, WebP when wantsWebp is set
// and JPEG otherwise; a failing render yields the static pdf icon. Video documents only serve an
// artifact produced out-of-band. ErrNoPreview means the 404 image applies.
func (c *Cache) Get(ctx context.Context, doc *model.Document, wantsWebp bool) (*Result, error) {
	switch mimetype.Classify(doc.MimeType).Strategy {
	case mimetype.PDF:
		return c.pdf(ctx, doc, wantsWebp)
	case mimetype.Video:
		return c.video(doc)
	default:
		return nil, ErrUnsupported
	}
}

func (c *Cache) pdf(ctx context.Context, doc *model.Document, wantsWebp bool) (*Result, error) {
	format, artifact := render.JPEG, storage.ThumbLargeJPEG
	if wantsWebp {
		format, artifact = render.WebP, storage.ThumbLarge
	}

	info, err := c.store.EnsureRaw(ctx, doc.GUID)
	if errors.Is(err, fs.ErrNotExist) {
		c.metrics.result(artifact, outcomeMissing)
		return nil, ErrNoPreview
	}
	if err != nil {
		return c.fallback(ctx, doc, artifact, err)
	}
	etag := Fingerprint(info.ModTime())

	if data, ok := c.fresh(doc.GUID, artifact, etag); ok {
		c.metrics.result(artifact, outcomeHit)
		return &Result{Data: data, ContentType: format.ContentType(), Source: FromCache}, nil
	}

	// renders for an older source fingerprint must not be joined
	key := doc.GUID + "/" + artifact + "/" + etag
	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.fresh(doc.GUID, artifact, etag); ok {
			return data, nil
		}
		// shared by every waiter, so one caller going away must not abort it
		return c.regenerate(context.WithoutCancel(ctx), doc, artifact, etag, format)
	})
	if err != nil {
		return c.fallback(ctx, doc, artifact, err)
	}

	c.metrics.result(artifact, outcomeRendered)
	return &Result{Data: v.([]byte), ContentType: format.ContentType(), Source: Rendered}, nil
}

// fresh returns the cached artifact when its sidecar matches etag.
func (c *Cache) fresh(guid, artifact, etag string) ([]byte, bool) {
	stored, err := c.store.ReadFile(guid, storage.EtagName(artifact))
	if err != nil || string(stored) != etag {
		return nil, false
	}
	data, err := c.store.ReadFile(guid, artifact)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) regenerate(ctx context.Context, doc *model.Document, artifact, etag string, format render.Format) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "preview.render", trace.WithAttributes(
		attribute.String("document.guid", doc.GUID),
		attribute.String("preview.artifact", artifact),
		attribute.String("preview.format", format.String()),
	))
	defer span.End()

	start := time.Now()
	data, err := c.render(ctx, doc, artifact, etag, format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.metrics.observeRender(time.Since(start).Seconds())

	c.log.InfoContext(ctx, "preview_rendered",
		"guid", doc.GUID,
		"artifact", artifact,
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}

func (c *Cache) render(ctx context.Context, doc *model.Document, artifact, etag string, format render.Format) ([]byte, error) {
	src, err := c.store.ReadFile(doc.GUID, storage.RawFile)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	data, err := c.thumbs.Thumbnail(ctx, src, format)
	if err != nil {
		return nil, err
	}
	// artifact first, so a reader never pairs a new sidecar with old bytes
	if err := c.store.WriteFile(doc.GUID, artifact, data); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}
	if err := c.store.WriteFile(doc.GUID, storage.EtagName(artifact), []byte(etag)); err != nil {
		return nil, fmt.Errorf("store fingerprint: %w", err)
	}
	return data, nil
}

func (c *Cache) fallback(ctx context.Context, doc *model.Document, artifact string, cause error) (*Result, error) {
	c.log.ErrorContext(ctx, "preview_render_failed",
		"guid", doc.GUID,
		"artifact", artifact,
		"error", cause.Error(),
	)
	c.metrics.result(artifact, outcomeFallback)

	img, err := assets.Icon(mimetype.IconPDF)
	if err != nil {
		return nil, err
	}
	return &Result{Data: img.Data, ContentType: img.ContentType, Source: Fallback}, nil
}

// video serves thumb_large as produced by an out-of-band worker, without a freshness check.
func (c *Cache) video(doc *model.Document) (*Result, error) {
	data, err := c.store.ReadFile(doc.GUID, storage.ThumbLarge)
	if err != nil {
		c.metrics.result(storage.ThumbLarge, outcomeMissing)
		return nil, ErrNoPreview
	}
	c.metrics.result(storage.ThumbLarge, outcomeHit)
	return &Result{Data: data, ContentType: sniffImage(data), Source: FromCache}, nil
}

func sniffImage(data []byte) string {
	return http.DetectContentType(data)
}
