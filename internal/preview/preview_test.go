package preview

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/logging"
	"contentapi/internal/model"
	"contentapi/internal/render"
	"contentapi/internal/storage"
)

const guid = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

type countingThumbnailer struct {
	calls atomic.Int32
	err   error
	wait  chan struct{}
	// holdFirst blocks only the first render
	holdFirst chan struct{}
}

func (f *countingThumbnailer) Thumbnail(_ context.Context, pdf []byte, format render.Format) ([]byte, error) {
	n := f.calls.Add(1)
	if f.wait != nil {
		<-f.wait
	}
	if n == 1 && f.holdFirst != nil {
		<-f.holdFirst
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte(format.String()+":"), pdf...), nil
}

func pdfDocument() *model.Document {
	return &model.Document{GUID: guid, MimeType: "application/pdf", Extension: "pdf"}
}

func newTestCache(t *testing.T, th Thumbnailer) (*Cache, *storage.FileStore, *Metrics) {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewCache(store, th, WithLogger(logging.Discard()), WithMetrics(metrics)), store, metrics
}

func TestFingerprint(t *testing.T) {
	mtime := time.Date(2024, 1, 2, 3, 4, 5, 678_900_000, time.UTC)
	assert.Equal(t, "40d394ad9ae8015d4639fd57366482194dfcf624", Fingerprint(mtime))

	// same instant in another zone
	cet := time.FixedZone("CET", 3600)
	assert.Equal(t, Fingerprint(mtime), Fingerprint(mtime.In(cet)))
	assert.NotEqual(t, Fingerprint(mtime), Fingerprint(mtime.Add(time.Millisecond)))
}

func TestCache_RendersOnceWhileFresh(t *testing.T) {
	th := &countingThumbnailer{}
	cache, store, metrics := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF-1.7")))

	first, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, Rendered, first.Source)
	assert.Equal(t, "image/webp", first.ContentType)

	second, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, FromCache, second.Source)
	assert.Equal(t, first.Data, second.Data)

	assert.Equal(t, int32(1), th.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.results.WithLabelValues(storage.ThumbLarge, outcomeHit)))

	info, err := store.Stat(guid, storage.RawFile)
	require.NoError(t, err)
	etag, err := store.ReadFile(guid, storage.EtagName(storage.ThumbLarge))
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(info.ModTime()), string(etag))
}

func TestCache_SourceTouchInvalidates(t *testing.T) {
	th := &countingThumbnailer{}
	cache, store, _ := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF-1.7")))

	_, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(store.Path(guid, storage.RawFile), later, later))

	res, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Source)
	assert.Equal(t, int32(2), th.calls.Load())

	etag, err := store.ReadFile(guid, storage.EtagName(storage.ThumbLarge))
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(later), string(etag))
}

func TestCache_EncodingsAreIndependent(t *testing.T) {
	th := &countingThumbnailer{}
	cache, store, _ := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF")))

	webp, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	jpeg, err := cache.Get(context.Background(), pdfDocument(), false)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", jpeg.ContentType)
	assert.Equal(t, Rendered, jpeg.Source)
	assert.NotEqual(t, webp.Data, jpeg.Data)
	assert.True(t, store.Exists(guid, storage.ThumbLargeJPEG))
	assert.True(t, store.Exists(guid, storage.EtagName(storage.ThumbLargeJPEG)))

	again, err := cache.Get(context.Background(), pdfDocument(), false)
	require.NoError(t, err)
	assert.Equal(t, FromCache, again.Source)
	assert.Equal(t, int32(2), th.calls.Load())
}

func TestCache_RenderFailureFallsBackToIcon(t *testing.T) {
	th := &countingThumbnailer{err: errors.New("corrupt xref table")}
	cache, store, metrics := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("garbage")))

	res, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, Fallback, res.Source)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("\x89PNG")))

	assert.False(t, store.Exists(guid, storage.ThumbLarge))
	assert.False(t, store.Exists(guid, storage.EtagName(storage.ThumbLarge)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.results.WithLabelValues(storage.ThumbLarge, outcomeFallback)))
}

func TestCache_MissingSource(t *testing.T) {
	th := &countingThumbnailer{}
	cache, _, _ := newTestCache(t, th)

	_, err := cache.Get(context.Background(), pdfDocument(), false)
	assert.ErrorIs(t, err, ErrNoPreview)
	assert.Equal(t, int32(0), th.calls.Load())
}

func TestCache_ConcurrentMissesRenderOnce(t *testing.T) {
	th := &countingThumbnailer{wait: make(chan struct{})}
	cache, store, _ := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF")))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := cache.Get(context.Background(), pdfDocument(), true)
			assert.NoError(t, err)
			assert.Equal(t, []byte("webp:%PDF"), res.Data)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(th.wait)
	wg.Wait()

	assert.Equal(t, int32(1), th.calls.Load())
}

func TestCache_TouchDuringRenderStartsNewRender(t *testing.T) {
	th := &countingThumbnailer{holdFirst: make(chan struct{})}
	cache, store, _ := newTestCache(t, th)
	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF-v1")))

	first := make(chan *Result, 1)
	go func() {
		res, err := cache.Get(context.Background(), pdfDocument(), true)
		assert.NoError(t, err)
		first <- res
	}()
	require.Eventually(t, func() bool { return th.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("%PDF-v2")))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(store.Path(guid, storage.RawFile), later, later))

	res, err := cache.Get(context.Background(), pdfDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Source)
	assert.Equal(t, []byte("webp:%PDF-v2"), res.Data)
	assert.Equal(t, int32(2), th.calls.Load())

	close(th.holdFirst)
	assert.Equal(t, []byte("webp:%PDF-v1"), (<-first).Data)
}

func TestCache_Video(t *testing.T) {
	th := &countingThumbnailer{}
	cache, store, _ := newTestCache(t, th)
	doc := &model.Document{GUID: guid, MimeType: "video/mp4"}

	_, err := cache.Get(context.Background(), doc, true)
	assert.ErrorIs(t, err, ErrNoPreview)

	frame := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	require.NoError(t, store.WriteFile(guid, storage.ThumbLarge, frame))

	res, err := cache.Get(context.Background(), doc, true)
	require.NoError(t, err)
	assert.Equal(t, frame, res.Data)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, int32(0), th.calls.Load())
}

func TestCache_Unsupported(t *testing.T) {
	cache, _, _ := newTestCache(t, &countingThumbnailer{})
	_, err := cache.Get(context.Background(), &model.Document{GUID: guid, MimeType: "image/png"}, false)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestInvalidator(t *testing.T) {
	t.Run("removes exactly the existing artifacts", func(t *testing.T) {
		store := storage.NewFileStore(t.TempDir())
		metrics, err := NewMetrics(prometheus.NewRegistry())
		require.NoError(t, err)
		inv := NewInvalidator(store, logging.Discard(), metrics)

		require.NoError(t, store.WriteFile(guid, storage.RawFile, []byte("raw")))
		require.NoError(t, store.WriteFile(guid, storage.ThumbLarge, []byte("thumb")))
		require.NoError(t, store.WriteFile(guid, storage.EtagName(storage.ThumbLarge), []byte("etag")))

		removals := inv.Invalidate(context.Background(), guid)

		assert.Equal(t, []string{
			store.Path(guid, storage.ThumbLarge),
			store.Path(guid, storage.EtagName(storage.ThumbLarge)),
		}, DeletedPaths(removals))
		assert.False(t, store.Exists(guid, storage.ThumbLarge))
		assert.True(t, store.Exists(guid, storage.RawFile))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.removals.WithLabelValues("deleted")))
	})

	t.Run("singletons and missing sidecars", func(t *testing.T) {
		store := storage.NewFileStore(t.TempDir())
		inv := NewInvalidator(store, logging.Discard(), nil)

		require.NoError(t, store.WriteFile(guid, storage.Miniature, []byte("m")))
		require.NoError(t, store.WriteFile(guid, storage.ColorCode, []byte("#fff")))

		removals := inv.Invalidate(context.Background(), guid)

		require.Len(t, removals, 3)
		assert.Equal(t, NotFound, removals[1].Outcome)
		assert.Equal(t, []string{
			store.Path(guid, storage.Miniature),
			store.Path(guid, storage.ColorCode),
		}, DeletedPaths(removals))
	})

	t.Run("nothing to remove", func(t *testing.T) {
		store := storage.NewFileStore(t.TempDir())
		inv := NewInvalidator(store, nil, nil)

		removals := inv.Invalidate(context.Background(), guid)
		assert.Empty(t, removals)
		assert.Empty(t, DeletedPaths(removals))
		assert.NotNil(t, DeletedPaths(removals))
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "failed", Failed.String())
}
