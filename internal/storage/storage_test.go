package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/logging"
)

const testGUID = "2F1E0C3A-9B4D-4C5E-8F6A-7B8C9D0E1F2A"

func TestLocate(t *testing.T) {
	got := Locate("/srv/data", testGUID, RawFile)
	assert.Equal(t, filepath.Join("/srv/data", "content", "2f", "2f1e0c3a-9b4d-4c5e-8f6a-7b8c9d0e1f2a", "file"), got)

	// Casing of the GUID never changes the location.
	assert.Equal(t, got, Locate("/srv/data", strings.ToLower(testGUID), RawFile))
	assert.Equal(t,
		filepath.Join("/srv/data", "content", "2f", "2f1e0c3a-9b4d-4c5e-8f6a-7b8c9d0e1f2a", "thumb_large_etag"),
		Locate("/srv/data", testGUID, EtagName(ThumbLarge)),
	)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "content/2f/2f1e0c3a-9b4d-4c5e-8f6a-7b8c9d0e1f2a/file", ObjectKey(testGUID, RawFile))
	assert.Equal(t, "content/a/a/file", ObjectKey("A", RawFile))
}

func TestArtifactSets(t *testing.T) {
	assert.Contains(t, EtagArtifacts, ThumbLarge)
	assert.Contains(t, EtagArtifacts, ThumbLargeJPEG)
	assert.Len(t, SingletonArtifacts, 3)
	for _, s := range SingletonArtifacts {
		assert.NotContains(t, EtagArtifacts, s)
	}
}

func TestFileStore_WriteReadRemove(t *testing.T) {
	s := NewFileStore(t.TempDir())

	assert.False(t, s.Exists(testGUID, ThumbLarge))

	require.NoError(t, s.WriteFile(testGUID, ThumbLarge, []byte("first")))
	require.NoError(t, s.WriteFile(testGUID, ThumbLarge, []byte("second")))

	data, err := s.ReadFile(testGUID, ThumbLarge)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temporary files remain next to the artifact.
	entries, err := os.ReadDir(filepath.Dir(s.Path(testGUID, ThumbLarge)))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	f, info, err := s.Open(testGUID, ThumbLarge)
	require.NoError(t, err)
	assert.Equal(t, int64(6), info.Size())
	require.NoError(t, f.Close())

	require.NoError(t, s.Remove(testGUID, ThumbLarge))
	err = s.Remove(testGUID, ThumbLarge)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

type fakeOrigin struct {
	calls    atomic.Int32
	body     string
	modified time.Time
	err      error
	wait     chan struct{}
}

func (f *fakeOrigin) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f.calls.Add(1)
	if f.wait != nil {
		select {
		case <-f.wait:
		case <-ctx.Done():
			return nil, ObjectInfo{}, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, ObjectInfo{}, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), ObjectInfo{Key: key, Size: int64(len(f.body)), LastModified: f.modified}, nil
}

func TestFileStore_EnsureRaw(t *testing.T) {
	t.Run("present locally", func(t *testing.T) {
		origin := &fakeOrigin{}
		s := NewFileStore(t.TempDir(), WithOrigin(origin))
		require.NoError(t, s.WriteFile(testGUID, RawFile, []byte("local")))

		info, err := s.EnsureRaw(context.Background(), testGUID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), info.Size())
		assert.Equal(t, int32(0), origin.calls.Load())
	})

	t.Run("missing without origin", func(t *testing.T) {
		s := NewFileStore(t.TempDir())
		_, err := s.EnsureRaw(context.Background(), testGUID)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("hydrated from origin", func(t *testing.T) {
		modified := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		origin := &fakeOrigin{body: "remote bytes", modified: modified}
		s := NewFileStore(t.TempDir(), WithOrigin(origin), WithLogger(logging.Discard()))

		info, err := s.EnsureRaw(context.Background(), testGUID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), info.Size())
		assert.True(t, info.ModTime().Equal(modified))

		data, err := s.ReadFile(testGUID, RawFile)
		require.NoError(t, err)
		assert.Equal(t, "remote bytes", string(data))
	})

	t.Run("missing in origin", func(t *testing.T) {
		origin := &fakeOrigin{err: ErrObjectNotFound}
		s := NewFileStore(t.TempDir(), WithOrigin(origin))
		_, err := s.EnsureRaw(context.Background(), testGUID)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("origin failure", func(t *testing.T) {
		origin := &fakeOrigin{err: errors.New("connection refused")}
		s := NewFileStore(t.TempDir(), WithOrigin(origin))
		_, err := s.EnsureRaw(context.Background(), testGUID)
		require.Error(t, err)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("concurrent callers share one download", func(t *testing.T) {
		origin := &fakeOrigin{body: "x", wait: make(chan struct{})}
		s := NewFileStore(t.TempDir(), WithOrigin(origin), WithLogger(logging.Discard()))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.EnsureRaw(context.Background(), testGUID)
				assert.NoError(t, err)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(origin.wait)
		wg.Wait()

		assert.Equal(t, int32(1), origin.calls.Load())
	})

	t.Run("cancelled first caller does not fail waiters", func(t *testing.T) {
		origin := &fakeOrigin{body: "shared", wait: make(chan struct{})}
		s := NewFileStore(t.TempDir(), WithOrigin(origin), WithLogger(logging.Discard()))

		firstCtx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() {
			_, err := s.EnsureRaw(firstCtx, testGUID)
			first <- err
		}()
		require.Eventually(t, func() bool { return origin.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

		second := make(chan error, 1)
		go func() {
			_, err := s.EnsureRaw(context.Background(), testGUID)
			second <- err
		}()
		time.Sleep(50 * time.Millisecond)

		cancel()
		time.Sleep(20 * time.Millisecond)
		close(origin.wait)

		require.NoError(t, <-second)
		require.NoError(t, <-first)
		assert.Equal(t, int32(1), origin.calls.Load())

		data, err := s.ReadFile(testGUID, RawFile)
		require.NoError(t, err)
		assert.Equal(t, "shared", string(data))
	})
}
