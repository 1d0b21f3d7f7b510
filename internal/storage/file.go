package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"
)

// FileStore reads and writes document artifacts below a data root using the content-addressed layout.
// It is safe for concurrent use.
type FileStore struct {
	base       string
	origin     Origin
	log        *slog.Logger
	fetchGroup singleflight.Group
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithOrigin sets a remote origin used to hydrate raw files missing on local disk.
func WithOrigin(o Origin) Option {
	return func(s *FileStore) {
		s.origin = o
	}
}

// WithLogger sets the logger used for hydration events.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) {
		s.log = l
	}
}

// NewFileStore creates a FileStore rooted at base.
func NewFileStore(base string, opts ...Option) *FileStore {
	s := &FileStore{base: base, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Base returns the data root.
func (s *FileStore) Base() string {
	return s.base
}

// Path returns the location of an artifact. See Locate.
func (s *FileStore) Path(guid, artifact string) string {
	return Locate(s.base, guid, artifact)
}

// Stat returns file info of an artifact.
func (s *FileStore) Stat(guid, artifact string) (os.FileInfo, error) {
	return os.Stat(s.Path(guid, artifact))
}

// Exists reports whether an artifact is present.
func (s *FileStore) Exists(guid, artifact string) bool {
	_, err := s.Stat(guid, artifact)
	return err == nil
}

// Open opens an artifact for reading. The caller closes the file.
func (s *FileStore) Open(guid, artifact string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(s.Path(guid, artifact))
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// ReadFile returns the full content of an artifact.
func (s *FileStore) ReadFile(guid, artifact string) ([]byte, error) {
	return os.ReadFile(s.Path(guid, artifact))
}

// WriteFile stores data as artifact. The content is written to a temporary file in the
// same directory and renamed into place, so readers see either the old or the new content.
func (s *FileStore) WriteFile(guid, artifact string, data []byte) (err error) {
	absPath := s.Path(guid, artifact)
	return writeAtomic(absPath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Remove deletes an artifact. A missing artifact yields an fs.ErrNotExist error.
func (s *FileStore) Remove(guid, artifact string) error {
	return os.Remove(s.Path(guid, artifact))
}

// EnsureRaw returns file info of the raw file. When the file is missing locally and an origin is
// configured, it is downloaded once (concurrent callers share the download) and stored atomically
// with the origin's modification time.
func (s *FileStore) EnsureRaw(ctx context.Context, guid string) (os.FileInfo, error) {
	info, err := s.Stat(guid, RawFile)
	if err == nil || s.origin == nil || !errors.Is(err, fs.ErrNotExist) {
		return info, err
	}

	key := ObjectKey(guid, RawFile)
	_, err, _ = s.fetchGroup.Do(key, func() (any, error) {
		if _, statErr := s.Stat(guid, RawFile); statErr == nil {
			return nil, nil
		}
		// shared by every waiter, so the first caller going away must not abort it
		return nil, s.hydrate(context.WithoutCancel(ctx), guid, key)
	})
	if err != nil {
		return nil, err
	}
	return s.Stat(guid, RawFile)
}

func (s *FileStore) hydrate(ctx context.Context, guid, key string) error {
	rc, objInfo, err := s.origin.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return fmt.Errorf("origin %s: %w", key, fs.ErrNotExist)
		}
		return fmt.Errorf("origin get %s: %w", key, err)
	}
	defer rc.Close()

	absPath := s.Path(guid, RawFile)
	var n int64
	err = writeAtomic(absPath, func(w io.Writer) error {
		var copyErr error
		n, copyErr = io.Copy(w, rc)
		return copyErr
	})
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", key, err)
	}
	if !objInfo.LastModified.IsZero() {
		_ = os.Chtimes(absPath, objInfo.LastModified, objInfo.LastModified)
	}

	s.log.InfoContext(ctx, "raw_file_hydrated", "guid", strings.ToLower(guid), "key", key, "bytes", n)
	return nil
}

func writeAtomic(absPath string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(absPath)+"-*")
	if err != nil {
		return fmt.Errorf("create tmp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close tmp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod tmp file: %w", err)
	}
	if err := os.Rename(tmpName, absPath); err != nil {
		return fmt.Errorf("move artifact: %w", err)
	}
	return nil
}
