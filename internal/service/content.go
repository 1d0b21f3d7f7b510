package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"contentapi/internal/assets"
	"contentapi/internal/config"
	"contentapi/internal/delivery"
	"contentapi/internal/icon"
	"contentapi/internal/mimetype"
	"contentapi/internal/model"
	"contentapi/internal/preview"
	"contentapi/internal/repository"
	"contentapi/internal/storage"
)

var (
	ErrInvalidID   = errors.New("invalid document id")
	ErrNotFound    = errors.New("document not found")
	ErrFileMissing = errors.New("file not found")
)

// Key-route defaults.
const (
	DefaultObjectID = 100
	DefaultCulture  = "nl"
	DefaultSize     = "any"
)

// PreviewRequest carries the client capabilities that select a preview encoding.
type PreviewRequest struct {
	AcceptWebp bool
	AcceptSVG  bool
	Culture    string
}

// Preview is either a redirect or an image body.
type Preview struct {
	RedirectURL string
	Data        []byte
	ContentType string
	// NotFound is set when the "not found" image was chosen.
	NotFound bool
}

// ContentService defines the use cases of the content endpoint.
type ContentService interface {
	// FindByGUID resolves a document by its GUID.
	FindByGUID(ctx context.Context, guid string) (*model.Document, error)

	// FindByKey resolves a document by business key. Catalog lookups that miss are retried
	// against the common company.
	FindByKey(ctx context.Context, key model.LookupKey) (*model.Document, error)

	// OpenFile opens the raw file of doc, fetching it from the origin when configured.
	OpenFile(ctx context.Context, doc *model.Document) (delivery.Source, error)

	// Preview returns the preview of the document addressed by guid. A missing document or
	// preview yields the "not found" image, never an error.
	Preview(ctx context.Context, guid string, req PreviewRequest) (*Preview, error)

	// NotFoundImage returns the localized "not found" image.
	NotFoundImage(acceptSVG bool, culture string) *Preview

	// ClearCache removes the derived artifacts of a document and returns the deleted paths.
	ClearCache(ctx context.Context, guid string) ([]string, error)

	// ImageURL returns the image endpoint address of guid with an optional size artifact.
	ImageURL(guid, size string) string
}

// RawStore gives access to raw files.
type RawStore interface {
	EnsureRaw(ctx context.Context, guid string) (os.FileInfo, error)
	Open(guid, artifact string) (*os.File, os.FileInfo, error)
}

// Previewer produces cached previews of PDF and video documents.
type Previewer interface {
	Get(ctx context.Context, doc *model.Document, wantsWebp bool) (*preview.Result, error)
}

// Invalidator removes derived artifacts.
type Invalidator interface {
	Invalidate(ctx context.Context, guid string) []preview.Removal
}

// contentService is the concrete implementation of ContentService.
type contentService struct {
	repo         repository.DocumentRepository
	store        RawStore
	previews     Previewer
	invalidator  Invalidator
	catalog      config.Catalog
	imageBaseURL string
	log          *slog.Logger
}

// Deps groups the collaborators of the content service.
type Deps struct {
	Repo         repository.DocumentRepository
	Store        RawStore
	Previews     Previewer
	Invalidator  Invalidator
	Catalog      config.Catalog
	ImageBaseURL string
	Log          *slog.Logger
}

// NewContentService constructs a new ContentService.
func NewContentService(d Deps) ContentService {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &contentService{
		repo:         d.Repo,
		store:        d.Store,
		previews:     d.Previews,
		invalidator:  d.Invalidator,
		catalog:      d.Catalog,
		imageBaseURL: strings.TrimSuffix(d.ImageBaseURL, "/"),
		log:          log,
	}
}

// normalizeGUID validates guid and returns its canonical lower-case form.
func normalizeGUID(guid string) (string, error) {
	id, err := uuid.Parse(guid)
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

func (s *contentService) FindByGUID(ctx context.Context, guid string) (*model.Document, error) {
	g, err := normalizeGUID(guid)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByGUID(ctx, g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document %s: %w", g, err)
	}
	doc.GUID = strings.ToLower(doc.GUID)
	return doc, nil
}

func (s *contentService) FindByKey(ctx context.Context, key model.LookupKey) (*model.Document, error) {
	key = normalizeKey(key)

	doc, err := s.repo.FindByKey(ctx, key)
	if errors.Is(err, sql.ErrNoRows) && s.shouldFindCommon(key) {
		common := key
		common.Company = s.catalog.CommonCompany
		doc, err = s.repo.FindByKey(ctx, common)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document by key: %w", err)
	}
	doc.GUID = strings.ToLower(doc.GUID)
	return doc, nil
}

func normalizeKey(key model.LookupKey) model.LookupKey {
	key.Company = strings.ToLower(key.Company)
	key.ObjectType = strings.ToLower(key.ObjectType)
	key.DocumentType = strings.ToLower(key.DocumentType)
	key.Culture = strings.ToLower(key.Culture)
	if key.ObjectID == 0 {
		key.ObjectID = DefaultObjectID
	}
	if key.Culture == "" {
		key.Culture = DefaultCulture
	}
	if key.SizeHint == "" {
		key.SizeHint = DefaultSize
	}
	return key
}

// shouldFindCommon reports whether a catalog document may live under the common company.
func (s *contentService) shouldFindCommon(key model.LookupKey) bool {
	return s.catalog.CommonCompany != "" &&
		key.Company != s.catalog.CommonCompany &&
		slices.Contains(s.catalog.Companies, key.Company) &&
		slices.Contains(s.catalog.ObjectTypes, key.ObjectType) &&
		slices.Contains(s.catalog.DocumentTypes, key.DocumentType)
}

func (s *contentService) OpenFile(ctx context.Context, doc *model.Document) (delivery.Source, error) {
	if _, err := s.store.EnsureRaw(ctx, doc.GUID); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return delivery.Source{}, ErrFileMissing
		}
		return delivery.Source{}, fmt.Errorf("stat raw file %s: %w", doc.GUID, err)
	}
	f, info, err := s.store.Open(doc.GUID, storage.RawFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return delivery.Source{}, ErrFileMissing
		}
		return delivery.Source{}, fmt.Errorf("open raw file %s: %w", doc.GUID, err)
	}
	return delivery.Source{Body: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (s *contentService) Preview(ctx context.Context, guid string, req PreviewRequest) (*Preview, error) {
	doc, err := s.FindByGUID(ctx, guid)
	if errors.Is(err, ErrNotFound) {
		return s.NotFoundImage(req.AcceptSVG, req.Culture), nil
	}
	if err != nil {
		return nil, err
	}

	rule := mimetype.Classify(doc.MimeType)
	switch rule.Strategy {
	case mimetype.Redirect:
		return &Preview{RedirectURL: s.ImageURL(doc.GUID, storage.ThumbLarge)}, nil

	case mimetype.StaticIcon:
		img, err := assets.Icon(rule.Icon)
		if err != nil {
			return nil, err
		}
		return &Preview{Data: img.Data, ContentType: img.ContentType}, nil

	case mimetype.PDF, mimetype.Video:
		res, err := s.previews.Get(ctx, doc, req.AcceptWebp)
		if errors.Is(err, preview.ErrNoPreview) {
			return s.NotFoundImage(req.AcceptSVG, req.Culture), nil
		}
		if err != nil {
			return nil, err
		}
		return &Preview{Data: res.Data, ContentType: res.ContentType}, nil

	default:
		data, ct, err := icon.Render(doc.Extension, req.AcceptWebp)
		if err != nil {
			s.log.ErrorContext(ctx, "extension_icon_failed", "guid", doc.GUID, "extension", doc.Extension, "error", err.Error())
			return s.NotFoundImage(req.AcceptSVG, req.Culture), nil
		}
		return &Preview{Data: data, ContentType: ct}, nil
	}
}

func (s *contentService) NotFoundImage(acceptSVG bool, culture string) *Preview {
	if culture == "" {
		culture = DefaultCulture
	}
	img := assets.NotFound(acceptSVG, culture, s.catalog.Languages)
	return &Preview{Data: img.Data, ContentType: img.ContentType, NotFound: true}
}

func (s *contentService) ClearCache(ctx context.Context, guid string) ([]string, error) {
	doc, err := s.FindByGUID(ctx, guid)
	if err != nil {
		return nil, err
	}
	removals := s.invalidator.Invalidate(ctx, doc.GUID)
	deleted := preview.DeletedPaths(removals)
	s.log.InfoContext(ctx, "cache_cleared", "guid", doc.GUID, "deleted", len(deleted), "attempted", len(removals))
	return deleted, nil
}

func (s *contentService) ImageURL(guid, size string) string {
	u := s.imageBaseURL + "/" + url.PathEscape(strings.ToLower(guid))
	if size != "" {
		u += "?s=" + url.QueryEscape(size)
	}
	return u
}
