package repository

import (
	"context"

	"contentapi/internal/model"
)

// DocumentRepository resolves document metadata. Implementations return sql.ErrNoRows when nothing matches.
type DocumentRepository interface {
	// FindByGUID returns the document addressed by guid.
	FindByGUID(ctx context.Context, guid string) (*model.Document, error)

	// FindByKey returns the document matching the business key.
	// When several rows match, the first one wins.
	FindByKey(ctx context.Context, key model.LookupKey) (*model.Document, error)
}
