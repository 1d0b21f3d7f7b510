package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db  *sql.DB
	log *slog.Logger
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB, log *slog.Logger) *DocumentPostgres {
	return &DocumentPostgres{db: db, log: log}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `guid, company, object_type, document_type, object_id, culture, name,
		mime_type, extension, item_num, size, max_age, last_changed`

// FindByGUID fetches a single document by its GUID.
func (r *DocumentPostgres) FindByGUID(ctx context.Context, guid string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE guid = $1
		LIMIT 2
	`
	return r.findOne(ctx, q, guid)
}

// FindByKey fetches the document matching the business key. A SizeHint of "any" matches every size class.
func (r *DocumentPostgres) FindByKey(ctx context.Context, key model.LookupKey) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE company = $1
		  AND object_type = $2
		  AND document_type = $3
		  AND object_id = $4
		  AND culture = $5
		  AND ($6 = 'any' OR size_class = $6)
		ORDER BY item_num ASC, last_changed DESC
		LIMIT 2
	`
	sizeHint := key.SizeHint
	if sizeHint == "" {
		sizeHint = "any"
	}
	return r.findOne(ctx, q,
		key.Company,
		key.ObjectType,
		key.DocumentType,
		key.ObjectID,
		key.Culture,
		sizeHint,
	)
}

// findOne returns the first row of q. More than one row is logged and otherwise tolerated.
func (r *DocumentPostgres) findOne(ctx context.Context, q string, args ...any) (*model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		first *model.Document
		count int
	)
	for rows.Next() {
		count++
		if first != nil {
			continue
		}
		var d model.Document
		if err := rows.Scan(
			&d.GUID,
			&d.Company,
			&d.ObjectType,
			&d.DocumentType,
			&d.ObjectID,
			&d.Culture,
			&d.Name,
			&d.MimeType,
			&d.Extension,
			&d.ItemNum,
			&d.Size,
			&d.MaxAge,
			&d.LastChanged,
		); err != nil {
			return nil, err
		}
		first = &d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if first == nil {
		return nil, sql.ErrNoRows
	}
	if count > 1 && r.log != nil {
		r.log.ErrorContext(ctx, "wrong number of records, returning first result", "guid", first.GUID)
	}
	return first, nil
}
