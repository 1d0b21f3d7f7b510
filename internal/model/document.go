package model

import "time"

// Document is the metadata record of a stored file as maintained by the metadata store.
// The content service only reads it.
type Document struct {
	GUID         string    `json:"guid"`
	Company      string    `json:"company"`
	ObjectType   string    `json:"object_type"`
	DocumentType string    `json:"document_type"`
	ObjectID     int64     `json:"object_id"`
	Culture      string    `json:"culture"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	Extension    string    `json:"extension"`
	ItemNum      int       `json:"item_num"`
	Size         int64     `json:"size"`
	MaxAge       int       `json:"max_age"`
	LastChanged  time.Time `json:"last_changed"`
}

// LookupKey identifies a document by its business coordinates instead of its GUID.
type LookupKey struct {
	Company      string
	ObjectType   string
	DocumentType string
	ObjectID     int64
	Culture      string
	// SizeHint is one of "any", "small", "medium" or "large".
	SizeHint string
}
