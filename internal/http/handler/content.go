package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/mimetype"
	"contentapi/internal/model"
	"contentapi/internal/service"
	"contentapi/internal/storage"
)

var sizeHints = map[string]bool{"any": true, "small": true, "medium": true, "large": true}

const photoDocumentType = "foto"

func hasQuery(c *fiber.Ctx, key string) bool {
	return c.Context().QueryArgs().Has(key)
}

// GetByKey resolves a document by company, object type, document type, object id and culture
// and delivers it. Images are redirected to the image endpoint.
//
//	@Summary	Document by business key
//	@Tags		content
//	@Param		company			path	string	true	"company code"
//	@Param		objectType		path	string	true	"object type"
//	@Param		documentType	path	string	true	"document type"
//	@Param		objectId		path	int		false	"object id"	default(100)
//	@Param		culture			path	string	false	"culture"	default(nl)
//	@Param		size			query	string	false	"size class"	Enums(any, small, medium, large)
//	@Param		show			query	string	false	"present to display inline"
//	@Param		retry			query	string	false	"present to get the not found image instead of a 404"
//	@Param		thumb			query	string	false	"present to redirect photos to their thumbnail"
//	@Success	200
//	@Success	307
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	notFoundPayload
//	@Router		/{company}/{objectType}/{documentType}/{objectId}/{culture} [get]
func GetByKey(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := model.LookupKey{
			Company:      strings.ToLower(c.Params("company")),
			ObjectType:   strings.ToLower(c.Params("objectType")),
			DocumentType: strings.ToLower(c.Params("documentType")),
			Culture:      strings.ToLower(c.Params("culture", service.DefaultCulture)),
			SizeHint:     strings.ToLower(c.Query("size", service.DefaultSize)),
			ObjectID:     service.DefaultObjectID,
		}
		if raw := c.Params("objectId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_OBJECT_ID", "invalid object id")
			}
			key.ObjectID = id
		}
		if !sizeHints[key.SizeHint] {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "size must be one of any, small, medium, large")
		}

		doc, err := svc.FindByKey(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) && hasQuery(c, "retry") {
				return sendImage(c, svc.NotFoundImage(accepts(c, mimeSVG), key.Culture))
			}
			return lookupError(c, err)
		}

		if hasQuery(c, "thumb") && key.DocumentType == photoDocumentType {
			return redirectIfPresent(c, svc, doc, storage.Thumb)
		}
		if mimetype.IsImage(doc.MimeType) {
			return redirectIfPresent(c, svc, doc, "")
		}
		return serveDocument(c, svc, doc)
	}
}

// redirectIfPresent redirects to the image endpoint once the raw file is known to exist.
func redirectIfPresent(c *fiber.Ctx, svc service.ContentService, doc *model.Document, size string) error {
	src, err := svc.OpenFile(c.UserContext(), doc)
	if err != nil {
		if errors.Is(err, service.ErrFileMissing) {
			return writeNotFound(c, "File '"+doc.GUID+"' not found")
		}
		return err
	}
	_ = src.Body.Close()
	return c.Redirect(svc.ImageURL(doc.GUID, size), fiber.StatusTemporaryRedirect)
}
