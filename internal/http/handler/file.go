package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/byterange"
	"contentapi/internal/delivery"
	"contentapi/internal/icon"
	"contentapi/internal/model"
	"contentapi/internal/service"
)

const (
	mimeWebp = "image/webp"
	mimeSVG  = "image/svg+xml"
)

func accepts(c *fiber.Ctx, mime string) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), mime)
}

// GetFile streams the raw file of a document. Video files honor byte ranges.
//
//	@Summary	Download a document
//	@Tags		file
//	@Param		uuid	path	string	true	"document GUID"
//	@Param		show	query	string	false	"present to display inline"
//	@Param		Range	header	string	false	"byte range, video only"
//	@Success	200
//	@Success	206
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	notFoundPayload
//	@Failure	416	{object}	errorPayload
//	@Router		/file/{uuid} [get]
func GetFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.FindByGUID(c.UserContext(), c.Params("uuid"))
		if err != nil {
			return lookupError(c, err)
		}
		return serveDocument(c, svc, doc)
	}
}

// lookupError maps a failed document lookup to its response.
func lookupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNotFound):
		return writeNotFound(c, "Document not found")
	default:
		return err
	}
}

// serveDocument opens the raw file of doc and delivers it.
func serveDocument(c *fiber.Ctx, svc service.ContentService, doc *model.Document) error {
	src, err := svc.OpenFile(c.UserContext(), doc)
	if err != nil {
		if errors.Is(err, service.ErrFileMissing) {
			return writeNotFound(c, fmt.Sprintf("File '%s' not found", doc.GUID))
		}
		return err
	}

	outcome := byterange.Negotiate(c.Get(fiber.HeaderRange), src.Size)
	err = delivery.Deliver(c, doc, src, outcome, delivery.ModeFromRequest(c))
	switch {
	case errors.Is(err, byterange.ErrMalformed):
		return writeError(c, fiber.StatusRequestedRangeNotSatisfiable, "RANGE_MALFORMED", "malformed range header")
	case errors.Is(err, byterange.ErrUnsatisfiable):
		return writeError(c, fiber.StatusRequestedRangeNotSatisfiable, "RANGE_NOT_SATISFIABLE", "requested range not satisfiable")
	}
	return err
}

// GetPreview returns the preview image of a document, a redirect to the image endpoint, or the
// "not found" image.
//
//	@Summary	Document preview
//	@Tags		file
//	@Produce	image/png,image/webp,image/jpeg,image/svg+xml
//	@Param		uuid	path	string	true	"document GUID"
//	@Param		culture	query	string	false	"culture of the not found image"	default(nl)
//	@Success	200
//	@Success	307
//	@Failure	400	{object}	errorPayload
//	@Router		/file/{uuid}/preview [get]
func GetPreview(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Preview(c.UserContext(), c.Params("uuid"), service.PreviewRequest{
			AcceptWebp: accepts(c, mimeWebp),
			AcceptSVG:  accepts(c, mimeSVG),
			Culture:    strings.ToLower(c.Query("culture", service.DefaultCulture)),
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidID) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
			}
			return err
		}
		if p.RedirectURL != "" {
			return c.Redirect(p.RedirectURL, fiber.StatusTemporaryRedirect)
		}
		return sendImage(c, p)
	}
}

func sendImage(c *fiber.Ctx, p *service.Preview) error {
	c.Set(fiber.HeaderContentType, p.ContentType)
	return c.Status(fiber.StatusOK).Send(p.Data)
}

// ClearCache removes the derived artifacts of a document and answers the deleted paths as a JSON array.
//
//	@Summary	Clear derived artifacts
//	@Tags		file
//	@Produce	json
//	@Param		uuid	path	string	true	"document GUID"
//	@Success	200	{array}		string
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	notFoundPayload
//	@Router		/file/{uuid}/cache [delete]
func ClearCache(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deleted, err := svc.ClearCache(c.UserContext(), c.Params("uuid"))
		if err != nil {
			return lookupError(c, err)
		}
		if deleted == nil {
			deleted = []string{}
		}
		return c.JSON(deleted)
	}
}

// ExtensionIcon renders the synthesized icon of a file extension.
//
//	@Summary	Extension icon
//	@Tags		tools
//	@Produce	image/png,image/webp
//	@Param		ext	path	string	true	"file extension"
//	@Success	200
//	@Failure	500	{object}	errorPayload
//	@Router		/file/tools/ext/{ext} [get]
func ExtensionIcon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ct, err := icon.Render(strings.ToLower(c.Params("ext")), accepts(c, mimeWebp))
		if err != nil {
			return fmt.Errorf("render extension icon: %w", err)
		}
		c.Set(fiber.HeaderContentType, ct)
		return c.Send(data)
	}
}
