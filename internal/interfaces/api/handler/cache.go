package handler

import (
	"net/http"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/application/service"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CacheHandler serves the cache administration routes. Every route sits
// behind the API key middleware.
type CacheHandler struct {
	cacheService service.CacheService
	log          logger.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cacheService service.CacheService, log logger.Logger) *CacheHandler {
	return &CacheHandler{cacheService: cacheService, log: log}
}

type revalidateRequest struct {
	Tag  *string  `json:"tag"`
	Tags []string `json:"tags"`
}

// Revalidate handles POST /cache/revalidate with a body of {tag} or {tags}.
func (h *CacheHandler) Revalidate(c echo.Context) error {
	var req revalidateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	input, err := dto.ParseTagInput(req.Tag, req.Tags)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	switch in := input.(type) {
	case dto.SingleTag:
		deleted, err := h.cacheService.RevalidateTag(ctx, string(in))
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, echo.Map{"revalidated": deleted, "tag": string(in)})
	case dto.MultipleTags:
		result, err := h.cacheService.RevalidateTags(ctx, in)
		if err != nil {
			return err
		}
		if len(result.Errors) == len(in) {
			return appErrors.Upstream(nil, "failed to revalidate every tag")
		}
		payload := echo.Map{"revalidated": result.Revalidated, "tags": result.Tags}
		if len(result.Errors) > 0 {
			payload["errors"] = result.Errors
		}
		return ok(c, http.StatusOK, payload)
	default:
		return appErrors.Internal(nil, "unexpected tag input %T", input)
	}
}

// ListTags handles GET /cache/revalidate.
func (h *CacheHandler) ListTags(c echo.Context) error {
	tags, err := h.cacheService.GetAllTags(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"tags": tags, "count": len(tags)})
}

// Stats handles GET /cache/stats with an optional tag query parameter.
func (h *CacheHandler) Stats(c echo.Context) error {
	stats, err := h.cacheService.GetCacheStats(c.Request().Context(), c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"stats": stats})
}
