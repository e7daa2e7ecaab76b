package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/covers"
)

// CoverSource returns a local file path for a catalog cover id.
type CoverSource interface {
	GetCover(ctx context.Context, coverID int) (string, error)
}

// CoversController serves book cover images.
type CoversController struct {
	cache CoverSource
}

// NewCoversController creates a new CoversController. With a nil cache
// only the default cover is served.
func NewCoversController(cache CoverSource) *CoversController {
	return &CoversController{cache: cache}
}

// GetCover handles GET /covers/:id
// Unknown, invalid and unavailable covers fall back to the default image.
func (cc *CoversController) GetCover(c *gin.Context) {
	idStr := c.Param("id")
	if idStr == "default" {
		cc.DefaultCover(c)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 || cc.cache == nil {
		cc.DefaultCover(c)
		return
	}

	cachePath, err := cc.cache.GetCover(c.Request.Context(), id)
	if err != nil || cachePath == "" {
		cc.DefaultCover(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}

// DefaultCover serves the bundled default cover.
func (cc *CoversController) DefaultCover(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, covers.DefaultContentType, covers.DefaultCover())
}
