package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// CacheSizer reports how many queries the search cache holds.
type CacheSizer interface {
	CacheLen() int
}

type HealthController struct {
	cache   CacheSizer
	lists   ListCounter
	version string
}

// ListCounter reports how many reading lists are live.
type ListCounter interface {
	Len() int
}

func NewHealthController(cache CacheSizer, lists ListCounter, version string) *HealthController {
	return &HealthController{
		cache:   cache,
		lists:   lists,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.cache != nil {
		checks["search_cache"] = strconv.Itoa(h.cache.CacheLen()) + " queries"
	} else {
		checks["search_cache"] = "not configured"
		status = "unhealthy"
	}

	if h.lists != nil {
		checks["reading_lists"] = strconv.Itoa(h.lists.Len())
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
