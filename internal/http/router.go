package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/readinglist"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/sessions"
)

// DefaultListID is the reading list shared by all clients when sessions are off.
const DefaultListID = "default"

// SearchService is the part of the search orchestrator the API depends on.
type SearchService interface {
	Searcher
	CacheSizer
}

// RouterConfig holds all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Search   SearchService
	Lists    *readinglist.Registry
	Sessions *sessions.Manager // nil: one shared reading list
	Covers   CoverSource       // nil: default cover only
	Tasks    TaskQueue         // nil: warm endpoint answers 503

	CSRFSecret    []byte // empty disables CSRF protection
	SecureCookies bool
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	lists := cfg.Lists
	if lists == nil {
		lists = readinglist.NewRegistry()
	}

	health := NewHealthController(cfg.Search, lists, cfg.Version)
	clientID := clientResolver(cfg.Sessions)
	searchController := NewSearchController(cfg.Search, clientID, search.NewSequencer(0))
	tasksController := NewTasksController(cfg.Tasks)
	readingList := NewReadingListController(storeResolver(lists, clientID))
	coversController := NewCoversController(cfg.Covers)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/search", searchController.Search)
		api.POST("/search/warm", tasksController.WarmSearch)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)

		api.GET("/progress-states", readingList.ProgressStates)

		api.GET("/reading-list", readingList.List)
		api.POST("/reading-list", readingList.Add)
		api.PATCH("/reading-list", readingList.UpdateProgress)
		api.DELETE("/reading-list", readingList.Remove)
		api.PATCH("/reading-list/entries/:id", readingList.UpdateEntryProgress)
		api.DELETE("/reading-list/entries/:id", readingList.RemoveEntry)
	}

	router.GET("/covers/:id", coversController.GetCover)

	return router
}

// clientResolver keys per-client state by the session's reading list id.
func clientResolver(sm *sessions.Manager) ClientResolver {
	if sm == nil {
		return func(*gin.Context) string {
			return DefaultListID
		}
	}
	return func(c *gin.Context) string {
		return sm.ListID(c.Request.Context())
	}
}

func storeResolver(lists *readinglist.Registry, clientID ClientResolver) StoreResolver {
	return func(c *gin.Context) *readinglist.Store {
		return lists.Get(clientID(c))
	}
}
