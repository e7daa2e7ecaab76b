package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/covers"
	http_controllers "github.com/mrlokans/bookfinder/internal/http"
	"github.com/mrlokans/bookfinder/internal/readinglist"
	"github.com/mrlokans/bookfinder/internal/scheduler"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/sessions"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after in-flight requests are drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// NewSearch wires the catalog client and normalizer into a search orchestrator.
func NewSearch(cfg *config.Config) (*search.Orchestrator, catalog.Normalizer, error) {
	client := catalog.NewClient(catalog.Config{
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.Catalog.Timeout,
		RatePerSecond: cfg.Catalog.RatePerSecond,
		Burst:         cfg.Catalog.RateBurst,
		UserAgent:     cfg.Catalog.UserAgent,
	})
	normalizer := catalog.NewNormalizer(cfg.Catalog.CoversBaseURL, cfg.Covers.DefaultURL)

	cache, err := search.NewCache(cfg.Search.CacheSize)
	if err != nil {
		return nil, normalizer, fmt.Errorf("create search cache: %w", err)
	}

	return search.NewOrchestrator(client, normalizer, cache), normalizer, nil
}

// csrfSecret decodes a hex secret, falling back to the raw bytes.
func csrfSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if decoded, err := hex.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}

func Run(cfg *config.Config, version string) {
	orchestrator, normalizer, err := NewSearch(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize search: %v", err)
	}
	if cfg.Search.CacheSize > 0 {
		log.Printf("Search cache bounded to %d queries", cfg.Search.CacheSize)
	} else {
		log.Printf("Search cache is unbounded")
	}

	registry := readinglist.NewRegistry()
	sessionManager := sessions.NewManager(cfg.Sessions)

	var coverCache *covers.Cache
	var coverSource http_controllers.CoverSource
	var coverPruner scheduler.CoverPruner
	if cfg.Covers.Enabled {
		coverCache, err = covers.NewCache(cfg.CoversDir(), normalizer.CoverURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize cover cache: %v", err)
			coverCache = nil
		} else {
			coverSource = coverCache
			coverPruner = coverCache
			log.Printf("Cover cache initialized at %s", coverCache.CacheDir())
		}
	}

	// Background workers and the janitor run until shutdown cancels this
	bgCtx, bgCancel := context.WithCancel(context.Background())

	var taskClient *tasks.Client
	var taskQueue http_controllers.TaskQueue
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.TasksDBPath(), tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize task queue: %v", err)
			taskClient = nil
		} else {
			taskClient.Register(tasks.NewWarmSearchQueue(orchestrator))
			if coverCache != nil {
				taskClient.Register(tasks.NewPrefetchCoversQueue(coverCache))
				orchestrator.OnFetched(tasks.PrefetchCoversHook(taskClient))
			}
			taskQueue = taskClient
			taskClient.Start(bgCtx)
		}
	}

	var janitor *scheduler.Janitor
	if cfg.Janitor.Enabled {
		janitor = scheduler.NewJanitor(registry, coverPruner, scheduler.JanitorConfig{
			Schedule:    cfg.Janitor.Schedule,
			ListIdleTTL: cfg.Janitor.ListIdleTTL,
			CoverMaxAge: cfg.Janitor.CoverMaxAge,
		})
		if err := janitor.Start(bgCtx); err != nil {
			log.Printf("Warning: Failed to start janitor: %v", err)
			janitor = nil
		}
	}

	secret := csrfSecret(cfg.Sessions.CSRFSecret)
	if len(secret) > 0 {
		log.Printf("CSRF protection enabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Search:        orchestrator,
		Lists:         registry,
		Sessions:      sessionManager,
		Covers:        coverSource,
		Tasks:         taskQueue,
		CSRFSecret:    secret,
		SecureCookies: cfg.Sessions.SecureCookies,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		if janitor != nil {
			janitor.Stop()
		}
		if taskClient != nil {
			if err := taskClient.Shutdown(ctx); err != nil {
				log.Printf("Failed to shut down task queue: %v", err)
			}
		}
		bgCancel()
		if coverCache != nil {
			if err := coverCache.Clear(); err != nil {
				log.Printf("Failed to clear cover cache: %v", err)
			}
		}
	}

	Serve(router, cfg, onShutdown)
}
