package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Catalog
		Search
		Covers
		Sessions
		Tasks
		Janitor
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		DataDir                  string // Scratch space for covers and the task queue, removed on shutdown
	}
	Catalog struct {
		BaseURL       string
		CoversBaseURL string
		Timeout       time.Duration
		RatePerSecond float64
		RateBurst     int
		UserAgent     string
	}
	Search struct {
		CacheSize int // 0 = unbounded
	}
	Covers struct {
		Enabled    bool
		DefaultURL string // Used as cover_image_url for books without a cover id
	}
	Sessions struct {
		Lifetime      time.Duration
		SecureCookies bool
		CSRFSecret    string // CSRF protection is enabled when set (32 bytes, hex or raw)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Janitor struct {
		Enabled     bool
		Schedule    string // Cron format: "*/15 * * * *" = every 15 minutes
		ListIdleTTL time.Duration
		CoverMaxAge time.Duration
	}
)

// CoversDir returns where cover images are cached.
func (c *Config) CoversDir() string {
	return filepath.Join(c.Global.DataDir, "covers")
}

// TasksDBPath returns the SQLite file backing the task queue.
func (c *Config) TasksDBPath() string {
	return filepath.Join(c.Global.DataDir, "tasks.db")
}

// loadDotEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("WARNING: failed to load %s: %v", path, err)
	}
}

func NewConfig() *Config {
	loadDotEnv(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_dir", filepath.Join(os.TempDir(), "bookfinder"))

	// Catalog defaults
	v.SetDefault("catalog_base_url", "https://openlibrary.org")
	v.SetDefault("catalog_covers_base_url", "https://covers.openlibrary.org")
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("catalog_rate_per_second", 1.0)
	v.SetDefault("catalog_rate_burst", 3)
	v.SetDefault("catalog_user_agent", "")

	// Search cache defaults
	v.SetDefault("search_cache_size", 0) // Unbounded

	// Covers defaults
	v.SetDefault("covers_enabled", true)
	v.SetDefault("covers_default_url", DefaultCoverURL)

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)
	v.SetDefault("csrf_secret", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "10m")

	// Janitor defaults
	v.SetDefault("janitor_enabled", true)
	v.SetDefault("janitor_schedule", "*/15 * * * *")
	v.SetDefault("janitor_list_idle_ttl", "24h")
	v.SetDefault("janitor_cover_max_age", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			DataDir:                  v.GetString("DATA_DIR"),
		},
		Catalog: Catalog{
			BaseURL:       v.GetString("CATALOG_BASE_URL"),
			CoversBaseURL: v.GetString("CATALOG_COVERS_BASE_URL"),
			Timeout:       v.GetDuration("CATALOG_TIMEOUT"),
			RatePerSecond: v.GetFloat64("CATALOG_RATE_PER_SECOND"),
			RateBurst:     v.GetInt("CATALOG_RATE_BURST"),
			UserAgent:     v.GetString("CATALOG_USER_AGENT"),
		},
		Search: Search{
			CacheSize: v.GetInt("SEARCH_CACHE_SIZE"),
		},
		Covers: Covers{
			Enabled:    v.GetBool("COVERS_ENABLED"),
			DefaultURL: v.GetString("COVERS_DEFAULT_URL"),
		},
		Sessions: Sessions{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Janitor: Janitor{
			Enabled:     v.GetBool("JANITOR_ENABLED"),
			Schedule:    v.GetString("JANITOR_SCHEDULE"),
			ListIdleTTL: v.GetDuration("JANITOR_LIST_IDLE_TTL"),
			CoverMaxAge: v.GetDuration("JANITOR_COVER_MAX_AGE"),
		},
	}
}
