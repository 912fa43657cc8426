package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Storage
	StoreDriver string // "postgres" or "memory"
	DatabaseURL string

	// Supabase dashboard mirror (optional)
	SupabaseURL string
	SupabaseKey string

	// Auth
	APIKey string

	// Worker pool
	JobWorkers     int
	MaxQueueSize   int
	SegmentWorkers int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Fetcher
	UserAgent     string
	FetchTimeout  time.Duration
	FetchMaxBytes int64
	FetchRetries  int
	RatePerHost   float64
	RateBurst     int
	CacheTTL      time.Duration

	// Extraction defaults
	DefaultFiscalYear string
	KeywordsFile      string

	// Summary fallback split when a year has no categorized spend.
	FallbackDetentionPct float64
	FallbackCommunityPct float64

	// Discovery sources for scheduled runs (comma-separated env vars).
	IndexURLs []string
	FeedURLs  []string

	// Scheduler cron specs (seconds field included).
	DailyRunSpec     string
	WeeklyReportSpec string

	// Email alerts
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
	EmailTo   string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		StoreDriver: envOr("STORE_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		APIKey: os.Getenv("SPENDSCAN_API_KEY"),

		JobWorkers:     envInt("JOB_WORKERS", 1),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 50),
		SegmentWorkers: envInt("SEGMENT_WORKERS", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		UserAgent:     envOr("FETCH_USER_AGENT", "spendscan/1.0 (+https://github.com/openaudit/spendscan)"),
		FetchTimeout:  envDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchMaxBytes: envInt64("FETCH_MAX_BYTES", 33554432), // 32MB
		FetchRetries:  envInt("FETCH_RETRIES", 3),
		RatePerHost:   envFloat("FETCH_RATE_PER_HOST", 1.0),
		RateBurst:     envInt("FETCH_RATE_BURST", 2),
		CacheTTL:      envDuration("FETCH_CACHE_TTL", 6*time.Hour),

		DefaultFiscalYear: envOr("DEFAULT_FISCAL_YEAR", "2024-25"),
		KeywordsFile:      os.Getenv("KEYWORDS_FILE"),

		FallbackDetentionPct: envFloat("FALLBACK_DETENTION_PCT", 90.6),
		FallbackCommunityPct: envFloat("FALLBACK_COMMUNITY_PCT", 9.4),

		IndexURLs: envList("INDEX_URLS"),
		FeedURLs:  envList("FEED_URLS"),

		DailyRunSpec:     envOr("DAILY_RUN_SPEC", "0 0 9 * * *"),
		WeeklyReportSpec: envOr("WEEKLY_REPORT_SPEC", "0 0 8 * * 1"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  envInt("SMTP_PORT", 587),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),
		EmailTo:   os.Getenv("EMAIL_TO"),
	}

	if cfg.JobWorkers <= 0 {
		cfg.JobWorkers = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.SegmentWorkers <= 0 {
		cfg.SegmentWorkers = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 3
	}
	if cfg.RatePerHost <= 0 {
		cfg.RatePerHost = 1.0
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 2
	}

	return cfg
}

// Validate checks the configuration needed to run the HTTP server.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SPENDSCAN_API_KEY is required")
	}
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %s", c.StoreDriver)
	}
	return nil
}

// EmailEnabled reports whether SMTP settings are complete enough to send.
func (c Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailFrom != "" && c.EmailTo != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
