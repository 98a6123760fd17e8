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

	// Auth
	APIKey string

	// AI extraction (OpenAI-compatible chat endpoint)
	AIBaseURL     string
	AIAPIKey      string
	ModelPriority []string
	ModelRetries  int
	AICallTimeout time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Storage
	DBPath string

	// Extraction tuning
	ContactHeadChars     int
	SegmentationStrategy string // "heuristic" or "ai"

	// Entity detection thresholds
	EntityMinCapRatio  float64
	EntityHighCapRatio float64
	EntityMaxWords     int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("CVEXTRACT_API_KEY"),

		AIBaseURL:     envOr("AI_BASE_URL", "https://api.groq.com/openai/v1"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		ModelPriority: splitCSV(envOr("MODEL_PRIORITY", "llama-3.3-70b-versatile,llama-3.1-8b-instant")),
		ModelRetries:  envInt("MODEL_RETRIES", 2),
		AICallTimeout: envDuration("AI_CALL_TIMEOUT", 60*time.Second),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		DBPath: envOr("DB_PATH", "cvextract.db"),

		ContactHeadChars:     envInt("CONTACT_HEAD_CHARS", 2500),
		SegmentationStrategy: envOr("SEGMENTATION_STRATEGY", "heuristic"),

		EntityMinCapRatio:  envFloat("ENTITY_MIN_CAP_RATIO", 0.4),
		EntityHighCapRatio: envFloat("ENTITY_HIGH_CAP_RATIO", 0.6),
		EntityMaxWords:     envInt("ENTITY_MAX_WORDS", 10),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.ModelRetries <= 0 {
		cfg.ModelRetries = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.SegmentationStrategy != "ai" {
		cfg.SegmentationStrategy = "heuristic"
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CVEXTRACT_API_KEY is required")
	}
	if c.AIAPIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	if len(c.ModelPriority) == 0 {
		return fmt.Errorf("MODEL_PRIORITY must name at least one model")
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
