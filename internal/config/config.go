// Package config loads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Remote backend. An empty URL selects the simulated facade.
	RemoteURL         string
	RemoteToken       string
	RemoteFailureRate float64
	RemoteMinDelay    time.Duration
	RemoteMaxDelay    time.Duration
	RemoteRetries     uint64

	CompletionAPIKey  string
	CompletionBaseURL string
	CompletionModel   string

	KnowledgeAPIKey string

	Backup BackupConfig

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type BackupConfig struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Prefix     string
	Passphrase string
	Interval   time.Duration
	Keep       int
}

// Load reads path (if it exists) into the environment without overriding
// variables already set, then builds the configuration.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	p := parser{}
	cfg := &Config{
		Port:      getEnv("GROCERY_PORT", "8080"),
		DBPath:    getEnv("GROCERY_DB_PATH", "grocerymate.db"),
		LogLevel:  getEnv("GROCERY_LOG_LEVEL", "info"),
		LogFormat: getEnv("GROCERY_LOG_FORMAT", "text"),

		RemoteURL:         strings.TrimSpace(os.Getenv("GROCERY_REMOTE_URL")),
		RemoteToken:       os.Getenv("GROCERY_REMOTE_TOKEN"),
		RemoteFailureRate: p.float("GROCERY_REMOTE_FAILURE_RATE", 0.1),
		RemoteMinDelay:    p.duration("GROCERY_REMOTE_MIN_DELAY", 300*time.Millisecond),
		RemoteMaxDelay:    p.duration("GROCERY_REMOTE_MAX_DELAY", 800*time.Millisecond),
		RemoteRetries:     uint64(p.int("GROCERY_REMOTE_RETRIES", 0)),

		CompletionAPIKey:  os.Getenv("GROCERY_COMPLETION_API_KEY"),
		CompletionBaseURL: os.Getenv("GROCERY_COMPLETION_BASE_URL"),
		CompletionModel:   os.Getenv("GROCERY_COMPLETION_MODEL"),

		KnowledgeAPIKey: os.Getenv("GROCERY_KNOWLEDGE_API_KEY"),

		Backup: BackupConfig{
			Endpoint:   os.Getenv("GROCERY_BACKUP_S3_ENDPOINT"),
			Bucket:     os.Getenv("GROCERY_BACKUP_S3_BUCKET"),
			Region:     getEnv("GROCERY_BACKUP_S3_REGION", "us-east-1"),
			AccessKey:  os.Getenv("GROCERY_BACKUP_S3_ACCESS_KEY"),
			SecretKey:  os.Getenv("GROCERY_BACKUP_S3_SECRET_KEY"),
			Prefix:     os.Getenv("GROCERY_BACKUP_PREFIX"),
			Passphrase: os.Getenv("GROCERY_BACKUP_PASSPHRASE"),
			Interval:   p.duration("GROCERY_BACKUP_INTERVAL", 0),
			Keep:       p.int("GROCERY_BACKUP_KEEP", 14),
		},

		LoginRateLimit:  p.int("GROCERY_LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: p.duration("GROCERY_LOGIN_RATE_WINDOW", time.Minute),
	}
	if p.err != nil {
		return nil, p.err
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("GROCERY_PORT: invalid port %q", cfg.Port)
	}
	if cfg.RemoteFailureRate < 0 || cfg.RemoteFailureRate > 1 {
		return nil, fmt.Errorf("GROCERY_REMOTE_FAILURE_RATE: %v is outside [0, 1]", cfg.RemoteFailureRate)
	}
	if cfg.RemoteMaxDelay < cfg.RemoteMinDelay {
		return nil, fmt.Errorf("GROCERY_REMOTE_MAX_DELAY must not be below GROCERY_REMOTE_MIN_DELAY")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != "" && p.err == nil
}

func (p *parser) int(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.err = fmt.Errorf("%s: invalid number %q", key, v)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = fmt.Errorf("%s: invalid number %q", key, v)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.err = fmt.Errorf("%s: invalid duration %q", key, v)
		return def
	}
	return d
}
