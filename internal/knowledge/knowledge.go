// Package knowledge looks item names up in a knowledge-graph entity search.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://kgsearch.googleapis.com/v1/entities:search"
	cacheTTL       = 6 * time.Hour
)

var ErrNotConfigured = errors.New("knowledge API key not configured")

type entry struct {
	recognized bool
	fetched    time.Time
}

// Service answers whether a name is a known entity, caching answers per
// normalized name.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]entry
}

type Option func(*Service)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = u }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a lookup service. An empty apiKey leaves it unconfigured.
func NewService(apiKey string, opts ...Option) *Service {
	s := &Service{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
		ttl:     cacheTTL,
		now:     time.Now,
		cache:   make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "knowledge")
	return s
}

func (s *Service) Configured() bool {
	return s != nil && s.apiKey != ""
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Recognized reports whether the entity search returns at least one match
// for name.
func (s *Service) Recognized(ctx context.Context, name string) (bool, error) {
	if !s.Configured() {
		return false, ErrNotConfigured
	}
	key := normalize(name)
	if key == "" {
		return false, nil
	}

	s.mu.RLock()
	e, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(e.fetched) < s.ttl {
		return e.recognized, nil
	}

	recognized, err := s.search(ctx, key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.cache[key] = entry{recognized: recognized, fetched: s.now()}
	s.mu.Unlock()

	s.logger.Debug("entity lookup", "name", key, "recognized", recognized)
	return recognized, nil
}

type searchResponse struct {
	ItemListElement []struct {
		Result struct {
			Name        string   `json:"name"`
			Types       []string `json:"@type"`
			Description string   `json:"description"`
		} `json:"result"`
		ResultScore float64 `json:"resultScore"`
	} `json:"itemListElement"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Service) search(ctx context.Context, query string) (bool, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("key", s.apiKey)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create entity search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("entity search request: %w", err)
	}
	defer resp.Body.Close()

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && resp.StatusCode == http.StatusOK {
		return false, fmt.Errorf("decode entity search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return false, fmt.Errorf("entity search returned status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return false, fmt.Errorf("entity search returned status %d", resp.StatusCode)
	}

	return len(parsed.ItemListElement) > 0, nil
}
