package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/grocerymate/internal/model"
)

const maxResponseBytes = 1 << 20

// HTTP is a Facade backed by a real backend.
type HTTP struct {
	baseURL    string
	token      string
	httpClient *http.Client
	journal    Journal
	logger     *slog.Logger
}

type HTTPOption func(*HTTP)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.httpClient = c
	}
}

func WithHTTPJournal(j Journal) HTTPOption {
	return func(h *HTTP) {
		h.journal = j
	}
}

func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = l
	}
}

// NewHTTP creates an HTTP facade. token is sent as a bearer token when set.
func NewHTTP(baseURL, token string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTP) Call(ctx context.Context, req Request) Envelope {
	var body io.Reader
	var reqData json.RawMessage
	if req.Payload != nil {
		b, err := json.Marshal(req.Payload)
		if err != nil {
			return failure("encode payload: " + err.Error())
		}
		reqData = b
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, h.baseURL+req.Endpoint, body)
	if err != nil {
		return failure("create request: " + err.Error())
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		h.logger.Warn("remote request failed", "endpoint", req.Endpoint, "method", req.Method, "error", err)
		return failure(NetworkErrorMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure("read response: " + err.Error())
	}

	env := normalize(resp.StatusCode, raw)
	if env.Success && h.journal != nil {
		entry := model.APILogEntry{
			Timestamp:    time.Now().UTC(),
			Endpoint:     req.Endpoint,
			Method:       req.Method,
			RequestData:  reqData,
			ResponseData: env.Data,
		}
		if err := h.journal.AppendAPILog(entry); err != nil {
			h.logger.Error("append api log", "endpoint", req.Endpoint, "error", err)
		}
	}
	return env
}

// normalize turns a raw response into an Envelope. Bodies that already are
// envelopes pass through untouched.
func normalize(status int, raw []byte) Envelope {
	raw = bytes.TrimSpace(raw)

	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	isObject := len(raw) > 0 && raw[0] == '{'
	if isObject && json.Unmarshal(raw, &envelope) == nil && envelope.Success != nil {
		env := Envelope{Success: *envelope.Success, Data: envelope.Data, Error: envelope.Error}
		if status >= 300 {
			env.Success = false
		}
		if !env.Success && env.Error == "" {
			env.Error = fmt.Sprintf("status %d", status)
		}
		return env
	}

	if status < 200 || status >= 300 {
		if isObject && envelope.Error != "" {
			return failure(envelope.Error)
		}
		return failure(fmt.Sprintf("status %d", status))
	}

	if len(raw) == 0 {
		return Envelope{Success: true}
	}
	if !json.Valid(raw) {
		return failure("invalid JSON response")
	}
	return Envelope{Success: true, Data: json.RawMessage(raw)}
}
