package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dukerupert/grocerymate/internal/model"
)

// Simulated is a development stand-in for the backend. It waits a random
// delay, fails a fixed share of calls and echoes the payload back otherwise.
type Simulated struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	failureRate float64
	journal     Journal
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type SimulatedOption func(*Simulated)

// WithDelay sets the delay range. A zero range disables waiting.
func WithDelay(min, max time.Duration) SimulatedOption {
	return func(s *Simulated) {
		s.minDelay = min
		s.maxDelay = max
	}
}

func WithFailureRate(p float64) SimulatedOption {
	return func(s *Simulated) {
		s.failureRate = p
	}
}

func WithRand(r *rand.Rand) SimulatedOption {
	return func(s *Simulated) {
		s.rng = r
	}
}

func WithJournal(j Journal) SimulatedOption {
	return func(s *Simulated) {
		s.journal = j
	}
}

func WithLogger(l *slog.Logger) SimulatedOption {
	return func(s *Simulated) {
		s.logger = l
	}
}

func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		minDelay:    300 * time.Millisecond,
		maxDelay:    800 * time.Millisecond,
		failureRate: 0.1,
		logger:      slog.Default(),
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) roll() (time.Duration, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rng.Float64() * float64(span))
	}
	return delay, s.rng.Float64()
}

func (s *Simulated) Call(ctx context.Context, req Request) Envelope {
	delay, chance := s.roll()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return failure(ctx.Err().Error())
		case <-timer.C:
		}
	}

	if chance < s.failureRate {
		s.logger.Warn("simulated call failed", "endpoint", req.Endpoint, "method", req.Method)
		return failure(NetworkErrorMessage)
	}

	var data json.RawMessage
	if req.Payload != nil {
		b, err := json.Marshal(req.Payload)
		if err != nil {
			return failure("encode payload: " + err.Error())
		}
		data = b
	}

	if s.journal != nil {
		entry := model.APILogEntry{
			Timestamp:    time.Now().UTC(),
			Endpoint:     req.Endpoint,
			Method:       req.Method,
			RequestData:  data,
			ResponseData: data,
		}
		if err := s.journal.AppendAPILog(entry); err != nil {
			s.logger.Error("append api log", "endpoint", req.Endpoint, "error", err)
		}
	}

	return Envelope{Success: true, Data: data}
}
