// Package remote talks to the grocery backend. Every call returns an
// Envelope; failures never panic or return bare transport errors.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/grocerymate/internal/model"
)

// NetworkErrorMessage is the message of a simulated transport failure.
const NetworkErrorMessage = "Network error. Please try again."

// Envelope is the uniform {success, data?, error?} result of a remote call.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Error is a failed remote call.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "remote: " + e.Message
}

// Err returns nil for a successful envelope and an *Error otherwise.
func (e Envelope) Err() error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = "request failed"
	}
	return &Error{Message: msg}
}

// Decode unmarshals Data into v. Empty or null data leaves v untouched.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

func failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// Request names one backend call.
type Request struct {
	Endpoint string
	Method   string
	Payload  any
}

// Facade issues a request and normalizes the outcome.
type Facade interface {
	Call(ctx context.Context, req Request) Envelope
}

// Journal records successful calls for diagnostics.
type Journal interface {
	AppendAPILog(entry model.APILogEntry) error
}
