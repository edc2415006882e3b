// Package notify carries user-visible notifications and change events from
// the stores to whatever presents them.
package notify

import (
	"log/slog"
	"sync"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notifier receives transient toasts and state change events.
type Notifier interface {
	Toast(level Level, message string)
	Changed(entity, action, id string)
}

// Discard drops everything.
type Discard struct{}

func (Discard) Toast(Level, string)            {}
func (Discard) Changed(string, string, string) {}

// Log writes notifications to a logger. Used by the CLI.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Toast(level Level, message string) {
	switch level {
	case Warning:
		l.Logger.Warn(message)
	case Error:
		l.Logger.Error(message)
	default:
		l.Logger.Info(message)
	}
}

func (l Log) Changed(entity, action, id string) {
	l.Logger.Debug("state changed", "entity", entity, "action", action, "id", id)
}

type Toast struct {
	Level   Level
	Message string
}

type Change struct {
	Entity string
	Action string
	ID     string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu      sync.Mutex
	toasts  []Toast
	changes []Change
}

func (r *Recorder) Toast(level Level, message string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Level: level, Message: message})
	r.mu.Unlock()
}

func (r *Recorder) Changed(entity, action, id string) {
	r.mu.Lock()
	r.changes = append(r.changes, Change{Entity: entity, Action: action, ID: id})
	r.mu.Unlock()
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

// Count returns how many toasts of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.toasts {
		if t.Level == level {
			n++
		}
	}
	return n
}

// Fanout delivers to several notifiers in order.
type Fanout []Notifier

func (f Fanout) Toast(level Level, message string) {
	for _, n := range f {
		n.Toast(level, message)
	}
}

func (f Fanout) Changed(entity, action, id string) {
	for _, n := range f {
		n.Changed(entity, action, id)
	}
}
