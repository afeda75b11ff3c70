// Package notify provides Notifier sinks: a structured-log sink for
// headless runs and a recorder that keeps every notification in memory.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/core/ports"
)

// LogSink writes notifications as log lines.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) NotifyError(message string) {
	s.log.Error().Str("notification", "error").Msg(message)
}

func (s *LogSink) NotifySuccess(message string) {
	s.log.Info().Str("notification", "success").Msg(message)
}

// Level distinguishes recorded notifications.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notification is one recorded call.
type Notification struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) NotifyError(message string) { r.add(LevelError, message) }

func (r *Recorder) NotifySuccess(message string) { r.add(LevelSuccess, message) }

func (r *Recorder) add(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// All returns a copy of every notification recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Errors returns only the error messages.
func (r *Recorder) Errors() []string { return r.filter(LevelError) }

// Successes returns only the success messages.
func (r *Recorder) Successes() []string { return r.filter(LevelSuccess) }

func (r *Recorder) filter(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.items {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

// Fanout forwards each notification to every sink.
type Fanout []ports.Notifier

func (f Fanout) NotifyError(message string) {
	for _, s := range f {
		s.NotifyError(message)
	}
}

func (f Fanout) NotifySuccess(message string) {
	for _, s := range f {
		s.NotifySuccess(message)
	}
}
