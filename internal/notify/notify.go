// Package notify carries user-facing notifications to whatever surface the
// host application renders them on. The success/info/error taxonomy matches
// the storefront's toast colors.
package notify

import (
	"log/slog"
	"sync"

	"github.com/tasselgroup/storefront/internal/port"
)

// Slog logs notifications through structured logging; the default surface
// when no UI toast layer is attached.
type Slog struct {
	Logger *slog.Logger
}

func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{Logger: logger}
}

func (n *Slog) Notify(level port.NotificationLevel, message string) {
	switch level {
	case port.LevelError:
		n.Logger.Error(message, "notification", level)
	default:
		n.Logger.Info(message, "notification", level)
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

type Entry struct {
	Level   port.NotificationLevel
	Message string
}

func (r *Recorder) Notify(level port.NotificationLevel, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

var (
	_ port.Notifier = (*Slog)(nil)
	_ port.Notifier = (*Recorder)(nil)
)
