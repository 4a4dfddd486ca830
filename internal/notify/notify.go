// Package notify carries transient, auto-dismissing user feedback.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/catalyst-admin/catalyst-admin/internal/shared"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultDuration is how long a notification stays visible unless configured otherwise.
const DefaultDuration = 5 * time.Second

// Notification is an ephemeral message shown once and dismissed after DurationMs.
type Notification struct {
	Message    string
	Severity   Severity
	DurationMs int
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success is shorthand for a success notification.
func Success(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Message: message, Severity: SeveritySuccess})
}

// Error is shorthand for an error notification.
func Error(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Message: message, Severity: SeverityError})
}

// Warning is shorthand for a warning notification.
func Warning(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Message: message, Severity: SeverityWarning})
}

// Info is shorthand for an info notification.
func Info(ctx context.Context, n Notifier, message string) {
	n.Notify(ctx, Notification{Message: message, Severity: SeverityInfo})
}

// SessionNotifier queues notifications as flashes on the request session so the
// next rendered page shows them, including across a redirect.
type SessionNotifier struct {
	Duration time.Duration
}

// NewSessionNotifier returns a SessionNotifier using duration as the default display time.
func NewSessionNotifier(duration time.Duration) *SessionNotifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &SessionNotifier{Duration: duration}
}

// Notify implements Notifier.
func (s *SessionNotifier) Notify(ctx context.Context, n Notification) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return
	}
	n = normalize(n, s.Duration)
	sess.AddFlash(shared.FlashMessage{Kind: string(n.Severity), Message: n.Message, DurationMs: n.DurationMs})
}

// FromFlashes converts popped session flashes into notifications for rendering.
func FromFlashes(flashes []shared.FlashMessage) []Notification {
	if len(flashes) == 0 {
		return nil
	}
	out := make([]Notification, 0, len(flashes))
	for _, f := range flashes {
		out = append(out, normalize(Notification{Message: f.Message, Severity: Severity(f.Kind), DurationMs: f.DurationMs}, DefaultDuration))
	}
	return out
}

func normalize(n Notification, fallback time.Duration) Notification {
	switch n.Severity {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
	default:
		n.Severity = SeverityInfo
	}
	if n.DurationMs <= 0 {
		n.DurationMs = int(fallback / time.Millisecond)
	}
	return n
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, normalize(n, DefaultDuration))
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
