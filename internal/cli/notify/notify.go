// Package notify delivers user-visible success and error messages (toasts).
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"GluviaAdmin/internal/cli/api"

	"go.uber.org/zap"
)

// NetworkFailureMessage is shown for transport errors and timeouts.
const NetworkFailureMessage = "Network error: unable to reach the server. Please try again."

// Notifier receives toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Writer печатает уведомления в w и дублирует их в лог.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.SugaredLogger
}

// NewWriter creates a Writer. logger may be nil.
func NewWriter(w io.Writer, logger *zap.SugaredLogger) *Writer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Writer{w: w, logger: logger}
}

func (n *Writer) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✓ %s\n", msg)
	n.logger.Debugw("toast", "kind", "success", "message", msg)
}

func (n *Writer) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "× %s\n", msg)
	n.logger.Debugw("toast", "kind", "error", "message", msg)
}

// Toast is one recorded notification.
type Toast struct {
	Success bool
	Message string
}

// Recorder keeps toasts in memory; used by tests and by callers that render later.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(msg string) { r.add(Toast{Success: true, Message: msg}) }
func (r *Recorder) Error(msg string) { r.add(Toast{Message: msg}) }

func (r *Recorder) add(t Toast) {
	r.mu.Lock()
	r.toasts = append(r.toasts, t)
	r.mu.Unlock()
}

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Errors returns only the error messages.
func (r *Recorder) Errors() []string {
	var out []string
	for _, t := range r.Toasts() {
		if !t.Success {
			out = append(out, t.Message)
		}
	}
	return out
}

// FromError turns a failed call into toast texts: one per field detail,
// otherwise the server message, otherwise fallback.
func FromError(err error, fallback string) []string {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Details) > 0 {
			out := make([]string, 0, len(apiErr.Details))
			for _, d := range apiErr.Details {
				if d.Field == "" {
					out = append(out, d.Message)
					continue
				}
				out = append(out, d.Field+": "+d.Message)
			}
			return out
		}
		if apiErr.Message != "" {
			return []string{apiErr.Message}
		}
	}
	if api.IsNetwork(err) {
		return []string{NetworkFailureMessage}
	}
	if fallback != "" {
		return []string{fallback}
	}
	return []string{err.Error()}
}

// Failure emits every message FromError derives from err.
func Failure(n Notifier, err error, fallback string) {
	for _, m := range FromError(err, fallback) {
		n.Error(m)
	}
}
