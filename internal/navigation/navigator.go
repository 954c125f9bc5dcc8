package navigation

import (
	"sync"

	"go.uber.org/zap"
)

// Navigator performs side-effect navigations (logout, forbidden redirects).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(target string) { f(target) }

const maxHistory = 64

// History records navigations requested outside a page request, keeping
// the most recent entries. The shell reads Current to find pending redirects.
type History struct {
	mu      sync.RWMutex
	entries []string
	logger  *zap.Logger
}

// NewHistory returns an empty history.
func NewHistory(logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{logger: logger}
}

// Navigate appends target.
func (h *History) Navigate(target string) {
	h.mu.Lock()
	h.entries = append(h.entries, target)
	if len(h.entries) > maxHistory {
		h.entries = append([]string(nil), h.entries[len(h.entries)-maxHistory:]...)
	}
	h.mu.Unlock()
	h.logger.Debug("navigate", zap.String("target", target))
}

// Current returns the last requested target, or "" when none.
func (h *History) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the recorded targets, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.entries...)
}
