package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/events"
	"github.com/spec-kit/hr-client/internal/observability"
)

const defaultNoticeLimit = 50

// Notice is a user-facing message derived from a session event.
type Notice struct {
	EventID string           `json:"eventId"`
	Type    events.EventType `json:"type"`
	Level   string           `json:"level"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

// NotificationService turns session events into notices.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	limit      int

	mu     sync.Mutex
	recent []Notice
}

// NewNotificationService creates the service. limit bounds the recent list;
// zero picks a default.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, limit int) *NotificationService {
	if limit <= 0 {
		limit = defaultNoticeLimit
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     observability.OrNop(logger),
		limit:      limit,
	}
}

// RegisterHandlers subscribes to the session events and returns a func that
// unsubscribes them all.
func (n *NotificationService) RegisterHandlers() (unregister func()) {
	if n.dispatcher == nil {
		return func() {}
	}
	stops := []func(){
		n.dispatcher.Subscribe(events.EventLoggedIn, n.handleLoggedIn),
		n.dispatcher.Subscribe(events.EventLoggedOut, n.handleLoggedOut),
		n.dispatcher.Subscribe(events.EventSessionExpired, n.handleSessionExpired),
		n.dispatcher.Subscribe(events.EventAccessDenied, n.handleAccessDenied),
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

// Recent returns the retained notices, oldest first.
func (n *NotificationService) Recent() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.recent...)
}

func (n *NotificationService) handleLoggedIn(_ context.Context, event events.Event) error {
	name := event.Actor.Login
	if payload, ok := event.Payload.(events.LoggedInPayload); ok && payload.FullName != "" {
		name = payload.FullName
	}
	n.push(event, "info", fmt.Sprintf("Welcome, %s", name))
	return nil
}

func (n *NotificationService) handleLoggedOut(_ context.Context, event events.Event) error {
	n.push(event, "info", "You have been logged out.")
	return nil
}

func (n *NotificationService) handleSessionExpired(_ context.Context, event events.Event) error {
	n.push(event, "warning", "Session expired. Please log in again.")
	return nil
}

func (n *NotificationService) handleAccessDenied(_ context.Context, event events.Event) error {
	n.push(event, "error", "You do not have permission to access this resource.")
	return nil
}

func (n *NotificationService) push(event events.Event, level, message string) {
	notice := Notice{EventID: event.ID, Type: event.Type, Level: level, Message: message, At: event.Timestamp}
	n.logger.Info("notice",
		zap.String("event_type", string(event.Type)),
		zap.String("level", level),
		zap.Int("user_id", event.Actor.UserID))

	n.mu.Lock()
	defer n.mu.Unlock()
	n.recent = append(n.recent, notice)
	if len(n.recent) > n.limit {
		n.recent = append([]Notice(nil), n.recent[len(n.recent)-n.limit:]...)
	}
}
