package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/domain"
	"github.com/spec-kit/hr-client/internal/observability"
	"github.com/spec-kit/hr-client/internal/service"
	"github.com/spec-kit/hr-client/internal/session"
)

// SessionSource is the part of the session service the watcher follows.
type SessionSource interface {
	Subscribe(ctx context.Context, listener session.Listener) *session.Subscription
}

// StartSessionWatcher registers the notice handlers and follows the auth
// state until ctx ends, keeping the authenticated gauge and the session
// start/end log current. The returned func stops both early.
func StartSessionWatcher(ctx context.Context, sessions SessionSource, notices *service.NotificationService, metrics *observability.Metrics, logger *zap.Logger) (stop func()) {
	logger = observability.OrNop(logger)

	unregister := func() {}
	if notices != nil {
		unregister = notices.RegisterHandlers()
	}

	var sub *session.Subscription
	if sessions != nil {
		var last *domain.Identity
		sub = sessions.Subscribe(ctx, func(state domain.AuthState) {
			user := state.CurrentUser
			if user == nil {
				metrics.SetAuthenticated("")
				if last != nil {
					logger.Info("session ended", zap.Int("user_id", last.ID))
				}
				last = nil
				return
			}
			metrics.SetAuthenticated(user.Role.String())
			if last == nil || last.ID != user.ID {
				logger.Info("session started", zap.Int("user_id", user.ID), zap.String("role", user.Role.String()))
			}
			last = user
		})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			unregister()
			if sub != nil {
				sub.Cancel()
			}
		})
	}
}
