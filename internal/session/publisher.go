package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/hr-client/internal/domain"
)

// Listener receives auth state updates.
type Listener func(domain.AuthState)

// Subscription is the handle returned by Subscribe. Cancel is idempotent.
type Subscription struct {
	id       string
	listener Listener
	owner    *Publisher
	once     sync.Once

	mu   sync.Mutex
	stop func() bool
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string { return s.id }

// Cancel stops delivery. Updates already being delivered may still arrive.
func (s *Subscription) Cancel() {
	s.once.Do(func() { s.owner.remove(s.id) })

	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Publisher broadcasts the auth state to any number of subscribers. Each
// subscriber gets the current state on subscription and every later update,
// in publish order. Only the holder of the Publisher can publish; readers
// get the StateReader view.
type Publisher struct {
	mu    sync.RWMutex
	state domain.AuthState
	subs  map[string]*Subscription
	order []string

	// deliver serializes publish and initial replay so listeners never see
	// updates out of order.
	deliver sync.Mutex
}

// NewPublisher returns a publisher holding the logged-out state.
func NewPublisher() *Publisher {
	return &Publisher{state: domain.LoggedOut(), subs: make(map[string]*Subscription)}
}

// Snapshot returns the current state. The returned identity is a copy.
func (p *Publisher) Snapshot() domain.AuthState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return domain.NewAuthState(p.state.CurrentUser)
}

// Subscribe registers listener and immediately replays the current state.
// The subscription ends when ctx is done or Cancel is called. Listeners run
// synchronously and must not call Subscribe or Publish.
func (p *Publisher) Subscribe(ctx context.Context, listener Listener) *Subscription {
	sub := &Subscription{id: uuid.NewString(), listener: listener, owner: p}

	p.deliver.Lock()
	p.mu.Lock()
	p.subs[sub.id] = sub
	p.order = append(p.order, sub.id)
	current := domain.NewAuthState(p.state.CurrentUser)
	p.mu.Unlock()
	listener(current)
	p.deliver.Unlock()

	stop := context.AfterFunc(ctx, sub.Cancel)
	sub.mu.Lock()
	sub.stop = stop
	sub.mu.Unlock()
	return sub
}

// Publish replaces the state and delivers it to every live subscriber
// before returning.
func (p *Publisher) Publish(state domain.AuthState) {
	state = domain.NewAuthState(state.CurrentUser)

	p.deliver.Lock()
	defer p.deliver.Unlock()

	p.mu.Lock()
	p.state = state
	targets := make([]*Subscription, 0, len(p.order))
	for _, id := range p.order {
		targets = append(targets, p.subs[id])
	}
	p.mu.Unlock()

	for _, sub := range targets {
		if !p.live(sub.id) {
			continue
		}
		sub.listener(domain.NewAuthState(state.CurrentUser))
	}
}

// Subscribers reports the number of live subscriptions.
func (p *Publisher) Subscribers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

func (p *Publisher) live(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.subs[id]
	return ok
}

func (p *Publisher) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[id]; !ok {
		return
	}
	delete(p.subs, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
