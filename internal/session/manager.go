// Package session exposes the order wizard over HTTP. Each browser session
// gets its own workflow controller; sessions live in memory only and are
// evicted after sitting idle.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/part-order-service/internal/catalog"
	"github.com/joao-fontenele/part-order-service/internal/domain"
	"github.com/joao-fontenele/part-order-service/internal/messaging"
	"github.com/joao-fontenele/part-order-service/internal/transport"
	"github.com/joao-fontenele/part-order-service/internal/workflow"
)

const defaultIdleTTL = 30 * time.Minute

// TransportFactory builds the transport for one session. An empty endpoint
// means no webhook is configured and the simulated variant is used.
type TransportFactory func(endpoint string) transport.OrderTransport

type Session struct {
	ID         string
	Controller *workflow.Controller

	notifier *bufferedNotifier

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Notifications drains and returns the session's buffered user-visible
// messages.
func (s *Session) Notifications() []workflow.Notification {
	return s.notifier.Drain()
}

type Manager struct {
	factory   TransportFactory
	catalog   catalog.Provider
	publisher *messaging.EventPublisher
	logger    *slog.Logger

	facility    string
	policy      workflow.CancelPolicy
	callTimeout time.Duration
	idleTTL     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type ManagerOption func(*Manager)

func WithFacility(facility string) ManagerOption {
	return func(m *Manager) {
		m.facility = facility
	}
}

func WithCancelPolicy(p workflow.CancelPolicy) ManagerOption {
	return func(m *Manager) {
		m.policy = p
	}
}

func WithCallTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.callTimeout = d
	}
}

func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTTL = d
	}
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithPublisher enables the Kafka lifecycle-event side-channel.
func WithPublisher(p *messaging.EventPublisher) ManagerOption {
	return func(m *Manager) {
		m.publisher = p
	}
}

func NewManager(factory TransportFactory, provider catalog.Provider, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		factory:     factory,
		catalog:     provider,
		logger:      logger,
		policy:      workflow.CancelPreserveDraft,
		callTimeout: 0,
		idleTTL:     defaultIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create starts a new wizard session. A non-empty webhookURL routes order
// traffic to that endpoint; otherwise the simulated transport is used.
func (m *Manager) Create(webhookURL string) *Session {
	notifier := &bufferedNotifier{}

	controllerOpts := []workflow.Option{
		workflow.WithCancelPolicy(m.policy),
		workflow.WithFacility(m.facility),
		workflow.WithPartLookup(m.catalog.FindPart),
	}
	if m.callTimeout > 0 {
		controllerOpts = append(controllerOpts, workflow.WithCallTimeout(m.callTimeout))
	}

	session := &Session{
		ID:       uuid.New().String(),
		notifier: notifier,
		lastSeen: m.now(),
	}
	session.Controller = workflow.NewController(
		m.factory(webhookURL),
		notifier,
		m.logger.With("session_id", session.ID),
		controllerOpts...,
	)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", session.ID, "simulated", webhookURL == "")
	return session
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	m.mu.Unlock()

	if ok {
		session.touch(m.now())
	}
	return session, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many were
// removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, session := range m.sessions {
		if session.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		m.logger.Info("idle sessions evicted", "count", evicted)
	}
	return evicted
}

// RunSweeper sweeps periodically until the context is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// PublishSubmitted emits the order.submitted lifecycle event. Fire and
// forget: failures are logged, never returned.
func (m *Manager) PublishSubmitted(ctx context.Context, session *Session) {
	if m.publisher == nil {
		return
	}

	draft := session.Controller.Draft()
	event := domain.OrderSubmittedEvent{
		SessionID: session.ID,
		PartID:    draft.PartID,
		Quantity:  draft.Quantity,
		Expedite:  draft.Expedite,
		Timestamp: m.now().UTC(),
	}
	if err := m.publisher.OrderSubmitted(ctx, event); err != nil {
		m.logger.Error("failed to publish order submitted event", "error", err, "session_id", session.ID)
	}
}

// PublishConfirmed emits the order.confirmed lifecycle event.
func (m *Manager) PublishConfirmed(ctx context.Context, session *Session) {
	if m.publisher == nil {
		return
	}

	confirmation := session.Controller.Confirmation()
	if confirmation == nil {
		return
	}

	event := domain.OrderConfirmedEvent{
		SessionID:  session.ID,
		QuoteID:    confirmation.QuoteID,
		PartName:   confirmation.PartName,
		Facility:   confirmation.Facility,
		Quantity:   confirmation.OrderQuantity,
		TotalPrice: confirmation.TotalPrice,
		Timestamp:  m.now().UTC(),
	}
	if err := m.publisher.OrderConfirmed(ctx, event); err != nil {
		m.logger.Error("failed to publish order confirmed event", "error", err, "session_id", session.ID)
	}
}

// bufferedNotifier collects notifications until the next session read
// drains them, standing in for the browser's toast stack.
type bufferedNotifier struct {
	mu      sync.Mutex
	pending []workflow.Notification
}

func (n *bufferedNotifier) Notify(notification workflow.Notification) {
	n.mu.Lock()
	n.pending = append(n.pending, notification)
	n.mu.Unlock()
}

func (n *bufferedNotifier) Drain() []workflow.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	pending := n.pending
	n.pending = nil
	return pending
}
