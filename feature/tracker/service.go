package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"feedmark/core/events"
	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
	"feedmark/feature/feeds"
	"feedmark/feature/marker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or already destroyed sessions.
var ErrSessionNotFound = errors.New("session not found")

// Options configures the tracker service.
type Options struct {
	// Selectors describe the rendered page layout.
	Selectors page.Selectors
	// Preferences are handed to every new session.
	Preferences marker.Preferences
	// SessionLimit caps live sessions; the oldest is destroyed first.
	SessionLimit int
}

// Service manages activations and cursor administration.
type Service struct {
	repo     *state.Repository
	bus      *events.Bus
	resolver feeds.Resolver
	opts     Options
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
}

// NewService creates a new tracker service. resolver may be nil.
func NewService(repo *state.Repository, bus *events.Bus, resolver feeds.Resolver, opts Options, logger *zap.Logger) *Service {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Service{
		repo:     repo,
		bus:      bus,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Activate starts a session for the page rendered at rawURL.
func (s *Service) Activate(ctx context.Context, rawURL string, body io.Reader) (*Session, error) {
	p, err := page.Parse(rawURL, body, s.opts.Selectors)
	if err != nil {
		return nil, err
	}
	fc, err := feeds.Detect(ctx, p, s.resolver)
	if err != nil {
		return nil, err
	}

	sess := NewSession(uuid.NewString(), p, fc, s.repo, s.bus, s.opts.Preferences, s.logger)
	if err := sess.Run(ctx); err != nil {
		sess.Destroy()
		return nil, err
	}
	s.track(sess)
	return sess, nil
}

// Load delivers an incremental render to a session.
func (s *Service) Load(ctx context.Context, id string, body io.Reader) (*Session, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Deliver(ctx, body); err != nil {
		return nil, err
	}
	return sess, nil
}

// Deactivate tears a session down.
func (s *Service) Deactivate(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		s.forget(id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Destroy()
	return nil
}

// Session returns a live session.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close destroys every live session.
func (s *Service) Close() {
	s.mu.Lock()
	live := make([]*Session, 0, len(s.order))
	for _, id := range s.order {
		live = append(live, s.sessions[id])
	}
	s.sessions = make(map[string]*Session)
	s.order = nil
	s.mu.Unlock()

	for _, sess := range live {
		sess.Destroy()
	}
}

// Cursor loads the stored cursor of a context.
func (s *Service) Cursor(ctx context.Context, kind feeds.Kind, key string) (state.View, error) {
	ns, err := feeds.NamespaceFor(kind)
	if err != nil {
		return state.View{}, err
	}
	c, err := s.repo.Load(ctx, ns, key)
	if err != nil {
		return state.View{}, err
	}
	return state.NewView(ns, key, c), nil
}

// ResetCursor forgets the stored cursor of a context.
func (s *Service) ResetCursor(ctx context.Context, kind feeds.Kind, key string) error {
	ns, err := feeds.NamespaceFor(kind)
	if err != nil {
		return err
	}
	if err := s.repo.Reset(ctx, ns, key); err != nil {
		return err
	}
	s.logger.Info("Cursor reset", zap.String("context", string(kind)), zap.String("key", key))
	return nil
}

// Keys lists the stored cursor keys of a context kind.
func (s *Service) Keys(ctx context.Context, kind feeds.Kind) ([]string, error) {
	ns, err := feeds.NamespaceFor(kind)
	if err != nil {
		return nil, err
	}
	return s.repo.Keys(ctx, ns)
}

func (s *Service) track(sess *Session) {
	limit := s.opts.SessionLimit
	var evicted []*Session

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	for limit > 0 && len(s.order) > limit {
		oldest := s.order[0]
		evicted = append(evicted, s.sessions[oldest])
		s.forget(oldest)
	}
	s.mu.Unlock()

	for _, old := range evicted {
		s.logger.Debug("Session evicted", zap.String("session", old.ID))
		old.Destroy()
	}
}

// forget drops id from the table. Callers hold s.mu.
func (s *Service) forget(id string) {
	delete(s.sessions, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// IsInvariant reports whether err is a fatal state or ordering fault.
func IsInvariant(err error) bool {
	return errors.Is(err, reconcile.ErrInvariant)
}
