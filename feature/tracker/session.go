package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"feedmark/core/events"
	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
	"feedmark/feature/feeds"
	"feedmark/feature/marker"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when Run is called twice on one session.
var ErrAlreadyRunning = errors.New("session already ran")

// Report describes the state of an activation after its latest pass.
type Report struct {
	SessionID string           `json:"session_id"`
	Kind      feeds.Kind       `json:"kind"`
	Key       string           `json:"key"`
	Action    reconcile.Action `json:"action"`
	MarkerID  int64            `json:"marker_id,omitempty"`
	GoalPost  int64            `json:"goal_post,omitempty"`
	Waiting   bool             `json:"waiting"`
	JumpURL   string           `json:"jump_url,omitempty"`
	HTML      string           `json:"html,omitempty"`
}

// Session is one activation of a feed context. It owns the rendered page, the
// in-memory cursor and, while waiting for more items, a subscription on the
// event bus under its own id.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	page    *page.Page
	fc      feeds.Context
	repo    *state.Repository
	bus     *events.Bus
	prefs   marker.Preferences
	logger  *zap.Logger
	cursor  *reconcile.Cursor
	ran     bool
	waiting bool
	action  reconcile.Action
	placed  int64
	jumpURL string
}

// NewSession prepares an activation. Nothing is loaded until Run.
func NewSession(id string, p *page.Page, fc feeds.Context, repo *state.Repository, bus *events.Bus, prefs marker.Preferences, logger *zap.Logger) *Session {
	return &Session{
		ID:      id,
		Created: time.Now(),
		page:    p,
		fc:      fc,
		repo:    repo,
		bus:     bus,
		prefs:   prefs,
		logger: logger.With(
			zap.String("session", id),
			zap.String("context", string(fc.Kind())),
			zap.String("key", fc.Key()),
		),
	}
}

// Run performs the initial pass: load the cursor, reconcile the rendered items
// and either place the separator, subscribe for incremental loads, or do
// nothing.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ran {
		return ErrAlreadyRunning
	}
	s.ran = true

	cursor, err := s.repo.Load(ctx, s.fc.Namespace(), s.fc.Key())
	if err != nil {
		return err
	}
	s.cursor = cursor

	observed, err := s.page.ItemIDs()
	if err != nil {
		return err
	}

	out, err := reconcile.Reconcile(s.cursor, reconcile.Pass{
		Observed:  observed,
		Initial:   true,
		FirstPage: s.fc.IsFirstPage(),
	}, s.fc, s.persist(ctx))
	if err != nil {
		s.logger.Error("Reconciliation failed", zap.Error(err))
		return err
	}

	if err := s.apply(out); err != nil {
		return err
	}

	if out.Action == reconcile.Defer && s.fc.MayDefer() {
		if err := s.bus.Subscribe(s.ID, s.onLoad); err != nil {
			return fmt.Errorf("failed to subscribe session %s: %w", s.ID, err)
		}
		s.waiting = true
	}

	if out.Action != reconcile.Resolve {
		s.addJumpControl()
	}
	return nil
}

// Deliver replaces the rendered page with a newer render of the same URL. A
// waiting session reconciles the new items. A session that already placed the
// separator re-renders it above the same item; it never moves.
func (s *Session) Deliver(ctx context.Context, body io.Reader) error {
	s.mu.Lock()
	next, err := page.Parse(s.page.URL.String(), body, s.page.Selectors())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	// The feed context keeps a pointer to the page, so swap the document in place.
	s.page.Doc = next.Doc
	waiting := s.waiting
	s.mu.Unlock()

	if waiting {
		return s.bus.Publish(ctx, s.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placed != 0 && !marker.Exists(s.page) {
		return marker.Place(s.page, s.placed, s.prefs)
	}
	return nil
}

// Destroy unsubscribes the session and removes any rendered separator.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waiting {
		s.bus.Unsubscribe(s.ID)
		s.waiting = false
	}
	marker.Remove(s.page)
	s.placed = 0
	s.logger.Debug("Session destroyed")
}

// Report returns the session state and, when withHTML is set, the rendered page.
func (s *Session) Report(withHTML bool) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Report{
		SessionID: s.ID,
		Kind:      s.fc.Kind(),
		Key:       s.fc.Key(),
		Action:    s.action,
		MarkerID:  s.placed,
		Waiting:   s.waiting,
		JumpURL:   s.jumpURL,
	}
	if s.cursor != nil {
		r.GoalPost = s.cursor.GoalPost
	}
	if withHTML {
		html, err := s.page.HTML()
		if err != nil {
			return nil, fmt.Errorf("failed to render page: %w", err)
		}
		r.HTML = html
	}
	return r, nil
}

// onLoad runs an incremental pass. It is called by the bus with s.mu unlocked.
func (s *Session) onLoad(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting {
		return nil
	}

	observed, err := s.page.ItemIDs()
	if err != nil {
		s.stopWaiting()
		return err
	}

	out, err := reconcile.Reconcile(s.cursor, reconcile.Pass{
		Observed:  observed,
		FirstPage: s.fc.IsFirstPage(),
	}, s.fc, s.persist(ctx))
	if err != nil {
		s.logger.Error("Incremental reconciliation failed", zap.Error(err))
		s.stopWaiting()
		return err
	}

	if out.Action == reconcile.Defer {
		s.action = out.Action
		s.logger.Debug("Still waiting for the goal post", zap.Int64("goal_post", s.cursor.GoalPost))
		return nil
	}

	s.stopWaiting()
	return s.apply(out)
}

// apply records the outcome and places the separator on Resolve.
func (s *Session) apply(out reconcile.Outcome) error {
	s.action = out.Action
	s.logger.Info("Reconciled",
		zap.Stringer("action", out.Action),
		zap.Int64("goal_post", s.cursor.GoalPost),
		zap.Int64("marker_id", out.ID),
	)
	if out.Action != reconcile.Resolve {
		return nil
	}
	if err := marker.Place(s.page, out.ID, s.prefs); err != nil {
		s.logger.Error("Separator placement failed", zap.Error(err))
		return err
	}
	s.placed = out.ID
	return nil
}

func (s *Session) stopWaiting() {
	s.bus.Unsubscribe(s.ID)
	s.waiting = false
}

func (s *Session) addJumpControl() {
	href, ok := s.fc.JumpURL(s.cursor)
	if !ok {
		return
	}
	s.jumpURL = href
	if err := marker.AddJumpControl(s.page, href, s.prefs); err != nil {
		s.logger.Debug("Jump control not added", zap.Error(err))
	}
}

func (s *Session) persist(ctx context.Context) reconcile.PersistFunc {
	return func(c *reconcile.Cursor) error {
		return s.repo.Save(ctx, s.fc.Namespace(), s.fc.Key(), c)
	}
}
