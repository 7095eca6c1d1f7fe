package reconcile

import (
	"errors"
	"fmt"

	"feedmark/core/interval"
)

// ErrInvariant marks a fatal internal contradiction: non-monotonic ids, a
// degenerate range, or a reconciliation state that cannot be reached by
// construction. Callers must not retry.
var ErrInvariant = errors.New("invariant violation")

// Cursor is the persisted read position of one feed context.
type Cursor struct {
	// GoalPost is the id of the last item the reader caught up to.
	// Zero means the context was never visited.
	GoalPost int64 `json:"goal_post"`

	// Witnessed holds ranges observed since the goal post was set that are
	// not yet connected to it.
	Witnessed interval.Set `json:"witnessed"`

	// Hints maps a pagination timestamp to the witnessed item id adjacent to
	// the page starting at that timestamp. Only tag-filtered feeds use it.
	Hints map[int64]int64 `json:"hints,omitempty"`
}

// Visited reports whether a goal post has been established.
func (c *Cursor) Visited() bool {
	return c.GoalPost != 0
}

// Clone returns a deep copy of the cursor.
func (c *Cursor) Clone() *Cursor {
	out := &Cursor{
		GoalPost:  c.GoalPost,
		Witnessed: c.Witnessed.Clone(),
	}
	if c.Hints != nil {
		out.Hints = make(map[int64]int64, len(c.Hints))
		for ts, id := range c.Hints {
			out.Hints[ts] = id
		}
	}
	return out
}

// Validate checks the cursor invariants: a non-negative goal post, no
// witnessed state before the first visit, a valid interval set that does not
// contain the goal post, and hint values that point into witnessed ranges.
func (c *Cursor) Validate() error {
	if c.GoalPost < 0 {
		return fmt.Errorf("goal post %d is negative", c.GoalPost)
	}
	if !c.Visited() && (len(c.Witnessed) > 0 || len(c.Hints) > 0) {
		return errors.New("unvisited cursor carries witnessed state")
	}
	if !interval.IsValid(c.Witnessed) {
		return fmt.Errorf("witnessed intervals %v are not a valid set", c.Witnessed)
	}
	if c.Visited() && c.Witnessed.Find(c.GoalPost) != interval.NotFound {
		return fmt.Errorf("goal post %d lies inside witnessed intervals %v", c.GoalPost, c.Witnessed)
	}
	for ts, id := range c.Hints {
		if ts <= 0 {
			return fmt.Errorf("hint timestamp %d is not positive", ts)
		}
		if c.Witnessed.Find(id) == interval.NotFound {
			return fmt.Errorf("hint %d -> %d points outside witnessed intervals", ts, id)
		}
	}
	return nil
}

// Action is the decision produced by a reconciliation pass.
type Action int

const (
	// Abort means there is nothing to do for this page.
	Abort Action = iota
	// Defer means the goal post is not reached yet; keep watching for more items.
	Defer
	// Resolve means the separator belongs above Outcome.ID.
	Resolve
)

func (a Action) String() string {
	switch a {
	case Abort:
		return "abort"
	case Defer:
		return "defer"
	case Resolve:
		return "resolve"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Outcome is the result of Reconcile.
type Outcome struct {
	Action Action `json:"action"`
	// ID is the item the separator is placed above. Set only for Resolve.
	ID int64 `json:"id,omitempty"`
}

// Pass describes one reconciliation pass over a rendered batch.
type Pass struct {
	// Observed lists the rendered item ids, newest first.
	Observed []int64

	// Initial is true for the pass run when the context is activated and
	// false for passes triggered by incremental loads.
	Initial bool

	// FirstPage is true when the page shows the most recent slice of the feed.
	FirstPage bool
}
