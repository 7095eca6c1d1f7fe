package reconcile

import (
	"fmt"

	"feedmark/core/interval"
)

// Reconcile merges an observed batch into the cursor and decides whether the
// separator can be placed now, must wait for more items, or is not wanted.
//
// The work happens on a copy. The caller's cursor is replaced and persist is
// called only after every check passed, so a failed pass leaves both the
// in-memory and the stored cursor as they were.
func Reconcile(c *Cursor, pass Pass, hints Hinter, persist PersistFunc) (Outcome, error) {
	observed := pass.Observed
	if len(observed) == 0 {
		return Outcome{Action: Abort}, nil
	}
	if err := CheckOrder(observed); err != nil {
		return Outcome{}, err
	}
	if hints == nil {
		hints = NoHints{}
	}

	newest := observed[0]
	oldest := observed[len(observed)-1]
	next := c.Clone()

	// First visit ever: everything on screen is the starting point.
	if pass.Initial && !next.Visited() {
		next.GoalPost = newest
		if err := commit(c, next, persist); err != nil {
			return Outcome{}, err
		}
		return Outcome{Action: Resolve, ID: newest}, nil
	}

	if next.GoalPost <= 0 {
		return Outcome{}, fmt.Errorf("%w: goal post %d on a non-initial pass", ErrInvariant, next.GoalPost)
	}

	if pass.Initial && newest < next.GoalPost {
		if !pass.FirstPage {
			// Browsing history below the goal post.
			return Outcome{Action: Abort}, nil
		}
		// The newest item of the feed is older than the goal post, so the
		// goal post item was deleted. Start over from here.
		next.GoalPost = newest
		next.Witnessed = nil
		hints.UpdateHints(next, observed)
		if err := commit(c, next, persist); err != nil {
			return Outcome{}, err
		}
		return Outcome{Action: Resolve, ID: newest}, nil
	}

	span := interval.Interval{Low: oldest, High: newest}
	if pass.Initial {
		span = hints.AugmentHints(next, span)
	}
	if span.High <= span.Low {
		return Outcome{}, fmt.Errorf("%w: degenerate span %v", ErrInvariant, span)
	}

	changed := next.Witnessed.Insert(span)
	idx := next.Witnessed.Find(next.GoalPost)

	if idx == interval.NotFound {
		if changed {
			hints.UpdateHints(next, observed)
			if err := commit(c, next, persist); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{Action: Defer}, nil
	}

	if idx != 0 {
		return Outcome{}, fmt.Errorf("%w: goal post %d reached by interval %d, not the first", ErrInvariant, next.GoalPost, idx)
	}
	if !changed {
		return Outcome{}, fmt.Errorf("%w: goal post %d reached without a state change", ErrInvariant, next.GoalPost)
	}

	resolved := closestAtOrBelow(observed, next.GoalPost)

	next.GoalPost = next.Witnessed[0].High
	next.Witnessed = next.Witnessed[1:].Clone()
	hints.UpdateHints(next, observed)
	if err := commit(c, next, persist); err != nil {
		return Outcome{}, err
	}
	return Outcome{Action: Resolve, ID: resolved}, nil
}

// CheckOrder verifies that ids are positive and strictly decreasing.
func CheckOrder(ids []int64) error {
	for i, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: item id %d at position %d is not positive", ErrInvariant, id, i)
		}
		if i > 0 && ids[i-1] <= id {
			return fmt.Errorf("%w: item id %d at position %d does not decrease from %d", ErrInvariant, id, i, ids[i-1])
		}
	}
	return nil
}

// closestAtOrBelow scans from the oldest id towards the newest and returns the
// last id not exceeding limit, which is the observed item nearest to where the
// reader previously stopped. When every observed id is newer than limit the
// oldest id is returned.
func closestAtOrBelow(observed []int64, limit int64) int64 {
	best := observed[len(observed)-1]
	for i := len(observed) - 1; i >= 0; i-- {
		if observed[i] > limit {
			break
		}
		best = observed[i]
	}
	return best
}

// commit validates next, persists it and publishes it into c.
func commit(c, next *Cursor, persist PersistFunc) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	if persist != nil {
		if err := persist(next); err != nil {
			return fmt.Errorf("failed to persist cursor: %w", err)
		}
	}
	*c = *next
	return nil
}
