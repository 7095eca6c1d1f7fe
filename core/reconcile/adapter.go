package reconcile

import "feedmark/core/interval"

// Hinter supplies context specific adjacency hints.
// Each feed context variant implements it; see feature/feeds.
type Hinter interface {
	// AugmentHints may widen the observed span using out-of-band knowledge of
	// which item sits directly above this page. It is called on the initial
	// pass only.
	AugmentHints(c *Cursor, span interval.Interval) interval.Interval

	// UpdateHints refreshes any hint state after the witnessed ranges changed.
	// Implementations must leave no hints behind when Witnessed is empty.
	UpdateHints(c *Cursor, observed []int64)
}

// PersistFunc stores a cursor that passed every check.
type PersistFunc func(c *Cursor) error

// NoHints is a Hinter for contexts without adjacency information.
type NoHints struct{}

// AugmentHints returns span unchanged.
func (NoHints) AugmentHints(_ *Cursor, span interval.Interval) interval.Interval { return span }

// UpdateHints drops any hint state.
func (NoHints) UpdateHints(c *Cursor, _ []int64) { c.Hints = nil }
