// Package reconcile decides where the "new since last visit" separator goes.
//
// A feed context (the primary dashboard, or a tag-filtered feed) keeps a
// Cursor: the goal post, which is the id of the newest item the reader had
// caught up to, plus the set of id ranges witnessed since then that have not
// yet been connected to the goal post. Item ids strictly decrease with
// recency, so a rendered page is always a descending run of ids.
//
// # States
//
// A cursor moves through three conceptual states:
//
//	Unvisited (GoalPost == 0)
//	    -> Tracking (GoalPost set, witnessed ranges above it)
//	    -> Reached  (the leading witnessed range swallows the goal post)
//	    -> Tracking with a newer goal post
//
// There is no terminal state. On every "reached" transition the upper bound
// of the leading range becomes the new goal post and the range itself is
// dropped, because everything below the goal post is implicitly witnessed.
//
// # Reconcile
//
// Reconcile consumes a Cursor and a Pass (the observed ids plus page position
// flags) and returns an Outcome:
//
//   - Resolve: place the separator above Outcome.ID now.
//   - Defer: the goal post was not reached; wait for more items if the
//     surface loads them incrementally.
//   - Abort: nothing to do (empty page, or browsing history below the goal post).
//
// Context specific behaviour is injected through the Hinter interface, and
// persistence through a PersistFunc that runs only after every check passed.
// Any contradiction in the algebra is reported as ErrInvariant and leaves the
// caller's cursor untouched.
//
// # Usage
//
//	outcome, err := reconcile.Reconcile(cursor, reconcile.Pass{
//	    Observed:  ids,
//	    Initial:   true,
//	    FirstPage: feed.IsFirstPage(),
//	}, feed, save)
package reconcile
