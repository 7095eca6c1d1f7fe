// Package interval implements an ordered set of disjoint closed integer ranges.
//
// It is the bookkeeping structure behind read-position tracking: instead of
// remembering every item id that was rendered, the tracker remembers the
// contiguous spans of the feed that were witnessed. Memory therefore grows with
// the number of page visits rather than with the number of items, and an item
// deleted from the middle of a witnessed span does not break the span.
//
// # Invariants
//
// A valid Set is strictly increasing and pairwise disjoint with a gap:
//
//	for consecutive [a,b] and [c,d]:  a < b  and  b < c
//
// Every endpoint is a positive integer. Insert preserves the invariant.
//
// # Operations
//
//   - IsValid: checks ordering, gap and positivity.
//   - Insert: merges a range with every interval it overlaps or touches and
//     reports whether the set changed.
//   - Find: returns the index of the interval containing a value, or NotFound.
//
// # Usage
//
//	var s interval.Set
//	s.Insert(interval.Interval{Low: 103, High: 105})
//	s.Insert(interval.Interval{Low: 99, High: 103}) // merges into [99,105]
//	idx := s.Find(100)                              // 0
package interval
