package interval

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NotFound is returned by Find when no interval contains the value.
const NotFound = -1

// Interval is a closed range [Low, High] of item ids.
type Interval struct {
	Low  int64
	High int64
}

// Valid reports whether the interval is non-degenerate with positive endpoints.
func (i Interval) Valid() bool {
	return i.Low > 0 && i.Low < i.High
}

// Contains reports whether v lies within the closed range.
func (i Interval) Contains(v int64) bool {
	return i.Low <= v && v <= i.High
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d,%d]", i.Low, i.High)
}

// MarshalJSON encodes the interval as a two element array.
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{i.Low, i.High})
}

// UnmarshalJSON decodes a two element array.
func (i *Interval) UnmarshalJSON(data []byte) error {
	var pair []json.Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("interval: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("interval: expected 2 endpoints, got %d", len(pair))
	}
	low, err := pair[0].Int64()
	if err != nil {
		return fmt.Errorf("interval: low endpoint %q is not an integer", pair[0])
	}
	high, err := pair[1].Int64()
	if err != nil {
		return fmt.Errorf("interval: high endpoint %q is not an integer", pair[1])
	}
	i.Low, i.High = low, high
	return nil
}

// Set is an ordered sequence of disjoint intervals.
type Set []Interval

// IsValid checks that every interval is well formed and that consecutive
// intervals are strictly increasing with a gap between them.
func IsValid(s Set) bool {
	for idx, iv := range s {
		if !iv.Valid() {
			return false
		}
		if idx > 0 && s[idx-1].High >= iv.Low {
			return false
		}
	}
	return true
}

// Insert merges iv into the set. Every existing interval that overlaps or
// touches iv is replaced by one interval spanning the union. It returns false
// only when iv fell inside exactly one existing interval and left both of its
// endpoints untouched.
func (s *Set) Insert(iv Interval) bool {
	cur := *s

	// First interval whose high end reaches iv.
	start := sort.Search(len(cur), func(i int) bool { return cur[i].High >= iv.Low })
	// First interval past iv.
	end := start + sort.Search(len(cur)-start, func(i int) bool { return cur[start+i].Low > iv.High })

	if start == end {
		next := make(Set, 0, len(cur)+1)
		next = append(next, cur[:start]...)
		next = append(next, iv)
		next = append(next, cur[start:]...)
		*s = next
		return true
	}

	merged := Interval{Low: min(iv.Low, cur[start].Low), High: max(iv.High, cur[end-1].High)}
	if end-start == 1 && merged == cur[start] {
		return false
	}

	next := make(Set, 0, len(cur)-(end-start)+1)
	next = append(next, cur[:start]...)
	next = append(next, merged)
	next = append(next, cur[end:]...)
	*s = next
	return true
}

// Find returns the index of the interval containing v, or NotFound.
func (s Set) Find(v int64) int {
	idx := sort.Search(len(s), func(i int) bool { return s[i].High >= v })
	if idx < len(s) && s[idx].Low <= v {
		return idx
	}
	return NotFound
}

// Clone returns an independent copy of the set. An empty set clones to nil.
func (s Set) Clone() Set {
	if len(s) == 0 {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}
