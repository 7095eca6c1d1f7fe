package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"feedmark/core/interval"
	"feedmark/core/reconcile"
)

// Encode renders a cursor in its persisted array form:
//
//	plain:  [goalPost, witnessedIntervals]
//	hinted: [goalPost, witnessedIntervals, [[timestamp, itemId], ...]]
//
// An unvisited cursor stores a null goal post. The cursor is validated first.
func Encode(c *reconcile.Cursor, hinted bool) (json.RawMessage, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var goal any
	if c.Visited() {
		goal = c.GoalPost
	}
	witnessed := c.Witnessed
	if witnessed == nil {
		witnessed = interval.Set{}
	}

	doc := []any{goal, witnessed}
	if hinted {
		doc = append(doc, hintEntries(c.Hints))
	} else if len(c.Hints) > 0 {
		return nil, fmt.Errorf("%w: hints on a context that does not persist them", ErrInvalidCursor)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cursor: %w", err)
	}
	return data, nil
}

func hintEntries(hints map[int64]int64) [][2]int64 {
	entries := make([][2]int64, 0, len(hints))
	for ts, id := range hints {
		entries = append(entries, [2]int64{ts, id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i][0] < entries[j][0] })
	return entries
}

// Decode parses a persisted cursor and validates it. An absent value
// (nil or JSON null) decodes to an unvisited cursor.
func Decode(raw json.RawMessage, hinted bool) (*reconcile.Cursor, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return &reconcile.Cursor{}, nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	want := 2
	if hinted {
		want = 3
	}
	if len(parts) != want {
		return nil, fmt.Errorf("%w: expected %d elements, got %d", ErrInvalidCursor, want, len(parts))
	}

	c := &reconcile.Cursor{}
	if !bytes.Equal(bytes.TrimSpace(parts[0]), []byte("null")) {
		var goal int64
		if err := json.Unmarshal(parts[0], &goal); err != nil {
			return nil, fmt.Errorf("%w: goal post: %v", ErrInvalidCursor, err)
		}
		if goal <= 0 {
			return nil, fmt.Errorf("%w: goal post %d is not positive", ErrInvalidCursor, goal)
		}
		c.GoalPost = goal
	}

	if err := json.Unmarshal(parts[1], &c.Witnessed); err != nil {
		return nil, fmt.Errorf("%w: witnessed intervals: %v", ErrInvalidCursor, err)
	}
	if len(c.Witnessed) == 0 {
		c.Witnessed = nil
	}

	if hinted {
		var entries [][]int64
		if err := json.Unmarshal(parts[2], &entries); err != nil {
			return nil, fmt.Errorf("%w: hints: %v", ErrInvalidCursor, err)
		}
		for _, entry := range entries {
			if len(entry) != 2 {
				return nil, fmt.Errorf("%w: hint entry has %d elements", ErrInvalidCursor, len(entry))
			}
			if c.Hints == nil {
				c.Hints = make(map[int64]int64, len(entries))
			}
			c.Hints[entry[0]] = entry[1]
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return c, nil
}
