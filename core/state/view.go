package state

import (
	"sort"

	"feedmark/core/reconcile"
)

// View is a readable rendering of a cursor for APIs and the CLI.
type View struct {
	Namespace string     `json:"namespace" yaml:"namespace"`
	Key       string     `json:"key" yaml:"key"`
	Visited   bool       `json:"visited" yaml:"visited"`
	GoalPost  *int64     `json:"goal_post" yaml:"goal_post"`
	Witnessed [][2]int64 `json:"witnessed" yaml:"witnessed"`
	Hints     []HintView `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// HintView is one adjacency hint.
type HintView struct {
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	ItemID    int64 `json:"item_id" yaml:"item_id"`
}

// NewView renders c stored under ns/key.
func NewView(ns Namespace, key string, c *reconcile.Cursor) View {
	v := View{
		Namespace: ns.Name,
		Key:       key,
		Visited:   c.Visited(),
		Witnessed: make([][2]int64, 0, len(c.Witnessed)),
	}
	if c.Visited() {
		goal := c.GoalPost
		v.GoalPost = &goal
	}
	for _, iv := range c.Witnessed {
		v.Witnessed = append(v.Witnessed, [2]int64{iv.Low, iv.High})
	}
	for ts, id := range c.Hints {
		v.Hints = append(v.Hints, HintView{Timestamp: ts, ItemID: id})
	}
	sort.Slice(v.Hints, func(i, j int) bool { return v.Hints[i].Timestamp < v.Hints[j].Timestamp })
	return v
}
