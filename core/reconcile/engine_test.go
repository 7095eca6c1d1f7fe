package reconcile

import (
	"errors"
	"testing"

	"feedmark/core/interval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures persisted cursors.
type recorder struct {
	saved []*Cursor
	err   error
}

func (r *recorder) persist(c *Cursor) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, c.Clone())
	return nil
}

// mockHinter widens spans to a fixed high bound and records hint refreshes.
type mockHinter struct {
	widenTo int64
	updates int
}

func (m *mockHinter) AugmentHints(_ *Cursor, span interval.Interval) interval.Interval {
	if m.widenTo > span.High {
		span.High = m.widenTo
	}
	return span
}

func (m *mockHinter) UpdateHints(c *Cursor, _ []int64) {
	m.updates++
	if len(c.Witnessed) == 0 {
		c.Hints = nil
	}
}

func ids(from, to int64) []int64 {
	var out []int64
	for id := from; id >= to; id-- {
		out = append(out, id)
	}
	return out
}

func TestReconcile_EmptyBatch(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100}

	out, err := Reconcile(c, Pass{Initial: true, FirstPage: true}, nil, rec.persist)
	assert.NoError(t, err)
	assert.Equal(t, Abort, out.Action)
	assert.Empty(t, rec.saved)
}

func TestReconcile_FirstVisit(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{}

	out, err := Reconcile(c, Pass{Observed: []int64{50, 49, 48}, Initial: true, FirstPage: true}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: Resolve, ID: 50}, out)
	assert.Equal(t, int64(50), c.GoalPost)
	assert.Empty(t, c.Witnessed)
	require.Len(t, rec.saved, 1)
	assert.Equal(t, int64(50), rec.saved[0].GoalPost)
}

func TestReconcile_DeferredConvergence(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100}

	out, err := Reconcile(c, Pass{Observed: []int64{105, 104, 103}, Initial: true, FirstPage: true}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Defer, out.Action)
	assert.Equal(t, interval.Set{{Low: 103, High: 105}}, c.Witnessed)
	assert.Equal(t, int64(100), c.GoalPost)
	assert.Len(t, rec.saved, 1)

	out, err = Reconcile(c, Pass{Observed: []int64{103, 102, 101, 100, 99}, FirstPage: true}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Resolve, out.Action)
	assert.Equal(t, int64(100), out.ID)
	assert.GreaterOrEqual(t, out.ID, int64(100))
	assert.Equal(t, int64(105), c.GoalPost)
	assert.Empty(t, c.Witnessed)
	assert.Len(t, rec.saved, 2)
}

func TestReconcile_DeletedGoalPost(t *testing.T) {
	rec := &recorder{}
	hinter := &mockHinter{}
	c := &Cursor{
		GoalPost:  120,
		Witnessed: interval.Set{{Low: 130, High: 140}},
		Hints:     map[int64]int64{1700000000: 135},
	}

	out, err := Reconcile(c, Pass{Observed: ids(110, 101), Initial: true, FirstPage: true}, hinter, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: Resolve, ID: 110}, out)
	assert.Equal(t, int64(110), c.GoalPost)
	assert.Empty(t, c.Witnessed)
	assert.Empty(t, c.Hints)
	assert.Len(t, rec.saved, 1)

	// A first page whose newest item is not older than the goal post waits for more items.
	c = &Cursor{GoalPost: 100}
	out, err = Reconcile(c, Pass{Observed: ids(110, 101), Initial: true, FirstPage: true}, hinter, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Defer, out.Action)
	assert.Equal(t, int64(100), c.GoalPost)
	assert.Equal(t, interval.Set{{Low: 101, High: 110}}, c.Witnessed)
}

func TestReconcile_HistoryBrowsing(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 110, High: 120}}}
	before := c.Clone()

	out, err := Reconcile(c, Pass{Observed: ids(90, 80), Initial: true, FirstPage: false}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Abort, out.Action)
	assert.Equal(t, before, c)
	assert.Empty(t, rec.saved)
}

func TestReconcile_ReachedInSinglePass(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100}

	out, err := Reconcile(c, Pass{Observed: []int64{108, 104, 101, 97, 95}, Initial: true, FirstPage: true}, nil, rec.persist)
	require.NoError(t, err)
	// 100 itself was deleted; the separator lands above the nearest older item.
	assert.Equal(t, Outcome{Action: Resolve, ID: 97}, out)
	assert.Equal(t, int64(108), c.GoalPost)
	assert.Empty(t, c.Witnessed)
}

func TestReconcile_AbsorbsOnlyLeadingInterval(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 150, High: 160}}}

	out, err := Reconcile(c, Pass{Observed: ids(110, 98), Initial: true, FirstPage: false}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: Resolve, ID: 100}, out)
	assert.Equal(t, int64(110), c.GoalPost)
	assert.Equal(t, interval.Set{{Low: 150, High: 160}}, c.Witnessed)
}

func TestReconcile_HintWideningBridgesPages(t *testing.T) {
	rec := &recorder{}
	hinter := &mockHinter{widenTo: 120}
	c := &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 120, High: 140}}}

	// Page two starts right below item 120, which page one showed.
	out, err := Reconcile(c, Pass{Observed: ids(119, 99), Initial: true, FirstPage: false}, hinter, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: Resolve, ID: 100}, out)
	assert.Equal(t, int64(140), c.GoalPost)
	assert.Empty(t, c.Witnessed)
	assert.Equal(t, 1, hinter.updates)
}

func TestReconcile_HintsOnlyOnInitialPass(t *testing.T) {
	rec := &recorder{}
	hinter := &mockHinter{widenTo: 120}
	c := &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 120, High: 140}}}

	out, err := Reconcile(c, Pass{Observed: ids(119, 110)}, hinter, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Defer, out.Action)
	assert.Equal(t, interval.Set{{Low: 110, High: 119}, {Low: 120, High: 140}}, c.Witnessed)
}

func TestReconcile_ResolvedFallsBackToOldest(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100}
	hinter := &augmentLow{low: 90}

	out, err := Reconcile(c, Pass{Observed: []int64{110, 105}, Initial: true, FirstPage: true}, hinter, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Action: Resolve, ID: 105}, out)
	assert.Equal(t, int64(110), c.GoalPost)
}

// augmentLow widens the low end of the span.
type augmentLow struct{ low int64 }

func (a *augmentLow) AugmentHints(_ *Cursor, span interval.Interval) interval.Interval {
	span.Low = a.low
	return span
}

func (a *augmentLow) UpdateHints(c *Cursor, _ []int64) {}

func TestReconcile_DeferWithoutChangeSkipsPersist(t *testing.T) {
	rec := &recorder{}
	c := &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 103, High: 110}}}

	out, err := Reconcile(c, Pass{Observed: ids(108, 104), Initial: true, FirstPage: true}, nil, rec.persist)
	require.NoError(t, err)
	assert.Equal(t, Defer, out.Action)
	assert.Empty(t, rec.saved)
}

func TestReconcile_InvariantViolations(t *testing.T) {
	tests := []struct {
		name   string
		cursor *Cursor
		pass   Pass
	}{
		{
			name:   "Not decreasing",
			cursor: &Cursor{GoalPost: 100},
			pass:   Pass{Observed: []int64{105, 106, 103}, Initial: true, FirstPage: true},
		},
		{
			name:   "Duplicate id",
			cursor: &Cursor{GoalPost: 100},
			pass:   Pass{Observed: []int64{105, 105}, Initial: true, FirstPage: true},
		},
		{
			name:   "Non-positive id",
			cursor: &Cursor{},
			pass:   Pass{Observed: []int64{3, 0}, Initial: true, FirstPage: true},
		},
		{
			name:   "Degenerate span",
			cursor: &Cursor{GoalPost: 100},
			pass:   Pass{Observed: []int64{105}, Initial: true, FirstPage: true},
		},
		{
			name:   "Unvisited on incremental pass",
			cursor: &Cursor{},
			pass:   Pass{Observed: []int64{105, 104}},
		},
		{
			name:   "Goal post reached by a later interval",
			cursor: &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 50, High: 60}, {Low: 103, High: 105}}},
			pass:   Pass{Observed: ids(102, 95)},
		},
		{
			name:   "Goal post already inside witnessed state",
			cursor: &Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 95, High: 110}}},
			pass:   Pass{Observed: ids(105, 98)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			before := tt.cursor.Clone()

			_, err := Reconcile(tt.cursor, tt.pass, nil, rec.persist)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvariant))
			assert.Equal(t, before, tt.cursor)
			assert.Empty(t, rec.saved)
		})
	}
}

func TestReconcile_PersistFailureKeepsCursor(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	c := &Cursor{GoalPost: 100}

	_, err := Reconcile(c, Pass{Observed: ids(110, 105), Initial: true, FirstPage: true}, nil, rec.persist)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, &Cursor{GoalPost: 100}, c)
}

func TestCursor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cursor  Cursor
		wantErr bool
	}{
		{"Unvisited", Cursor{}, false},
		{"Visited", Cursor{GoalPost: 50}, false},
		{"Tracking", Cursor{GoalPost: 50, Witnessed: interval.Set{{Low: 60, High: 70}}}, false},
		{"Hinted", Cursor{GoalPost: 50, Witnessed: interval.Set{{Low: 60, High: 70}}, Hints: map[int64]int64{1700: 60}}, false},
		{"Negative goal", Cursor{GoalPost: -1}, true},
		{"Unvisited with ranges", Cursor{Witnessed: interval.Set{{Low: 60, High: 70}}}, true},
		{"Invalid set", Cursor{GoalPost: 50, Witnessed: interval.Set{{Low: 70, High: 60}}}, true},
		{"Goal post inside range", Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 90, High: 110}}}, true},
		{"Goal post on range edge", Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 100, High: 110}}}, true},
		{"Range below goal post", Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 60, High: 70}}}, false},
		{"Dangling hint", Cursor{GoalPost: 50, Witnessed: interval.Set{{Low: 60, High: 70}}, Hints: map[int64]int64{1700: 80}}, true},
		{"Bad hint timestamp", Cursor{GoalPost: 50, Witnessed: interval.Set{{Low: 60, High: 70}}, Hints: map[int64]int64{0: 60}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cursor.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
