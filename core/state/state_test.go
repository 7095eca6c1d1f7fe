package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"feedmark/core/interval"
	"feedmark/core/kv"
	"feedmark/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	plainNS  = Namespace{Name: "dashboard"}
	hintedNS = Namespace{Name: "tagged", Hinted: true}
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		cursor *reconcile.Cursor
		hinted bool
		want   string
	}{
		{"Unvisited plain", &reconcile.Cursor{}, false, `[null,[]]`},
		{"Unvisited hinted", &reconcile.Cursor{}, true, `[null,[],[]]`},
		{"Plain", &reconcile.Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 103, High: 105}}}, false, `[100,[[103,105]]]`},
		{
			"Hinted sorted",
			&reconcile.Cursor{
				GoalPost:  100,
				Witnessed: interval.Set{{Low: 103, High: 105}, {Low: 120, High: 140}},
				Hints:     map[int64]int64{1700000200: 120, 1700000100: 103},
			},
			true,
			`[100,[[103,105],[120,140]],[[1700000100,103],[1700000200,120]]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.cursor, tt.hinted)
			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestEncode_RejectsInvalid(t *testing.T) {
	_, err := Encode(&reconcile.Cursor{GoalPost: 10, Witnessed: interval.Set{{Low: 5, High: 5}}}, false)
	assert.ErrorIs(t, err, ErrInvalidCursor)
	assert.True(t, errors.Is(err, reconcile.ErrInvariant))

	_, err = Encode(&reconcile.Cursor{GoalPost: 10, Witnessed: interval.Set{{Low: 20, High: 30}}, Hints: map[int64]int64{5: 25}}, false)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestRoundTrip(t *testing.T) {
	cursors := []struct {
		cursor *reconcile.Cursor
		hinted bool
	}{
		{&reconcile.Cursor{}, false},
		{&reconcile.Cursor{}, true},
		{&reconcile.Cursor{GoalPost: 50}, false},
		{&reconcile.Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 103, High: 105}, {Low: 200, High: 300}}}, false},
		{&reconcile.Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 103, High: 105}}, Hints: map[int64]int64{1700000000: 104}}, true},
	}

	for _, tc := range cursors {
		data, err := Encode(tc.cursor, tc.hinted)
		require.NoError(t, err)

		got, err := Decode(data, tc.hinted)
		require.NoError(t, err)
		assert.Equal(t, tc.cursor, got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		hinted bool
	}{
		{"Not an array", `{"goal":1}`, false},
		{"Too short", `[1]`, false},
		{"Missing hints", `[1,[]]`, true},
		{"Extra element", `[1,[],[]]`, false},
		{"String goal", `["1",[]]`, false},
		{"Fractional goal", `[1.5,[]]`, false},
		{"Zero goal", `[0,[]]`, false},
		{"Unvisited with ranges", `[null,[[1,5]]]`, false},
		{"Overlapping ranges", `[1,[[5,9],[8,12]]]`, false},
		{"Degenerate range", `[1,[[5,5]]]`, false},
		{"Goal post inside range", `[100,[[90,110]]]`, false},
		{"Bad hint shape", `[1,[[5,9]],[[1,2,3]]]`, true},
		{"Dangling hint", `[1,[[5,9]],[[1700000000,20]]]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(json.RawMessage(tt.raw), tt.hinted)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestDecode_Absent(t *testing.T) {
	for _, raw := range []string{"", "null", "  null "} {
		c, err := Decode(json.RawMessage(raw), true)
		assert.NoError(t, err)
		assert.Equal(t, &reconcile.Cursor{}, c)
	}
}

func newRepo(t *testing.T, store kv.Store) *Repository {
	t.Helper()
	return NewRepository(store, zap.NewNop(), plainNS, hintedNS)
}

func TestRepository_RequiresMigration(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, kv.NewMemory())

	_, err := repo.Load(ctx, plainNS, "dashboard")
	assert.ErrorIs(t, err, ErrNotMigrated)
	assert.ErrorIs(t, repo.Save(ctx, plainNS, "dashboard", &reconcile.Cursor{}), ErrNotMigrated)
}

func TestRepository_LoadSave(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, kv.NewMemory())
	require.NoError(t, repo.Migrate(ctx))

	c, err := repo.Load(ctx, hintedNS, "art")
	assert.NoError(t, err)
	assert.False(t, c.Visited())

	want := &reconcile.Cursor{GoalPost: 100, Witnessed: interval.Set{{Low: 103, High: 105}}, Hints: map[int64]int64{1700000000: 103}}
	require.NoError(t, repo.Save(ctx, hintedNS, "art", want))

	got, err := repo.Load(ctx, hintedNS, "art")
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	keys, err := repo.Keys(ctx, hintedNS)
	assert.NoError(t, err)
	assert.Equal(t, []string{"art"}, keys)

	require.NoError(t, repo.Reset(ctx, hintedNS, "art"))
	got, err = repo.Load(ctx, hintedNS, "art")
	assert.NoError(t, err)
	assert.False(t, got.Visited())
}

func TestRepository_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := newRepo(t, store)
	require.NoError(t, repo.Migrate(ctx))

	err := repo.Save(ctx, plainNS, "dashboard", &reconcile.Cursor{GoalPost: 10, Witnessed: interval.Set{{Low: 9, High: 3}}})
	assert.ErrorIs(t, err, ErrInvalidCursor)

	keys, err := store.Keys(ctx, plainNS.Name)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRepository_LoadRejectsCorrupt(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := newRepo(t, store)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, store.Set(ctx, plainNS.Name, "dashboard", json.RawMessage(`[10,[[9,3]]]`)))

	_, err := repo.Load(ctx, plainNS, "dashboard")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestRepository_MigrateLegacy(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, plainNS.Name, "dashboard", json.RawMessage(`4242`)))
	require.NoError(t, store.Set(ctx, hintedNS.Name, "art", json.RawMessage(`77`)))
	require.NoError(t, store.Set(ctx, hintedNS.Name, "gone", json.RawMessage(`null`)))

	repo := newRepo(t, store)
	version, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	require.NoError(t, repo.Migrate(ctx))

	version, err = repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	raw, err := store.Get(ctx, plainNS.Name, "dashboard", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[4242,[]]`, string(raw))

	raw, err = store.Get(ctx, hintedNS.Name, "art", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[77,[],[]]`, string(raw))

	keys, err := store.Keys(ctx, hintedNS.Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"art"}, keys)

	c, err := repo.Load(ctx, plainNS, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, &reconcile.Cursor{GoalPost: 4242}, c)
}

func TestRepository_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := newRepo(t, store)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Save(ctx, plainNS, "dashboard", &reconcile.Cursor{GoalPost: 9, Witnessed: interval.Set{{Low: 12, High: 20}}}))

	again := newRepo(t, store)
	require.NoError(t, again.Migrate(ctx))

	c, err := again.Load(ctx, plainNS, "dashboard")
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.GoalPost)
}

func TestRepository_MigrateRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, metaNamespace, versionKey, json.RawMessage(`3`)))

	repo := newRepo(t, store)
	assert.ErrorIs(t, repo.Migrate(ctx), ErrUnsupportedSchema)
}

func TestNewView(t *testing.T) {
	v := NewView(hintedNS, "art", &reconcile.Cursor{
		GoalPost:  100,
		Witnessed: interval.Set{{Low: 103, High: 105}, {Low: 120, High: 140}},
		Hints:     map[int64]int64{1700000200: 120, 1700000100: 103},
	})

	assert.True(t, v.Visited)
	require.NotNil(t, v.GoalPost)
	assert.Equal(t, int64(100), *v.GoalPost)
	assert.Equal(t, [][2]int64{{103, 105}, {120, 140}}, v.Witnessed)
	assert.Equal(t, []HintView{{1700000100, 103}, {1700000200, 120}}, v.Hints)

	empty := NewView(plainNS, "dashboard", &reconcile.Cursor{})
	assert.False(t, empty.Visited)
	assert.Nil(t, empty.GoalPost)
	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"namespace":"dashboard","key":"dashboard","visited":false,"goal_post":null,"witnessed":[]}`, string(data))
}
