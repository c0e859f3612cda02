package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/filter"
	"github.com/dshills/rewind/internal/engine/history"
)

// Helper reducers

func countReducer(n int, a action.Action) int {
	switch a.Type {
	case "INCREMENT":
		return n + 1
	case "DECREMENT":
		return n - 1
	default:
		return n
	}
}

func tenfoldReducer(n int, a action.Action) int {
	switch a.Type {
	case "INCREMENT":
		return n + 10
	case "DECREMENT":
		return n - 10
	default:
		return n
	}
}

var (
	inc        = action.New("INCREMENT", nil)
	dec        = action.New("DECREMENT", nil)
	dummy      = action.New("DUMMY", nil)
	initAction = action.New(action.TypeInit, nil)
)

func apply[S any](u *Undoable[S], h *history.History[S], actions ...action.Action) *history.History[S] {
	for _, a := range actions {
		h = u.Reduce(h, a)
	}
	return h
}

// Initialization Tests

func TestInitWithoutState(t *testing.T) {
	u := New(countReducer, 0)
	h := u.Reduce(nil, action.Action{})

	assert.Empty(t, h.Past)
	assert.Equal(t, 0, h.Present)
	assert.Empty(t, h.Future)
}

func TestInitFromState(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](200))
	h := u.Init(FromState(100), initAction)

	assert.Equal(t, history.New(100), h)
}

func TestInitFromHistory(t *testing.T) {
	stored := history.From([]int{0, 1, 2, 3}, 4, []int{5, 6, 7})
	u := New(countReducer, 0)

	assert.Same(t, stored, u.Init(FromHistory(stored), initAction))
}

func TestInitIgnoreInitialState(t *testing.T) {
	u := New(countReducer, 7, WithIgnoreInitialState[int]())
	assert.Equal(t, 7, u.Init(FromState(100), initAction).Present)

	stored := history.From([]int{1}, 2, nil)
	assert.Same(t, stored, u.Init(FromHistory(stored), initAction))
}

func TestInputOf(t *testing.T) {
	in, ok := InputOf[int](nil)
	assert.True(t, ok)
	assert.True(t, in.IsEmpty())

	in, ok = InputOf[int](5)
	require.True(t, ok)
	s, isState := in.State()
	assert.True(t, isState)
	assert.Equal(t, 5, s)

	h := history.New(3)
	in, ok = InputOf[int](h)
	require.True(t, ok)
	got, isHistory := in.History()
	assert.True(t, isHistory)
	assert.Same(t, h, got)

	in, ok = InputOf[int](*h)
	require.True(t, ok)
	assert.True(t, in.IsHistory())

	_, ok = InputOf[int]("five")
	assert.False(t, ok)

	assert.True(t, FromHistory[int](nil).IsEmpty())
}

// Scenario Tests

func TestIncrementUndoJumpScenario(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](100))
	h := apply(u, nil, initAction, inc, inc, inc)

	assert.Equal(t, []int{0, 1, 2}, h.Past)
	assert.Equal(t, 3, h.Present)
	assert.Empty(t, h.Future)

	undone := u.Reduce(h, action.Undo())
	assert.Equal(t, []int{0, 1}, undone.Past)
	assert.Equal(t, 2, undone.Present)
	assert.Equal(t, []int{3}, undone.Future)

	jumped := u.Reduce(h, action.Jump(-2))
	assert.Equal(t, []int{0}, jumped.Past)
	assert.Equal(t, 1, jumped.Present)
	assert.Equal(t, []int{2, 3}, jumped.Future)
}

func TestUndoRedo(t *testing.T) {
	u := New(countReducer, 0)
	incremented := apply(u, nil, initAction, inc)

	undone := u.Reduce(incremented, action.Undo())
	assert.Equal(t, 0, undone.Present)
	assert.Equal(t, incremented.Present, undone.Future[0])
	assert.Len(t, undone.Past, len(incremented.Past)-1)

	redone := u.Reduce(undone, action.Redo())
	assert.Equal(t, incremented.Present, redone.Present)
	assert.Equal(t, undone.Present, redone.Past[len(redone.Past)-1])
	assert.Empty(t, redone.Future)

	assert.Same(t, redone, u.Reduce(redone, action.Redo()))

	fresh := u.Reduce(nil, initAction)
	assert.Same(t, fresh, u.Reduce(fresh, action.Undo()))
}

func TestJumpMatchesRepeatedUndoRedo(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc, inc)

	twoUndos := apply(u, h, action.Undo(), action.Undo())
	assert.Equal(t, twoUndos, u.Reduce(h, action.Jump(-2)))

	twoRedos := apply(u, twoUndos, action.Redo(), action.Redo())
	assert.Equal(t, twoRedos, u.Reduce(twoUndos, action.Jump(2)))
}

func TestJumpOutOfBounds(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc, inc, action.Undo())

	for _, a := range []action.Action{
		action.Jump(0),
		action.Jump(10),
		action.Jump(-10),
		action.JumpToPast(-1),
		action.JumpToPast(5),
		action.JumpToFuture(-1),
		action.JumpToFuture(1),
	} {
		t.Run(a.String(), func(t *testing.T) {
			assert.Same(t, h, u.Reduce(h, a))
		})
	}
}

func TestJumpToPastAndFuture(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc, inc, inc)

	past := u.Reduce(h, action.JumpToPast(0))
	assert.Equal(t, 0, past.Present)
	assert.Empty(t, past.Past)
	assert.Equal(t, []int{1, 2, 3}, past.Future)

	future := u.Reduce(past, action.JumpToFuture(2))
	assert.Equal(t, h, future)
}

func TestClearHistory(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc, inc, action.Undo())

	cleared := u.Reduce(h, action.ClearHistory())
	assert.Empty(t, cleared.Past)
	assert.Empty(t, cleared.Future)
	assert.Equal(t, h.Present, cleared.Present)
}

func TestControlActionsSkipBaseReducer(t *testing.T) {
	calls := 0
	base := func(n int, a action.Action) int {
		calls++
		return countReducer(n, a)
	}
	u := New(base, 0)
	h := apply(u, nil, initAction, inc, inc)
	calls = 0

	apply(u, h,
		action.Undo(), action.Redo(), action.Jump(-1), action.JumpToPast(0),
		action.JumpToFuture(0), action.ClearHistory(),
	)
	assert.Zero(t, calls)
}

func TestForwardedActionNamedLikeControl(t *testing.T) {
	base := func(n int, a action.Action) int {
		if a.Type == action.TypeUndo {
			return n * 2
		}
		return countReducer(n, a)
	}
	u := New(base, 0)
	h := apply(u, nil, initAction, inc, action.New(action.TypeUndo, nil))

	assert.Equal(t, 2, h.Present)
	assert.Equal(t, []int{0, 1}, h.Past)
}

// Reinitialization Tests

func TestReinit(t *testing.T) {
	u := New(countReducer, 0, WithInitTypes[int]("RESET"))
	h := apply(u, nil, initAction, inc, inc, inc)
	require.Equal(t, 3, h.Present)

	reset := u.Reduce(h, action.New("RESET", nil))
	assert.Equal(t, history.New(countReducer(0, action.Action{})), reset)
}

func TestReinitDefaultTypes(t *testing.T) {
	u := New(countReducer, 0)
	initial := u.Reduce(nil, action.Action{})
	h := u.Reduce(initial, inc)

	assert.Equal(t, initial, u.Reduce(h, action.New(TypeInit, nil)))
	assert.Equal(t, initial, u.Reduce(h, initAction))
}

func TestNoInitTypes(t *testing.T) {
	u := New(countReducer, 0, WithInitTypes[int]())
	h := apply(u, nil, initAction, inc)

	assert.Same(t, h, u.Reduce(h, action.New(TypeInit, nil)))
}

func TestReinitOnPreloadedHistory(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](1024), WithInitTypes[int]("RE-INITIALIZE"))
	h := u.Init(FromHistory(history.From([]int{123}, 5, []int{-1, -2, -3})), initAction)

	reset := u.Reduce(h, action.New("RE-INITIALIZE", nil))
	assert.Empty(t, reset.Past)
	assert.Empty(t, reset.Future)
	assert.Equal(t, 0, reset.Present)
}

func TestReinitAfterRawPreloadUsesBaseInitial(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](200), WithInitTypes[int]("RESET"))
	h := u.Init(FromState(100), initAction)
	require.Equal(t, 100, h.Present)

	h = apply(u, h, inc, inc)
	require.Equal(t, []int{100, 101}, h.Past)

	reset := u.Reduce(h, action.New("RESET", nil))
	assert.Equal(t, history.New(0), reset)
}

// Recording Tests

func TestUnchangedResultNotRecorded(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc)

	assert.Same(t, h, u.Reduce(h, dummy))
}

func TestNeverSkipReducerRecordsUnchanged(t *testing.T) {
	u := New(countReducer, 0, WithNeverSkipReducer[int]())
	h := apply(u, nil, initAction, inc)

	got := u.Reduce(h, dummy)
	assert.Equal(t, h.Present, got.Present)
	assert.Equal(t, append(append([]int{}, h.Past...), h.Present), got.Past)
	assert.Empty(t, got.Future)
}

func TestDistinctStateWithNeverSkip(t *testing.T) {
	u := New(countReducer, 0,
		WithNeverSkipReducer[int](),
		WithFilter(filter.DistinctState[int]()),
		WithInitTypes[int](),
	)
	h := apply(u, nil, initAction, inc)

	got := u.Reduce(h, dummy)
	assert.Equal(t, h.Past, got.Past)
	assert.Equal(t, h.Present, got.Present)
	assert.Equal(t, h.Future, got.Future)
}

func TestExcludedActionsNotRecorded(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](100), WithFilter(filter.ExcludeAction[int]("DECREMENT")))
	h := u.Init(FromHistory(history.From([]int{0, 1, 2, 3}, 4, []int{5, 6, 7})), initAction)

	got := u.Reduce(h, dec)
	assert.Equal(t, h.Past, got.Past)
	assert.Equal(t, h.Future, got.Future)
	assert.Equal(t, 4, got.Present)
	assert.Equal(t, 3, got.LatestUnfiltered())
}

type editor struct {
	Text   string
	Cursor int
}

func editorReducer(s editor, a action.Action) editor {
	switch a.Type {
	case "TYPE":
		text, _ := a.Payload.(string)
		s.Text += text
		s.Cursor += len(text)
	case "MOVE":
		pos, _ := a.Payload.(int)
		s.Cursor = pos
	}
	return s
}

func TestFilteredChangesFoldIntoNextRecord(t *testing.T) {
	u := New(editorReducer, editor{}, WithFilter(filter.ExcludeAction[editor]("MOVE")))
	h := apply(u, nil, initAction, action.New("TYPE", "ab"))
	require.Equal(t, editor{Text: "ab", Cursor: 2}, h.Present)

	moved := u.Reduce(h, action.New("MOVE", 0))
	assert.Equal(t, editor{Text: "ab", Cursor: 2}, moved.Present)
	assert.Equal(t, editor{Text: "ab", Cursor: 0}, moved.LatestUnfiltered())
	assert.Equal(t, h.Past, moved.Past)

	typed := u.Reduce(moved, action.New("TYPE", "c"))
	assert.Equal(t, editor{Text: "abc", Cursor: 1}, typed.Present)
	assert.Equal(t, []editor{{}, {Text: "ab", Cursor: 2}}, typed.Past)
	assert.False(t, typed.HasUnfiltered())

	// Repeating a filtered result is not a change.
	assert.Same(t, moved, u.Reduce(moved, action.New("MOVE", 0)))
}

func TestFilterAlwaysFalse(t *testing.T) {
	reject := func(action.Action, int, *history.History[int]) bool { return false }
	u := New(countReducer, 0, WithFilter[int](reject), WithInitTypes[int]("RESET"))
	h := apply(u, nil, initAction, action.New("RESET", nil))

	for i := 0; i < 25; i++ {
		h = u.Reduce(h, inc)
		assert.Empty(t, h.Past)
		assert.Empty(t, h.Future)
		assert.Equal(t, 0, h.Present)
	}
	assert.Equal(t, 25, h.LatestUnfiltered())
}

func TestSyncFilterUpdatesPresent(t *testing.T) {
	u := New(countReducer, 0, WithSyncFilter[int](), WithFilter(filter.ExcludeAction[int]("DECREMENT")))
	h := apply(u, nil, initAction, inc, inc)

	got := u.Reduce(h, dec)
	assert.Equal(t, 1, got.Present)
	assert.Equal(t, h.Past, got.Past)
	assert.False(t, got.HasUnfiltered())
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		n     int
		want  []int
	}{
		{"bounded", 3, 10, []int{7, 8, 9}},
		{"not reached", 100, 3, []int{0, 1, 2}},
		{"unbounded", -1, 4, []int{0, 1, 2, 3}},
		{"disabled", 0, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(countReducer, 0, WithLimit[int](tt.limit))
			h := u.Reduce(nil, initAction)
			for i := 0; i < tt.n; i++ {
				h = u.Reduce(h, inc)
			}
			assert.Equal(t, tt.want, h.Past)
			assert.Empty(t, h.Future)
			assert.Equal(t, tt.n, h.Present)
		})
	}
}

func TestLimitZeroAfterReinitTracksPresent(t *testing.T) {
	u := New(countReducer, 0, WithLimit[int](0), WithInitTypes[int]("RESET"))
	h := apply(u, nil, initAction, inc, inc)

	h = u.Reduce(h, action.New("RESET", nil))
	require.Equal(t, history.New(0), h)

	h = apply(u, h, inc, inc, inc)
	assert.Empty(t, h.Past)
	assert.Empty(t, h.Future)
	assert.Equal(t, 3, h.Present)
	assert.False(t, h.CanUndo())
	assert.Same(t, h, u.Reduce(h, action.Undo()))
}

func TestGroupBy(t *testing.T) {
	u := New(countReducer, 0, WithGroupBy(filter.GroupByActionType[int]("INCREMENT")))
	h := apply(u, nil, initAction, inc, inc, inc)

	assert.Equal(t, []int{0}, h.Past)
	assert.Equal(t, 3, h.Present)

	h = apply(u, h, dec, inc, inc)
	assert.Equal(t, []int{0, 3, 2}, h.Past)
	assert.Equal(t, 4, h.Present)

	// Undo breaks the group.
	h = apply(u, h, action.Undo(), inc)
	assert.Equal(t, []int{0, 3, 2}, h.Past)
	assert.Equal(t, 3, h.Present)
	assert.Equal(t, "INCREMENT", h.Group)
}

// Replacement Tests

func TestReducerReplacementKeepsHistory(t *testing.T) {
	u := New(countReducer, 0)
	h := apply(u, nil, initAction, inc, inc, action.Undo())

	replaced := New(tenfoldReducer, 10)
	adopted := replaced.Init(FromHistory(h), action.New(action.TypeReplace, nil))
	require.Same(t, h, adopted)

	next := replaced.Reduce(adopted, inc)
	assert.Equal(t, tenfoldReducer(h.Present, inc), next.Present)
	assert.Equal(t, []int{0, 1}, next.Past)
}

// Config Tests

func TestDefaultConfig(t *testing.T) {
	cfg := New(countReducer, 0).Config()

	assert.Equal(t, DefaultLimit, cfg.Limit)
	assert.Equal(t, DefaultInitTypes(), cfg.InitTypes)
	assert.False(t, cfg.Debug)
	assert.NotNil(t, cfg.Filter)
	assert.NotNil(t, cfg.GroupBy)
	assert.NotNil(t, cfg.Equal)
	assert.NotNil(t, cfg.Logger)

	// The copy is detached.
	cfg.InitTypes[0] = "CHANGED"
	assert.Equal(t, DefaultInitTypes(), New(countReducer, 0).Config().InitTypes)
}

func TestWithConfig(t *testing.T) {
	cfg := DefaultConfig[int]()
	cfg.Limit = 2
	u := New(countReducer, 0, WithConfig(cfg), WithDebug[int](true))

	got := u.Config()
	assert.Equal(t, 2, got.Limit)
	assert.True(t, got.Debug)
}

func TestWithFilterCombines(t *testing.T) {
	u := New(countReducer, 0, WithFilter(
		filter.ExcludeAction[int]("DECREMENT"),
		filter.ExcludeAction[int]("INCREMENT"),
	))
	h := apply(u, nil, initAction, inc, dec)
	assert.Empty(t, h.Past)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	u := New(countReducer, 0, WithDebug[int](true), WithLogger[int](logger))
	apply(u, nil, initAction, inc, action.Undo())

	out := buf.String()
	assert.Contains(t, out, "undoable init")
	assert.Contains(t, out, "undoable forward")
	assert.Contains(t, out, "undoable undo")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestDebugDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	u := New(countReducer, 0, WithLogger[int](logger))
	apply(u, nil, initAction, inc, action.Undo())

	assert.Empty(t, buf.String())
}
