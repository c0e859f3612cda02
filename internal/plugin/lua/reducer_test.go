package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/action"
)

const doubler = `
function reduce(state, action)
    if action.type == "DOUBLE" then
        return state * 2
    elseif action.type == "ADD" then
        return state + tonumber(action.payload)
    elseif action.type == "HALF" then
        return state / 2
    elseif action.type == "NAME" then
        return "n"
    end
    return nil
end
`

func loadDoubler(t *testing.T, opts ...Option) *Reducer {
	t.Helper()
	r, err := LoadString("doubler.lua", doubler, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestReducerCall(t *testing.T) {
	r := loadDoubler(t)

	tests := []struct {
		name string
		in   int
		a    action.Action
		want int
	}{
		{"double", 3, action.New("DOUBLE", nil), 6},
		{"add string payload", 3, action.New("ADD", "4"), 7},
		{"add int payload", 3, action.New("ADD", 10), 13},
		{"nil keeps state", 3, action.New("OTHER", nil), 3},
		{"integral division", 4, action.New("HALF", nil), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Call(tt.in, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReducerBadResult(t *testing.T) {
	r := loadDoubler(t)

	for _, a := range []action.Action{action.New("HALF", nil), action.New("NAME", nil)} {
		got, err := r.Call(3, a)
		require.Error(t, err)
		assert.Equal(t, 3, got)
		assert.ErrorIs(t, err, ErrBadResult)

		var cerr *CallError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "doubler.lua", cerr.Script)
		assert.Equal(t, a.Type, cerr.Action)
	}
}

func TestReducerPanicsOnError(t *testing.T) {
	r := loadDoubler(t)

	assert.Equal(t, 8, r.Reduce(4, action.New("DOUBLE", nil)))
	assert.Panics(t, func() { r.Reduce(3, action.New("HALF", nil)) })
}

func TestReducerRuntimeError(t *testing.T) {
	r, err := LoadString("boom.lua", `function reduce(s, a) error("boom") end`)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Call(1, action.New("X", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestReducerTimeout(t *testing.T) {
	r, err := LoadString("spin.lua", `function reduce(s, a) while true do end end`,
		WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Call(1, action.New("X", nil))
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Equal(t, 1, got)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"no reduce", `x = 1`, ErrNoReduce},
		{"reduce not a function", `reduce = 5`, ErrNoReduce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString("bad.lua", tt.code)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadString("syntax.lua", `function reduce(`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax.lua")

	_, err = LoadString("loop.lua", `while true do end`, WithTimeout(50*time.Millisecond))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSandbox(t *testing.T) {
	for _, global := range []string{"io", "os", "debug", "require", "dofile", "loadfile", "load", "loadstring"} {
		t.Run(global, func(t *testing.T) {
			code := "function reduce(s, a) if " + global + " ~= nil then return 1 end return 0 end"
			r, err := LoadString("probe.lua", code)
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Call(5, action.New("PROBE", nil))
			require.NoError(t, err)
			assert.Equal(t, 0, got, "%s should not be reachable", global)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "double.lua")
	require.NoError(t, os.WriteFile(path, []byte(doubler), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Call(21, action.New("DOUBLE", nil))
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.lua"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClose(t *testing.T) {
	r, err := LoadString("doubler.lua", doubler)
	require.NoError(t, err)

	r.Close()
	r.Close()

	_, err = r.Call(1, action.New("DOUBLE", nil))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReducerWithEngine(t *testing.T) {
	r := loadDoubler(t)
	u := engine.New(r.Reduce, 1)

	h := u.Reduce(nil, action.New(action.TypeInit, nil))
	h = u.Reduce(h, action.New("DOUBLE", nil))
	h = u.Reduce(h, action.New("DOUBLE", nil))
	h = u.Reduce(h, action.Undo())

	assert.Equal(t, []int{1}, h.Past)
	assert.Equal(t, 2, h.Present)
	assert.Equal(t, []int{4}, h.Future)
}
