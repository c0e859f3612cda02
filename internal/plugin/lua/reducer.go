package lua

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/engine/action"
)

// DefaultTimeout bounds a single script load or reduce call.
const DefaultTimeout = time.Second

// reduceFunc is the global a script must define.
const reduceFunc = "reduce"

// Reducer is a counter base reducer backed by a Lua script.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type Reducer struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	name    string
	timeout time.Duration
	closed  bool
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithTimeout sets the limit for loading the script and for each call.
// Zero or negative disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Reducer) {
		r.timeout = d
	}
}

// Load reads a reducer script from path.
func Load(path string, opts ...Option) (*Reducer, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lua reducer: %w", err)
	}
	return LoadString(path, string(code), opts...)
}

// LoadString compiles and runs code, which must define reduce. name
// identifies the script in errors.
func LoadString(name, code string, opts ...Option) (*Reducer, error) {
	r := &Reducer{
		name:    name,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = newSandboxedState()

	err := r.withTimeout(func() error {
		chunk, err := r.L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		return r.L.CallByParam(lua.P{Fn: chunk, NRet: 0, Protect: true})
	})
	if err != nil {
		r.L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	fn, ok := r.L.GetGlobal(reduceFunc).(*lua.LFunction)
	if !ok {
		r.L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoReduce)
	}
	r.fn = fn
	return r, nil
}

// newSandboxedState creates a state with only the safe standard libraries.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Reduce implements engine.BaseReducer. It panics with a *CallError if the
// script fails.
func (r *Reducer) Reduce(n int, a action.Action) int {
	next, err := r.Call(n, a)
	if err != nil {
		panic(err)
	}
	return next
}

// Call runs reduce(n, a). A nil result means n is unchanged.
func (r *Reducer) Call(n int, a action.Action) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return n, ErrClosed
	}

	var ret lua.LValue
	err := r.withTimeout(func() error {
		if err := r.L.CallByParam(lua.P{Fn: r.fn, NRet: 1, Protect: true},
			lua.LNumber(n), r.actionTable(a)); err != nil {
			return err
		}
		ret = r.L.Get(-1)
		r.L.Pop(1)
		return nil
	})
	if err != nil {
		return n, &CallError{Script: r.name, Action: a.Type, Err: err}
	}

	next, err := toInt(ret, n)
	if err != nil {
		return n, &CallError{Script: r.name, Action: a.Type, Err: err}
	}
	return next, nil
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Reducer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// withTimeout runs fn with the state bound to a deadline and reports a
// cancelled run as ErrTimeout.
func (r *Reducer) withTimeout(fn func() error) error {
	if r.timeout <= 0 {
		return fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	err := fn()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}
	return err
}

// actionTable converts a to {type = ..., payload = ...}.
func (r *Reducer) actionTable(a action.Action) *lua.LTable {
	t := r.L.NewTable()
	t.RawSetString("type", lua.LString(a.Type))
	t.RawSetString("payload", toLua(a.Payload))
	return t
}

func toLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

func toInt(v lua.LValue, unchanged int) (int, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return unchanged, nil
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), nil
		}
	}
	return unchanged, fmt.Errorf("%w: got %s %s", ErrBadResult, v.Type(), v.String())
}
