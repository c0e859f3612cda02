// Package lua runs base reducers written in Lua.
//
// A reducer script defines a global function reduce that receives the
// current state and the action and returns the next state:
//
//	function reduce(state, action)
//	    if action.type == "DOUBLE" then
//	        return state * 2
//	    end
//	    return state
//	end
//
// action is a table with the fields type and payload. Returning nil keeps
// the state unchanged.
//
// # Sandbox
//
// Scripts run with the base, table, string and math libraries only. The
// io, os, debug and package libraries are not opened, and dofile,
// loadfile, load, loadstring, require and module are removed. Every call
// runs under a timeout so a runaway script cannot stall the store.
//
// # Usage
//
//	r, err := lua.Load("double.lua")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	u := engine.New(r.Reduce, 0)
//
// Reduce panics with a *CallError when the script fails, since a base
// reducer cannot return an error. store.Store recovers such panics and
// keeps its state; use Call to get the error directly.
package lua
