// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package script

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// safeLibrary is a Lua library that may be opened in a sandboxed state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// Safe: base, table, string, math.
// Blocked: os, io, debug, package, coroutine, channel.
var safeLibraries = []safeLibrary{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// unsafeBaseFunctions reach the filesystem or compile arbitrary chunks.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load", "require"}

// newState returns a Lua state with only the safe libraries loaded.
func newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range safeLibraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.In("script").With("library", lib.name).Wrap(err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}
	return L, nil
}

// compile checks source for syntax errors in a throwaway state.
func compile(source string) error {
	L, err := newState()
	if err != nil {
		return err
	}
	defer L.Close()

	if _, err := L.LoadString(source); err != nil {
		return oops.In("script").Code("SCRIPT_INVALID").Hint("syntax error").Wrap(err)
	}
	return nil
}

// maxTableDepth bounds how deeply nested a table passed to the host may be.
const maxTableDepth = 32

// toGo converts a Lua value into the generic form used by documents.
// Tables with keys 1..n become slices; other tables become maps keyed by
// the string form of each key. Self-referencing tables and tables nested
// deeper than maxTableDepth are rejected.
func toGo(v lua.LValue) (any, error) {
	return convert(v, make(map[*lua.LTable]struct{}), 0)
}

func convert(v lua.LValue, visiting map[*lua.LTable]struct{}, depth int) (any, error) {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		return convertTable(v, visiting, depth)
	default:
		return nil, nil
	}
}

func convertTable(t *lua.LTable, visiting map[*lua.LTable]struct{}, depth int) (any, error) {
	if depth >= maxTableDepth {
		return nil, oops.In("script").
			Code("SCRIPT_INVALID").
			With("max_depth", maxTableDepth).
			Errorf("table nested too deeply")
	}
	if _, ok := visiting[t]; ok {
		return nil, oops.In("script").
			Code("SCRIPT_INVALID").
			Errorf("table refers to itself")
	}
	visiting[t] = struct{}{}
	defer delete(visiting, t)

	if n := t.MaxN(); n > 0 && n == countKeys(t) {
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			item, err := convert(t.RawGetInt(i), visiting, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	out := make(map[string]any)
	var err error
	t.ForEach(func(k, val lua.LValue) {
		if err != nil {
			return
		}
		var item any
		if item, err = convert(val, visiting, depth+1); err == nil {
			out[k.String()] = item
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func countKeys(t *lua.LTable) int {
	n := 0
	t.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}
