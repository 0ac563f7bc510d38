package luahost

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// tableObject exposes a Lua table as a host object. Members are resolved
// with normal Lua indexing, so metatable __index chains are honored.
type tableObject struct {
	rt   *Runtime
	name string
	tbl  *lua.LTable
	// data overrides the converted table view when the table was built
	// from snapshot data
	data *value.Value
}

func (o *tableObject) Name() string { return o.name }

func (o *tableObject) Ref() any { return o.tbl }

func (o *tableObject) Data() value.Value {
	if o.data != nil {
		return *o.data
	}
	o.rt.mu.Lock()
	defer o.rt.mu.Unlock()
	return fromLua(o.tbl)
}

func (o *tableObject) Keys() []string {
	o.rt.mu.Lock()
	defer o.rt.mu.Unlock()

	seen := map[string]bool{}
	var keys []string
	collect := func(tbl *lua.LTable) {
		key, _ := tbl.Next(lua.LNil)
		for key != lua.LNil {
			if s, ok := key.(lua.LString); ok && !seen[string(s)] {
				seen[string(s)] = true
				keys = append(keys, string(s))
			}
			key, _ = tbl.Next(key)
		}
	}

	collect(o.tbl)
	if mt, ok := o.rt.L.GetMetatable(o.tbl).(*lua.LTable); ok {
		if index, ok := mt.RawGetString("__index").(*lua.LTable); ok {
			collect(index)
		}
	}
	return keys
}

func (o *tableObject) Member(name string) (host.Member, bool) {
	o.rt.mu.Lock()
	defer o.rt.mu.Unlock()
	lv := o.rt.field(o.tbl, name)

	switch t := lv.(type) {
	case *lua.LFunction:
		full := o.name + "." + name
		return host.Member{
			Func:      o.rt.bind(o.tbl, t, full),
			Construct: o.rt.construct(o.tbl, t, full),
			Arity:     arity(t),
		}, true
	case *lua.LTable:
		return host.Member{
			Arity:  host.UnknownArity,
			Object: &tableObject{rt: o.rt, name: o.name + "." + name, tbl: t},
		}, true
	default:
		return host.Member{}, false
	}
}

// field reads tbl[name] with normal Lua indexing. A raising __index
// metamethod reads as absent. Callers hold mu.
func (rt *Runtime) field(tbl *lua.LTable, name string) (lv lua.LValue) {
	if raw := tbl.RawGetString(name); raw != lua.LNil {
		return raw
	}
	L := rt.L
	if L.GetMetatable(tbl) == lua.LNil {
		return lua.LNil
	}

	top := L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			L.SetTop(top)
			lv = lua.LNil
		}
	}()
	if err := L.CallByParam(lua.P{Fn: L.NewFunction(indexField), NRet: 1, Protect: true}, tbl, lua.LString(name)); err != nil {
		L.SetTop(top)
		return lua.LNil
	}
	lv = L.Get(-1)
	L.SetTop(top)
	return lv
}

func indexField(L *lua.LState) int {
	L.Push(L.GetField(L.CheckTable(1), L.CheckString(2)))
	return 1
}

// arity is the declared parameter count without the receiver
func arity(fn *lua.LFunction) int {
	if fn.IsG || fn.Proto == nil || fn.Proto.IsVarArg != 0 {
		return host.UnknownArity
	}
	n := int(fn.Proto.NumParameters) - 1
	if n < 0 {
		return 0
	}
	return n
}

// bind produces a host.Func that calls fn method-style with self as the
// first Lua argument.
func (rt *Runtime) bind(self *lua.LTable, fn *lua.LFunction, name string) host.Func {
	return func(ctx context.Context, args []host.Arg) (value.Value, error) {
		ret, err := rt.call(ctx, self, fn, name, args)
		if err != nil {
			return value.Null(), err
		}
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return fromLua(ret), nil
	}
}

// construct calls fn like bind but hands back a returned table as an
// object so callers can keep invoking members on the new instance.
func (rt *Runtime) construct(self *lua.LTable, fn *lua.LFunction, name string) host.Constructor {
	return func(ctx context.Context, args []host.Arg) (host.Object, error) {
		ret, err := rt.call(ctx, self, fn, name, args)
		if err != nil {
			return nil, err
		}
		tbl, ok := ret.(*lua.LTable)
		if !ok {
			return nil, nil
		}
		return &tableObject{rt: rt, name: name + "()", tbl: tbl}, nil
	}
}

// call runs fn under the runtime lock and under ctx, so a script that
// never returns is interrupted at the deadline.
func (rt *Runtime) call(ctx context.Context, self *lua.LTable, fn *lua.LFunction, name string, args []host.Arg) (ret lua.LValue, err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	L := rt.L
	top := L.GetTop()
	if ctx != nil && ctx.Done() != nil {
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			L.SetTop(top)
			ret = lua.LNil
			err = fmt.Errorf("lua: %s panicked: %v", name, r)
		}
	}()

	largs := make([]lua.LValue, 0, len(args)+1)
	largs = append(largs, self)
	for _, a := range args {
		largs = append(largs, argToLua(L, a))
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
		L.SetTop(top)
		return lua.LNil, fmt.Errorf("lua: %s: %w", name, err)
	}
	ret = L.Get(-1)
	L.SetTop(top)
	return ret, nil
}
