package luahost

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// maxConvertDepth bounds table conversion so self-referencing host tables
// cannot recurse forever.
const maxConvertDepth = 32

func toLua(L *lua.LState, v value.Value) lua.LValue {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return lua.LBool(b)
	case value.KindNumber:
		n, _ := v.Number()
		return lua.LNumber(n)
	case value.KindString:
		s, _ := v.Text()
		return lua.LString(s)
	case value.KindSequence:
		tbl := L.NewTable()
		for _, item := range v.Items() {
			tbl.Append(toLua(L, item))
		}
		return tbl
	case value.KindRecord:
		tbl := L.NewTable()
		v.Record().Each(func(k string, f value.Value) bool {
			tbl.RawSetString(k, toLua(L, f))
			return true
		})
		return tbl
	default:
		return lua.LNil
	}
}

func argToLua(L *lua.LState, a host.Arg) lua.LValue {
	switch {
	case a.IsObject():
		if lv, ok := a.Object.Ref().(lua.LValue); ok {
			return lv
		}
		return toLua(L, a.Object.Data())
	case a.IsRecord():
		tbl := L.NewTable()
		for _, f := range a.Fields {
			tbl.RawSetString(f.Name, argToLua(L, f.Arg))
		}
		return tbl
	default:
		return toLua(L, a.Value)
	}
}

func fromLua(lv lua.LValue) value.Value {
	return convertLua(lv, 0, map[*lua.LTable]bool{})
}

func convertLua(lv lua.LValue, depth int, seen map[*lua.LTable]bool) value.Value {
	switch t := lv.(type) {
	case lua.LBool:
		return value.Bool(bool(t))
	case lua.LNumber:
		n := float64(t)
		if math.IsNaN(n) {
			return value.Null()
		}
		return value.Number(n)
	case lua.LString:
		return value.String(string(t))
	case *lua.LTable:
		if depth >= maxConvertDepth || seen[t] {
			return value.Null()
		}
		seen[t] = true
		defer delete(seen, t)
		return convertTable(t, depth, seen)
	default:
		// nil, functions, userdata, threads and channels carry no data
		return value.Null()
	}
}

func convertTable(tbl *lua.LTable, depth int, seen map[*lua.LTable]bool) value.Value {
	count := 0
	tbl.ForEach(func(_, _ lua.LValue) { count++ })

	if n := tbl.MaxN(); n > 0 && n == count {
		items := make([]value.Value, 0, n)
		for i := 1; i <= n; i++ {
			items = append(items, convertLua(tbl.RawGetInt(i), depth+1, seen))
		}
		return value.Seq(items...)
	}

	rec := value.NewRecord()
	key, val := tbl.Next(lua.LNil)
	for key != lua.LNil {
		if _, isFn := val.(*lua.LFunction); !isFn {
			rec.Set(key.String(), convertLua(val, depth+1, seen))
		}
		key, val = tbl.Next(key)
	}
	return value.Rec(rec)
}
