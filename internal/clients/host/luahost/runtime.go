// Package luahost runs the host script in an embedded Lua VM and exposes
// its globals as host objects.
//
// Script conventions: the helper namespace is the global HelpersL5r5e, the
// system namespace is l5r5e, actor and item receivers take their methods
// from actor_methods and item_methods, and combat exposes the tracker.
// Every member function is called method-style, so scripts declare them
// with colon syntax (function HelpersL5r5e:getRingsList(actor) ... end).
package luahost

import (
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Global names read from the host script
const (
	GlobalHelpers       = "HelpersL5r5e"
	GlobalSystem        = "l5r5e"
	GlobalCombat        = "combat"
	GlobalActorMethods  = "actor_methods"
	GlobalItemMethods   = "item_methods"
	GlobalConfig        = "CONFIG"
	GlobalSystemVersion = "SYSTEM_VERSION"
)

// Config configures the Lua runtime
type Config struct {
	// ScriptPath is read when Source is empty
	ScriptPath string
	Source     string
	// World, when set, is published to the script as the CONFIG global
	World *host.World
}

// Validate validates the configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Source == "" && c.ScriptPath == "" {
		vb.Field("script", "either source or script path is required")
	}
	return vb.Build()
}

// Runtime implements host.Runtime on a gopher-lua state. The state is not
// goroutine safe, so every access goes through mu.
type Runtime struct {
	mu sync.Mutex
	L  *lua.LState
}

// New loads the host script
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid lua host config")
	}

	source := cfg.Source
	if source == "" {
		raw, err := os.ReadFile(cfg.ScriptPath) // #nosec G304
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read host script %s", cfg.ScriptPath)
		}
		source = string(raw)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openSafeLibs(L); err != nil {
		L.Close()
		return nil, err
	}

	rt := &Runtime{L: L}
	if cfg.World != nil {
		L.SetGlobal(GlobalConfig, toLua(L, cfg.World.ConfigRoot()))
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to load host script")
	}

	return rt, nil
}

// openSafeLibs opens the libraries a host script needs. io and os stay
// closed.
func openSafeLibs(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return errors.Wrapf(err, "failed to open lua library %s", lib.name)
		}
	}
	return nil
}

// Close releases the Lua state
func (rt *Runtime) Close() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.L.Close()
}

// Version returns the SYSTEM_VERSION global, or ""
func (rt *Runtime) Version() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if s, ok := rt.field(rt.L.G.Global, GlobalSystemVersion).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func (rt *Runtime) global(name string) (host.Object, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	tbl, ok := rt.field(rt.L.G.Global, name).(*lua.LTable)
	if !ok {
		return nil, false
	}
	return &tableObject{rt: rt, name: name, tbl: tbl}, true
}

// Helpers returns the helper namespace
func (rt *Runtime) Helpers() (host.Object, bool) {
	return rt.global(GlobalHelpers)
}

// System returns the system namespace
func (rt *Runtime) System() (host.Object, bool) {
	return rt.global(GlobalSystem)
}

// Combat returns the combat tracker
func (rt *Runtime) Combat() (host.Object, bool) {
	return rt.global(GlobalCombat)
}

// Global returns any other global table, such as CONFIG or ChatMessage
func (rt *Runtime) Global(name string) (host.Object, bool) {
	return rt.global(name)
}

// Actor builds a receiver table for actor whose methods come from
// actor_methods
func (rt *Runtime) Actor(actor *entities.Actor) host.Object {
	data := actor.Data
	rt.mu.Lock()
	defer rt.mu.Unlock()

	tbl := rt.dataTable(data, GlobalActorMethods)
	tbl.RawSetString("id", lua.LString(actor.ID))
	tbl.RawSetString("type", lua.LString(actor.Type))
	return &tableObject{rt: rt, name: "actor:" + actor.ID, tbl: tbl, data: &data}
}

// Item builds a receiver table for item whose methods come from
// item_methods. The owning actor id is exposed as actorId.
func (rt *Runtime) Item(actor *entities.Actor, item *entities.Item) host.Object {
	data := item.Data
	rt.mu.Lock()
	defer rt.mu.Unlock()

	tbl := rt.dataTable(data, GlobalItemMethods)
	tbl.RawSetString("id", lua.LString(item.ID))
	tbl.RawSetString("type", lua.LString(item.Type))
	if actor != nil {
		tbl.RawSetString("actorId", lua.LString(actor.ID))
	}
	return &tableObject{rt: rt, name: "item:" + item.ID, tbl: tbl, data: &data}
}

// Token builds a plain token reference table
func (rt *Runtime) Token(token *entities.Token) host.Object {
	rec := value.NewRecord().
		Set("id", value.String(token.ID)).
		Set("uuid", value.String(token.UUID)).
		Set("actorId", value.String(token.ActorID)).
		Set("sceneId", value.String(token.SceneID)).
		Set("sceneUuid", value.String(token.SceneUUID))
	data := value.Rec(rec)

	rt.mu.Lock()
	defer rt.mu.Unlock()
	tbl, _ := toLua(rt.L, data).(*lua.LTable)
	return &tableObject{rt: rt, name: "token:" + token.ID, tbl: tbl, data: &data}
}

// dataTable converts data to a table and attaches the named method table
// as its __index. Callers hold mu.
func (rt *Runtime) dataTable(data value.Value, methodsGlobal string) *lua.LTable {
	tbl, ok := toLua(rt.L, data).(*lua.LTable)
	if !ok {
		tbl = rt.L.NewTable()
	}
	if methods, ok := rt.field(rt.L.G.Global, methodsGlobal).(*lua.LTable); ok {
		mt := rt.L.NewTable()
		mt.RawSetString("__index", methods)
		rt.L.SetMetatable(tbl, mt)
	}
	return tbl
}

// Compile-time check
var _ host.Runtime = (*Runtime)(nil)
