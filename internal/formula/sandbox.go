package formula

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything a formula could use to reach outside the
// VM: the os and io libraries, module loading and the debug library.
// string, table and math stay available.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("module", lua.LNil)
	L.SetGlobal("package", lua.LNil)

	L.SetGlobal("debug", lua.LNil)
	L.SetGlobal("collectgarbage", lua.LNil)
}

// newSandboxedVM creates a Lua VM with sandboxing applied and a bounded
// call stack.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       maxCallStackSize,
		RegistrySize:        maxRegistrySize,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}
