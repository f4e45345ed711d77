package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every configuration VM. string, table and
// math stay available.
var blockedGlobals = []string{
	"os",
	"io",
	"require",
	"module",
	"package",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"debug",
	"collectgarbage",
}

// newSandboxedVM creates a Lua VM with the blocked globals removed.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
