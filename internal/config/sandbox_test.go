package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestNewSandboxedVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "string_library", code: `x = string.upper("hello")`},
		{name: "table_library", code: `t = {1, 2}; table.insert(t, 3)`},
		{name: "math_library", code: `x = math.floor(3.7)`},
		{name: "pairs", code: `for k, v in pairs({a = 1}) do end`},
		{name: "os_execute", code: `os.execute("ls")`, wantErr: "attempt to index"},
		{name: "os_getenv", code: `x = os.getenv("PATH")`, wantErr: "attempt to index"},
		{name: "io_open", code: `f = io.open("/etc/passwd")`, wantErr: "attempt to index"},
		{name: "require", code: `m = require("socket")`, wantErr: "attempt to call"},
		{name: "dofile", code: `dofile("/tmp/x.lua")`, wantErr: "attempt to call"},
		{name: "loadfile", code: `f = loadfile("/tmp/x.lua")`, wantErr: "attempt to call"},
		{name: "load", code: `f = load("return 1")`, wantErr: "attempt to call"},
		{name: "loadstring", code: `f = loadstring("return 1")`, wantErr: "attempt to call"},
		{name: "debug", code: `debug.getinfo(1)`, wantErr: "attempt to index"},
		{name: "package", code: `x = package.path`, wantErr: "attempt to index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("DoString(%q) error = %v", tt.code, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error", tt.code)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewSandboxedVM_BlockedGlobalsAreNil(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range blockedGlobals {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("global %s = %v, want nil", name, v.Type())
		}
	}
	if v := L.GetGlobal("string"); v.Type() != lua.LTTable {
		t.Errorf("global string = %v, want table", v.Type())
	}
}
