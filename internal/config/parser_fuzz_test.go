package config

import (
	"context"
	"testing"
)

func FuzzParser_ParseString(f *testing.F) {
	f.Add(`eagle = { minecraft = { port = 25565 } }`)
	f.Add(`eagle = { network = { attempts = 5 } }`)
	f.Add(`eagle = "nope"`)

	parser := NewParser(nil)

	f.Fuzz(func(t *testing.T, luaCode string) {
		cfg, err := parser.ParseString(context.Background(), luaCode)
		if err == nil && cfg.Validate() != nil {
			t.Errorf("ParseString(%q) returned an invalid config", luaCode)
		}
	})
}
