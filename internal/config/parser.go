package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/prodbyeagle/eagle/internal/platform"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector skips injecting the platform table.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseString parses a Lua config from a string. Fields the script does not
// set keep their Default() values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		platform.InjectPlatformTable(L, info)
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	File    string // Config file, empty for in-memory sources
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "eagle" table on top of Default(). A
// script that never assigns it yields the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	root := L.GetGlobal(luaGlobalEagle)
	switch root.Type() {
	case lua.LTNil:
		return cfg, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' value", luaGlobalEagle),
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	r := &tableReader{prefix: luaGlobalEagle}
	table := root.(*lua.LTable)

	if t := r.readTable(table, luaFieldMinecraft); t != nil {
		mc := r.child(luaFieldMinecraft)
		mc.readString(t, luaFieldRoot, &cfg.Minecraft.Root)
		mc.readInt(t, luaFieldPort, &cfg.Minecraft.Port)
		mc.readString(t, luaFieldMotd, &cfg.Minecraft.Motd)
		mc.readInt(t, luaFieldRAMMB, &cfg.Minecraft.RAMMB)
		mc.readBool(t, luaFieldRequireDigest, &cfg.Minecraft.RequireDigest)
		r.merge(mc)
	}

	if t := r.readTable(table, luaFieldEndpoints); t != nil {
		ep := r.child(luaFieldEndpoints)
		ep.readString(t, luaFieldPaper, &cfg.Endpoints.Paper)
		ep.readString(t, luaFieldFabric, &cfg.Endpoints.Fabric)
		ep.readString(t, luaFieldRelease, &cfg.Endpoints.Release)
		r.merge(ep)
	}

	if t := r.readTable(table, luaFieldNetwork); t != nil {
		nw := r.child(luaFieldNetwork)
		nw.readInt(t, luaFieldAttempts, &cfg.Network.Attempts)
		nw.readString(t, luaFieldUserAgent, &cfg.Network.UserAgent)
		r.merge(nw)
	}

	if t := r.readTable(table, luaFieldEaglecord); t != nil {
		ec := r.child(luaFieldEaglecord)
		ec.readString(t, luaFieldRepo, &cfg.Eaglecord.Repo)
		ec.readString(t, luaFieldDir, &cfg.Eaglecord.Dir)
		r.merge(ec)
	}

	if t := r.readTable(table, luaFieldCreate); t != nil {
		cr := r.child(luaFieldCreate)
		cr.readString(t, luaFieldRoot, &cfg.Create.Root)
		r.merge(cr)
	}

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// tableReader copies typed Lua fields into Go values and keeps the first
// type mismatch it sees.
type tableReader struct {
	prefix string
	err    *ParseError
}

func (r *tableReader) child(name string) *tableReader {
	return &tableReader{prefix: r.prefix + "." + name}
}

func (r *tableReader) merge(c *tableReader) {
	if r.err == nil {
		r.err = c.err
	}
}

func (r *tableReader) fail(key string, want string, got lua.LValue) {
	if r.err != nil {
		return
	}
	r.err = &ParseError{
		Message: fmt.Sprintf("invalid value for %s.%s", r.prefix, key),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

func (r *tableReader) readTable(t *lua.LTable, key string) *lua.LTable {
	v := t.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTTable:
		return v.(*lua.LTable)
	default:
		r.fail(key, "table", v)
		return nil
	}
}

func (r *tableReader) readString(t *lua.LTable, key string, dst *string) {
	v := t.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
	case lua.LTString:
		*dst = v.String()
	default:
		r.fail(key, "string", v)
	}
}

func (r *tableReader) readInt(t *lua.LTable, key string, dst *int) {
	v := t.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		n := float64(v.(lua.LNumber))
		if n != float64(int(n)) {
			r.fail(key, "integer", v)
			return
		}
		*dst = int(n)
	default:
		r.fail(key, "number", v)
	}
}

func (r *tableReader) readBool(t *lua.LTable, key string, dst *bool) {
	v := t.RawGetString(key)
	switch v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		*dst = bool(v.(lua.LBool))
	default:
		r.fail(key, "boolean", v)
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	prefix := parseErr.Message
	if parseErr.File != "" {
		prefix = parseErr.File + ": " + prefix
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", prefix, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", prefix, detail)
}
