package config

// Lua schema field names and globals
const (
	luaGlobalEagle = "eagle"

	luaFieldMinecraft = "minecraft"
	luaFieldEndpoints = "endpoints"
	luaFieldNetwork   = "network"
	luaFieldEaglecord = "eaglecord"
	luaFieldCreate    = "create"

	luaFieldRoot          = "root"
	luaFieldPort          = "port"
	luaFieldMotd          = "motd"
	luaFieldRAMMB         = "ram_mb"
	luaFieldRequireDigest = "require_digest"

	luaFieldPaper   = "paper"
	luaFieldFabric  = "fabric"
	luaFieldRelease = "release"

	luaFieldAttempts  = "attempts"
	luaFieldUserAgent = "user_agent"

	luaFieldRepo = "repo"
	luaFieldDir  = "dir"
)

// Environment variables
const (
	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "EAGLE_CONFIG_DIR"
	// EnvServersDir overrides minecraft.root.
	EnvServersDir = "EAGLE_SERVERS_DIR"
	// EnvDataDir overrides the directory holding EagleCord's clone.
	EnvDataDir = "EAGLE_DATA_DIR"
	// EnvCreateRoot overrides create.root.
	EnvCreateRoot = "EAGLE_CREATE_ROOT"
)

// FileName is the configuration file name inside the configuration directory.
const FileName = "config.lua"
