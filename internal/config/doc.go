// Package config loads the optional Lua configuration file.
//
// The file is plain Lua run in a sandbox: os, io, module loading and the
// debug library are removed, and a read-only "platform" table describing
// the host is injected before the script runs. The script assigns a global
// "eagle" table:
//
//	eagle = {
//	  minecraft = {
//	    root = "~/Documents/mc-servers",
//	    port = 22222,
//	    ram_mb = platform.when(platform.memory_mb >= 16384, 8192) or 4096,
//	    require_digest = true,
//	  },
//	  network = { attempts = 4 },
//	}
//
// Every field is optional. A missing file yields Default().
package config
