package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/prodbyeagle/eagle/internal/resolver"
)

// Config is the complete eagle configuration.
type Config struct {
	Minecraft MinecraftConfig `json:"minecraft"`
	Endpoints EndpointsConfig `json:"endpoints"`
	Network   NetworkConfig   `json:"network"`
	Eaglecord EaglecordConfig `json:"eaglecord"`
	Create    CreateConfig    `json:"create"`
}

// MinecraftConfig holds defaults for the mc commands.
type MinecraftConfig struct {
	// Root is the directory holding one folder per server (supports ~).
	Root string `json:"root"`
	Port int    `json:"port"`
	Motd string `json:"motd"`
	// RAMMB is the default JVM heap for mc start.
	RAMMB int `json:"ram_mb"`
	// RequireDigest aborts downloads for which no digest can be discovered.
	RequireDigest bool `json:"require_digest"`
}

// EndpointsConfig overrides the upstream metadata services.
type EndpointsConfig struct {
	Paper   string `json:"paper"`
	Fabric  string `json:"fabric"`
	Release string `json:"release"`
}

// Resolver converts the endpoints for the resolver package.
func (e EndpointsConfig) Resolver() resolver.Endpoints {
	return resolver.Endpoints{
		PaperProject: e.Paper,
		FabricLoader: e.Fabric,
		Release:      e.Release,
	}
}

// NetworkConfig tunes the HTTP client.
type NetworkConfig struct {
	// Attempts is the total number of attempts per request.
	Attempts int `json:"attempts"`
	// UserAgent replaces the default User-Agent when set.
	UserAgent string `json:"user_agent,omitempty"`
}

// EaglecordConfig locates the EagleCord repository and its local clone.
type EaglecordConfig struct {
	Repo string `json:"repo"`
	// Dir is the clone directory; empty means <data dir>/EagleCord/Vencord.
	Dir string `json:"dir,omitempty"`
}

// CreateConfig holds defaults for eagle create.
type CreateConfig struct {
	// Root is the base folder for new projects; empty means
	// ~/Development/.YY for the current year.
	Root string `json:"root,omitempty"`
}

// Limits enforced by Validate.
const (
	MinRAMMB    = 512
	MaxAttempts = 10
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Minecraft: MinecraftConfig{
			Root:  "~/Documents/mc-servers",
			Port:  22222,
			Motd:  "eagle minecraft server",
			RAMMB: 8192,
		},
		Endpoints: EndpointsConfig{
			Paper:   resolver.DefaultPaperProject,
			Fabric:  resolver.DefaultFabricLoader,
			Release: resolver.DefaultRelease,
		},
		Network: NetworkConfig{
			Attempts: 3,
		},
		Eaglecord: EaglecordConfig{
			Repo: "https://github.com/prodbyeagle/cord",
		},
	}
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Minecraft.Root) == "" {
		return &ValidationError{Field: "minecraft.root", Message: "must not be empty"}
	}
	if c.Minecraft.Port < 1 || c.Minecraft.Port > 65535 {
		return &ValidationError{
			Field:   "minecraft.port",
			Message: fmt.Sprintf("%d is out of range 1-65535", c.Minecraft.Port),
		}
	}
	if c.Minecraft.RAMMB < MinRAMMB {
		return &ValidationError{
			Field:   "minecraft.ram_mb",
			Message: fmt.Sprintf("%d is below the minimum of %d", c.Minecraft.RAMMB, MinRAMMB),
		}
	}
	if c.Network.Attempts < 1 || c.Network.Attempts > MaxAttempts {
		return &ValidationError{
			Field:   "network.attempts",
			Message: fmt.Sprintf("%d is out of range 1-%d", c.Network.Attempts, MaxAttempts),
		}
	}

	for field, value := range map[string]string{
		"endpoints.paper":   c.Endpoints.Paper,
		"endpoints.fabric":  c.Endpoints.Fabric,
		"endpoints.release": c.Endpoints.Release,
		"eaglecord.repo":    c.Eaglecord.Repo,
	} {
		if err := validateHTTPURL(value); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
