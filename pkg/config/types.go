package config

import "fmt"

// Config is the main configuration struct.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings for the rendering surface.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	CORS    struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// UpstreamConfig describes the Lemmy-compatible API the engine talks to.
type UpstreamConfig struct {
	BaseURL        string  `yaml:"base_url"`
	JWT            string  `yaml:"jwt"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RateRPS        float64 `yaml:"rate_rps"`
	RateBurst      int     `yaml:"rate_burst"`
}

// EngineConfig holds the per-post engine defaults.
type EngineConfig struct {
	// DefaultSort is used when a load request names no sort.
	DefaultSort string `yaml:"default_sort"`
	// FetchDepth is the max_depth requested from the upstream.
	FetchDepth int `yaml:"fetch_depth"`
	// RenderDepth clamps the rendered tree; 0 disables the clamp.
	RenderDepth int `yaml:"render_depth"`
	// ActorID is the acting user's person id; 0 means anonymous.
	ActorID int64 `yaml:"actor_id"`
}

// LoggingConfig holds log level and format (text|json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8585
	}
	return fmt.Sprintf("%s:%d", addr, p)
}
