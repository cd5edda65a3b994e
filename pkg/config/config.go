package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flags holds parsed command-line flag values and which were explicitly set.
type Flags struct {
	Addr     string
	Upstream string
	Config   string
	Set      map[string]bool
}

// EffectiveConfigResult is the merged configuration the app runs with, plus
// the dominant source for the startup banner.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	Source string // "flags", "env", or "config"
}

// ParseCommandFlags defines and parses command-line flags.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", ":8585", "HTTP listen address")
	upPtr := flag.String("upstream", "", "Upstream Lemmy API base URL")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, Upstream: *upPtr, Config: *cfgPtr, Set: set}
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and POSTVIEW_CONFIG when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("POSTVIEW_CONFIG"); p != "" {
		return p
	}
	return flagPath
}

// Load reads and parses the YAML config file. A missing file is not fatal;
// an empty Config is returned so env and flags can still apply.
func Load(path string) (*Config, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, true, err
	}
	return &cfg, true, nil
}

// LoadEnvOverrides applies POSTVIEW_* environment overrides onto cfg and
// reports whether any env var was used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false

	if v := os.Getenv("POSTVIEW_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("POSTVIEW_UPSTREAM_URL"); v != "" {
		envUsed = true
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("POSTVIEW_UPSTREAM_JWT"); v != "" {
		envUsed = true
		cfg.Upstream.JWT = v
	}
	if v := os.Getenv("POSTVIEW_UPSTREAM_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Upstream.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("POSTVIEW_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Upstream.RateRPS = f
		}
	}
	if v := os.Getenv("POSTVIEW_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Upstream.RateBurst = n
		}
	}
	if v := os.Getenv("POSTVIEW_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Server.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("POSTVIEW_DEFAULT_SORT"); v != "" {
		envUsed = true
		cfg.Engine.DefaultSort = v
	}
	if v := os.Getenv("POSTVIEW_FETCH_DEPTH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Engine.FetchDepth = n
		}
	}
	if v := os.Getenv("POSTVIEW_RENDER_DEPTH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Engine.RenderDepth = n
		}
	}
	if v := os.Getenv("POSTVIEW_ACTOR_ID"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			envUsed = true
			cfg.Engine.ActorID = n
		}
	}
	if v := os.Getenv("POSTVIEW_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POSTVIEW_LOG_FORMAT"); v != "" {
		envUsed = true
		cfg.Logging.Format = v
	}
	return envUsed
}

// LoadEffective loads the config file, applies env overrides and flags, and
// fills defaults. Flags explicitly set by the user win over env and file.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	path := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, fromFile, err := Load(path)
	if err != nil {
		return EffectiveConfigResult{}, err
	}
	envUsed := LoadEnvOverrides(cfg)

	if flags.Set["upstream"] {
		cfg.Upstream.BaseURL = flags.Upstream
	}
	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
	}
	applyDefaults(cfg)

	source := "config"
	switch {
	case len(flags.Set) > 0:
		source = "flags"
	case envUsed:
		source = "env"
	case !fromFile:
		source = "defaults"
	}
	return EffectiveConfigResult{Config: cfg, Addr: addr, Source: source}, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 30
	}
	if cfg.Engine.DefaultSort == "" {
		cfg.Engine.DefaultSort = "Hot"
	}
	if cfg.Engine.FetchDepth <= 0 {
		cfg.Engine.FetchDepth = 8
	}
	if cfg.Engine.RenderDepth < 0 {
		cfg.Engine.RenderDepth = 0
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func splitList(v string) []string {
	parts := []string{}
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
