package app

import (
	"fmt"
	"net/url"

	"postview/pkg/config"
	"postview/pkg/models"
)

// validateConfig rejects configurations the engine cannot run with. Fails
// fast at startup rather than on the first load.
func validateConfig(eff config.EffectiveConfigResult) error {
	cfg := eff.Config
	if cfg.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required (set upstream.base_url, POSTVIEW_UPSTREAM_URL, or -upstream)")
	}
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("upstream base URL %q is not an absolute URL", cfg.Upstream.BaseURL)
	}
	if s := models.Sort(cfg.Engine.DefaultSort); !s.Valid() {
		return fmt.Errorf("unknown default sort %q (want Hot, Top, New or Old)", cfg.Engine.DefaultSort)
	}
	if cfg.Engine.RenderDepth > 0 && cfg.Engine.FetchDepth > 0 && cfg.Engine.RenderDepth > cfg.Engine.FetchDepth {
		return fmt.Errorf("render_depth %d exceeds fetch_depth %d", cfg.Engine.RenderDepth, cfg.Engine.FetchDepth)
	}
	return nil
}
