package app

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"postview/pkg/config"
	"postview/pkg/lemmy"
	"postview/pkg/models"
	"postview/pkg/thread"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	upstream *lemmy.Client
	registry *thread.Registry

	srv *http.Server
}

// New validates the effective config and builds the upstream client and the
// per-post engine registry. It does not start the HTTP server; call Run to
// start it and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	cfg := eff.Config
	client := lemmy.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.JWT,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		cfg.Upstream.RateRPS,
		cfg.Upstream.RateBurst,
	)
	opts := thread.Options{
		ActorID:     cfg.Engine.ActorID,
		FetchDepth:  cfg.Engine.FetchDepth,
		RenderDepth: cfg.Engine.RenderDepth,
	}
	registry := thread.NewRegistry(func(postID int64) *thread.Engine {
		return thread.NewEngine(client, postID, opts)
	})

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		upstream:  client,
		registry:  registry,
	}, nil
}

// DefaultSort returns the configured default sort order.
func (a *App) DefaultSort() models.Sort {
	return models.Sort(a.eff.Config.Engine.DefaultSort)
}

// Run starts the HTTP server and blocks until ctx is canceled or a fatal
// server error occurs.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
