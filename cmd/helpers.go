package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/discovery-funnel/internal/config"
	"github.com/sells-group/discovery-funnel/internal/discovery"
	"github.com/sells-group/discovery-funnel/internal/store"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

// openStore creates the configured store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("database URL is required (DISCOVERY_STORE_DATABASE_URL)")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	case "sqlite":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("sqlite path is required (DISCOVERY_STORE_DATABASE_URL)")
		}
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// newICEClient creates the ICE client from config.
func newICEClient(cfg *config.Config) (ice.Client, error) {
	if cfg.ICE.Key == "" {
		return nil, eris.New("ICE API key is required (DISCOVERY_ICE_KEY)")
	}
	if cfg.ICE.BaseURL == "" {
		return nil, eris.New("ICE base URL is required (DISCOVERY_ICE_BASE_URL)")
	}

	opts := []ice.Option{ice.WithModel(cfg.ICE.Model)}
	if cfg.ICE.TimeoutSecs > 0 {
		opts = append(opts, ice.WithTimeout(time.Duration(cfg.ICE.TimeoutSecs)*time.Second))
	}
	if cfg.ICE.RateRPS > 0 {
		burst := cfg.ICE.RateBurst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, ice.WithRateLimit(cfg.ICE.RateRPS, burst))
	}
	return ice.NewClient(cfg.ICE.Key, cfg.ICE.BaseURL, opts...), nil
}

// newWorkflow wires a discovery workflow over fresh collaborator handles.
func newWorkflow(st store.Store, client ice.Client, cfg *config.Config) (*discovery.Workflow, error) {
	prompts := discovery.DefaultPrompts()
	if cfg.Workflow.PromptsFile != "" {
		p, err := discovery.LoadPrompts(cfg.Workflow.PromptsFile)
		if err != nil {
			return nil, err
		}
		prompts = p
	}

	return discovery.New(st, client, discovery.Config{
		Model:      cfg.ICE.Model,
		ProbeModel: cfg.ICE.ProbeModel,
		Prompts:    prompts,
	}), nil
}
