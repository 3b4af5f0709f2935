package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/spf13/cobra"

	"github.com/Jpduker/Edible-AI-Agent/api"
	"github.com/Jpduker/Edible-AI-Agent/internal/catalog"
	"github.com/Jpduker/Edible-AI-Agent/internal/concierge"
	"github.com/Jpduker/Edible-AI-Agent/internal/config"
	"github.com/Jpduker/Edible-AI-Agent/internal/log"
	"github.com/Jpduker/Edible-AI-Agent/internal/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe assembles the service from the configuration and blocks until
// the process receives SIGINT or SIGTERM.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{JSON: cfg.LogJSON})
	logger.Info("starting concierge", "version", AppVersion, "addr", cfg.Addr)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))

	cat, err := catalog.New(catalog.Config{
		BaseURL:         cfg.CatalogBaseURL,
		Timeout:         cfg.CatalogTimeout,
		CacheTTL:        cfg.CacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
		Logger:          logger.With("component", "catalog"),
	})
	if err != nil {
		return fmt.Errorf("creating catalog client: %w", err)
	}

	c, err := concierge.New(concierge.Config{
		Genkit:         g,
		Catalog:        cat,
		Logger:         logger.With("component", "concierge"),
		ModelName:      cfg.ModelName,
		MaxToolSteps:   cfg.MaxToolSteps,
		TokenThreshold: cfg.TokenThreshold,
	})
	if err != nil {
		return fmt.Errorf("creating concierge: %w", err)
	}

	// Flow registration makes the reasoning loop visible to Genkit's dev
	// tooling alongside the plain HTTP endpoint.
	c.DefineFlow(g)

	limiter := ratelimit.New(ratelimit.Config{
		Window: cfg.RateLimitWindow,
		Max:    cfg.RateLimitMax,
	})

	srv, err := api.NewServer(api.Config{
		Responder:        c,
		Catalog:          cat,
		Limiter:          limiter,
		Logger:           logger.With("component", "api"),
		TrustProxy:       cfg.TrustProxy,
		UnknownCallerKey: cfg.UnknownCallerKey,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx, cfg.Addr)
}
