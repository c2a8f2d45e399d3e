// Package server exposes the scenario store, the ROI calculator and the
// exporters as MCP tools over stdio.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"dare-mcp/internal/config"
	"dare-mcp/internal/roi"
	"dare-mcp/internal/scenario"
	"dare-mcp/internal/storage"
)

// Server holds the state shared by all tool handlers.
type Server struct {
	cfg     *config.AppConfig
	store   *scenario.Store
	kv      storage.KV
	tiers   roi.TierTable
	version string

	enableMermaidCharts bool
}

// New restores the persisted scenario collection (falling back to the seeded
// defaults when storage is empty or unreadable) and returns a server ready
// to run. Every later mutation is written back through kv fire-and-forget.
func New(cfg *config.AppConfig, kv storage.KV, version string) (*Server, error) {
	store := scenario.NewStore(func(blob []byte) error {
		return kv.Put(cfg.StorageKey, blob)
	})

	blob, err := kv.Get(cfg.StorageKey)
	switch {
	case err == nil:
		collection, derr := scenario.Deserialize(blob)
		if derr != nil {
			log.Warn().Err(derr).Msg("Stored scenario collection is unreadable, starting from defaults")
			collection = scenario.DefaultCollection()
		}
		store.Seed(collection)
	case errors.Is(err, storage.ErrNotFound):
		log.Info().Str("key", cfg.StorageKey).Msg("No stored scenario collection, seeding defaults")
		store.Seed(scenario.DefaultCollection())
	default:
		return nil, fmt.Errorf("failed to load scenario collection: %w", err)
	}

	return &Server{
		cfg:                 cfg,
		store:               store,
		kv:                  kv,
		tiers:               cfg.TierDailyPenalties,
		version:             version,
		enableMermaidCharts: cfg.EnableMermaidCharts,
	}, nil
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	impl := &mcp.Implementation{Name: "dare-mcp", Title: "Dispute Automation ROI Estimator", Version: s.version}
	srv := mcp.NewServer(impl, nil)
	s.registerTools(srv)

	log.Info().Int("scenarios", s.store.Len()).Msg("MCP Server starting Stdio loop")
	return srv.Run(ctx, &mcp.StdioTransport{})
}
