package commands

import (
	"dare-mcp/internal/config"
	"dare-mcp/internal/logging"
	"dare-mcp/internal/scenario"
	"dare-mcp/internal/server"
	"dare-mcp/internal/storage"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	kv storage.KV
)

var rootCmd = &cobra.Command{
	Use:   "dare-mcp",
	Short: "DARE-MCP is a dispute-automation ROI estimation MCP server",
	Long: `A specialized MCP Server that manages what-if scenarios for dispute-automation
rollouts and derives the full ROI picture (labor savings, avoided fees and penalties,
pricing suggestions) from their assumptions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Open the scenario storage backend
		kv, err = storage.Open(cfg.StorageBackend, cfg.StoragePath)
		if err != nil {
			log.Fatal().Err(err).Str("backend", string(cfg.StorageBackend)).Msg("Failed to open storage")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("backend", string(cfg.StorageBackend)).
			Msg("DARE-MCP starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer closeStorage()

		srv, err := server.New(cfg, kv, Version)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize server")
		}
		if err := srv.Run(cmd.Context()); err != nil {
			log.Fatal().Err(err).Msg("MCP server terminated")
		}
	},
}

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the stored scenario collection to the seeded defaults",
	Run: func(cmd *cobra.Command, args []string) {
		defer closeStorage()

		if _, err := kv.Get(cfg.StorageKey); err == nil && !seedForce {
			log.Fatal().Str("key", cfg.StorageKey).Msg("A scenario collection already exists, pass --force to overwrite it")
		}

		blob, err := scenario.Serialize(scenario.DefaultCollection())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to serialize default collection")
		}
		if err := kv.Put(cfg.StorageKey, blob); err != nil {
			log.Fatal().Err(err).Msg("Failed to write default collection")
		}
		log.Info().Str("key", cfg.StorageKey).Msg("Scenario collection reset to defaults")
	},
}

func closeStorage() {
	if err := kv.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close storage")
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite an existing scenario collection")
	rootCmd.AddCommand(seedCmd)
}
