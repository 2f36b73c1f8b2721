package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chefs-domain",
	Short: "Chef's Domain REST backend",
	Long: `REST backend for the Chef's Domain food ordering site: foods, orders,
blog posts and cookie based authentication, stored in MongoDB.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		ctx := cmd.Context()
		client, err := connectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("disconnect mongo")
			}
		}()

		if err := newMongoStore(client.Database(cfg.DBName), cfg).ensureIndexes(ctx); err != nil {
			return err
		}
		log.Info().Str("db", cfg.DBName).Msg("indexes created")
		return nil
	},
}

var requireIndexes bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&requireIndexes, "require-indexes", false,
		"Refuse to serve when the order indexes cannot be created (overrides REQUIRE_INDEXES)")
	rootCmd.AddCommand(serveCmd, indexesCmd)
}

// applyFlags lets explicitly set command line flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	if cmd.Flags().Changed("require-indexes") {
		cfg.RequireIndexes = requireIndexes
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)
	applyFlags(cmd, &cfg)
	ctx, stop := signalContext()
	defer stop()
	return serve(ctx, cfg)
}
