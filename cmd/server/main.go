package main

import (
	"fmt"
	"log/slog"
	"os"

	"coursedash/internal/config"
	"coursedash/internal/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configFile string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coursedash",
	Short: "Dashboard of completed courses",
	Long: `coursedash serves a dashboard over a list of completed courses: summary
metrics, a date chart, a category chart and a searchable course list.

Run without a subcommand to start the server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		log = logger.New(logger.Config{
			Writer: os.Stderr,
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})
		slog.SetDefault(log)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	config.Flags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd, validateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
