package main

// Entry point for aw-viewer-tui
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FBakkensen/aw-viewer-tui/config"
	"github.com/FBakkensen/aw-viewer-tui/gateway"
	"github.com/FBakkensen/aw-viewer-tui/logging"
	"github.com/FBakkensen/aw-viewer-tui/tui"
)

func main() {
	// Initialize logging first (allow override via env)
	logLevel := logging.ParseLevel(os.Getenv("AWVIEWER_LOG_LEVEL"))
	if err := logging.InitLogger(logLevel); err != nil {
		fmt.Printf("Warning: Failed to initialize logging: %v\n", err)
	}

	logging.Info("Starting aw-viewer-tui", "level", logLevel)

	if err := newRootCmd().Execute(); err != nil {
		logging.Error("Command failed", "error", err.Error())
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

// loadConfig resolves configuration for cmd from file, .env, environment and flags.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.NewConfigLoader().Load(config.FlagsFrom(cmd.Flags()))
	logging.Info("Configuration loaded",
		"baseURL", cfg.BaseURL,
		"mode", cfg.Mode,
		"timeout", cfg.RequestTimeout().String())
	return cfg
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aw-viewer-tui",
		Short: "Terminal viewer for the AdventureWorks data and AI backend",
		Long: `aw-viewer-tui shows the AdventureWorks record counts, loads datasets into a
grid and lets you chat with the backend's AI modes (Chatbot, SqlBot,
Assistants API and MultiAgent) from the terminal.

Without a subcommand the interactive viewer starts. The subcommands run
single requests against the same backend and print the result.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if err := tui.Run(cfg, gateway.NewClientFromConfig(cfg)); err != nil {
				logging.Error("UI exited with error", "error", err.Error())
				return err
			}
			return nil
		},
	}
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCountsCmd(), newGridCmd(), newAskCmd(), newMockBackendCmd())
	return rootCmd
}
