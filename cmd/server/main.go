package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hperssn/pomobot/internal/config"
)

var (
	configPath string
	listenAddr string
	dbDriver   string
	dbDSN      string
)

var rootCmd = &cobra.Command{
	Use:   "pomobot",
	Short: "Chat-driven Pomodoro, task and reminder bot",
	Long: `pomobot - a productivity assistant driven by chat events

Runs Pomodoro focus/rest timers per user, keeps a personal task list and
fires one-shot reminders. Inbound events arrive over HTTP and replies are
streamed back to each user's conversation.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the configured Pomodoro presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range cfg.Presets {
			fmt.Fprintf(out, "%-10s %-20s focus %3d min  rest %3d min\n", p.ID, p.Name, p.FocusSec/60, p.RestSec/60)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pomobot.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: sqlite3, postgres or memory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Database path or connection string (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presetsCmd)
}

// loadConfig reads the config file and applies flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.ListenAddr = listenAddr
	}
	if flags.Changed("db-driver") {
		cfg.DatabaseDriver = dbDriver
	}
	if flags.Changed("db") {
		cfg.DatabaseDSN = dbDSN
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
