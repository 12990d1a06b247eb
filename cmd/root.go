package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
)

var (
	logLevel   string
	logFormat  string
	configPath string
	logger     *slog.Logger

	// appConfig is loaded once before any subcommand runs
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mountaincarga",
	Short: "Evolve mountain car action sequences with a genetic algorithm",
	Long: `mountaincarga evolves fixed-length action sequences that drive an
under-powered car up a hill, using tournament selection, two-point crossover
and an elitist hall of fame. Runs can be replayed in the terminal, persisted,
resumed and served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		if configPath == "" {
			appConfig = config.Default()
			return nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		slog.Debug("Loaded config file", "path", configPath)
		appConfig = cfg
		return nil
	},
}

func setupLogger() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logFormat == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "INI config file")
}
