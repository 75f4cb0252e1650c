// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/idealab/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// flagKeys maps command flags onto config keys. Only flags a command
// actually defines are bound.
var flagKeys = map[string]string{
	"owner":       "github.owner",
	"repo":        "github.repo",
	"api":         "github.api",
	"label":       "board.label",
	"catalog":     "labs.catalog",
	"watch":       "labs.watch",
	"webhook-url": "intake.webhook_url",
	"addr":        "server.addr",
}

var rootCmd = &cobra.Command{
	Use:   "idealab",
	Short: "Public idea board, labs gallery and idea intake backed by GitHub Issues.",
	Long: `idealab serves three small pages over one data set:

  board   ideas filed as GitHub issues, filtered by status and search text
  labs    a catalog of "molecules" (experiments) with launch links
  submit  an intake form that forwards ideas to a webhook

Every page is also available as a CLI command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		switch {
		case verbose:
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		case cmd.Name() == "serve":
			zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		default:
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		v, err := config.New(configPath)
		if err != nil {
			return err
		}
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		logger.Debug("Loaded configuration",
			zap.String("owner", cfg.GitHub.Owner),
			zap.String("repo", cfg.GitHub.Repo),
			zap.String("api", cfg.GitHub.API),
			zap.Bool("token", cfg.GitHub.Token != ""),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

// addSourceFlags adds the flags that point at the GitHub repository.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "GitHub owner of the intake repository")
	cmd.Flags().String("repo", "", "GitHub intake repository name")
	cmd.Flags().String("api", "", "GitHub API to read issues with: rest or graphql")
	cmd.Flags().String("label", "", "Issue label that marks an idea")
}
