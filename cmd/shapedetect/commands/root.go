package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	appConfig  Config
	logger     *zap.Logger
	configPath string
	verbose    bool
)

// NewRootCommand builds the shapedetect CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "shapedetect",
		Short: "Toy multi-object detection pipeline on synthetic shapes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			appConfig = cfg

			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newTrainCommand())
	root.AddCommand(newRenderCommand())
	root.AddCommand(newEvalCommand())

	return root
}

// resolveInt prefers a flag value over the config value, falling back to def.
func resolveInt(flag, cfg, def int) int {
	if flag > 0 {
		return flag
	}
	if cfg > 0 {
		return cfg
	}
	return def
}

// resolveInt64 prefers a non-zero flag value over the config value.
func resolveInt64(flag, cfg int64) int64 {
	if flag != 0 {
		return flag
	}
	return cfg
}

// resolveFloat prefers a positive flag value over the config value.
func resolveFloat(flag, cfg float64) float64 {
	if flag > 0 {
		return flag
	}
	return cfg
}
