package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/race-ev/internal/config"
	"github.com/yourusername/race-ev/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	awsRegion    string
	awsSecretID  string
	inputPath    string
	outputPath   string
	outputFormat string
	log          *logrus.Logger
	cfg          *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&awsRegion, "aws-region", "", "AWS region for the secrets overlay")
	rootCmd.PersistentFlags().StringVar(&awsSecretID, "aws-secret", "", "AWS Secrets Manager secret holding database credentials")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Event file or directory (overrides input.path)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Results file (overrides output.path)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Results format: json or msgpack (overrides output.format)")

	rootCmd.AddCommand(scoreCmd, watchCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "race-ev",
	Short: "Score race fields and synthesize expected-value wager portfolios",
	Long: `race-ev turns a race field into calibrated win probabilities, expected returns,
participant classifications and balanced / high-risk wager portfolios.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "race-ev %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if inputPath != "" {
		loaded.Input.Path = inputPath
	}
	if outputPath != "" {
		loaded.Output.Path = outputPath
	}
	if outputFormat != "" {
		loaded.Output.Format = outputFormat
	}

	if awsSecretID != "" {
		if err := config.LoadSecretsFromAWS(ctx, loaded, awsRegion, awsSecretID); err != nil {
			return err
		}
	}

	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}
