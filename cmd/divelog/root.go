package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:           "divelog",
		Short:         "Reconcile, merge and tabulate dive log records",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	command.PersistentFlags().BoolP("verbose", "v", false, "print debug detail")
	command.AddCommand(
		NewMergeCommand(),
		NewAlignCommand(),
		NewSessionsCommand(),
		NewScanCommand(),
		NewInfoCommand(),
		NewRateCommand(),
	)
	return command
}

// loggerFor builds the logger every subcommand logs through, honoring the
// persistent verbose flag.
func loggerFor(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
