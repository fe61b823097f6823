// Package cli implements the xgoimages command line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MacroPower/xgoimages/internal/version"
	"github.com/MacroPower/xgoimages/pkg/config"
	"github.com/MacroPower/xgoimages/pkg/log"
)

var (
	ErrLogHandlerFailed = errors.New("log handler failed")
	ErrInvalidArgument  = errors.New("invalid argument")
)

func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
	}

	cmd.PersistentFlags().StringVar(args.logLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(args.logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")
	cmd.PersistentFlags().StringVar(args.configFile, "config", "", "Path to a YAML config file")
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		h, err := log.CreateHandlerWithStrings(
			cc.ErrOrStderr(),
			args.GetLogLevel(),
			args.GetLogFormat(),
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
		}

		slog.SetDefault(slog.New(h))

		slog.Debug("ready to go")

		return nil
	}

	cmd.AddCommand(NewGenerateCmd(args))
	cmd.AddCommand(NewMatrixCmd(args))
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadConfig resolves the configuration from the config file and environment.
func loadConfig(args *RootArgs) (*config.Config, error) {
	cfg, err := config.Load(args.GetConfigFile())
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded config",
		slog.String("file", args.GetConfigFile()),
		slog.String("output_dir", cfg.OutputDir),
		slog.Any("arches", cfg.Arches),
	)

	return cfg, nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
