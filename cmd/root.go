// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/driftline/internal/config"
	"github.com/xkilldash9x/driftline/internal/observability"
)

type contextKey string

// configKey is where PersistentPreRunE parks the loaded config for subcommands.
const configKey contextKey = "driftline-config"

// osExit is swapped out in tests.
var osExit = os.Exit

// NewRootCmd builds the root command and its full subcommand tree. Each call
// returns an isolated instance so tests never share state.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile   string
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:     "driftline",
		Short:   "Driftline generates humanlike pointer trajectories.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := loadConfigInto(v, cfgFile); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "driftline"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			// Flags beat file and environment values, but only when set.
			if cmd.Root().PersistentFlags().Changed("log-level") {
				v.Set("logger.level", logLevel)
			}
			if cmd.Root().PersistentFlags().Changed("log-format") {
				v.Set("logger.format", logFormat)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "driftline"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting driftline", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newWanderCmd())
	root.AddCommand(newEnqueueCmd())
	root.AddCommand(newWorkerCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI under the given signal-aware context.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		osExit(1)
	}
}

// loadConfigInto points viper at the config file (explicit or discovered) and
// wires the DRIFTLINE_* environment overrides.
func loadConfigInto(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DRIFTLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment carry it.
	}
	return nil
}

// configFromContext retrieves the config stored by PersistentPreRunE.
func configFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration missing from command context")
	}
	return cfg, nil
}
