package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"link-forensics/config"
	"link-forensics/logging"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link-forensics",
		Short: "Unroll links and check them against VirusTotal",
		Long: `link-forensics follows a link through its redirects and asks VirusTotal
whether the final destination is malicious.

Set VT_API_KEY (environment or .env) to enable live lookups. Without it
every scan returns a deterministic mock verdict.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServeCmd,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "dotenv file to load")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	addServeFlags(cmd)

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the logger from the
// persistent flags.
func loadRuntime(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, nil, err
	}
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return config.Config{}, nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return config.Config{}, nil, err
	}
	format, err := flags.GetString("log-format")
	if err != nil {
		return config.Config{}, nil, err
	}

	var logger *slog.Logger
	switch format {
	case "text":
		logger = logging.New(cmd.ErrOrStderr(), verbose)
	case "json":
		logger = logging.NewJSON(cmd.ErrOrStderr(), verbose)
	default:
		return config.Config{}, nil, fmt.Errorf("unknown log format %q", format)
	}

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger, nil
}
