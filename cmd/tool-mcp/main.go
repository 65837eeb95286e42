// Command tool-mcp starts the tool dispatch HTTP server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tool-mcp/internal/config"
	"tool-mcp/internal/logging"
	"tool-mcp/internal/server"
	"tool-mcp/internal/tools"
	"tool-mcp/internal/version"
)

type serveOptions struct {
	envFile   string
	toolsFile string
	logLevel  string
	port      int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:          "tool-mcp",
		Short:        "Serve the joke-generator and validate tools over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, opts, logOut)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.envFile, "env-file", ".env", "path to a .env file, ignored when missing")
	f.StringVar(&opts.toolsFile, "tools-file", "", "YAML tool catalog (overrides TOOLS_FILE)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	f.IntVar(&opts.port, "port", 0, "listen port (overrides PORT)")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func serve(cmd *cobra.Command, opts serveOptions, logOut io.Writer) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.port
	}
	if opts.toolsFile != "" {
		cfg.ToolsFile = opts.toolsFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)

	catalog := tools.DefaultCatalog()
	if cfg.ToolsFile != "" {
		if catalog, err = tools.LoadCatalog(cfg.ToolsFile); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.ToolsFile).Int("jokes", catalog.Len()).Msg("Loaded tool catalog")
	}
	catalog = catalog.WithValidationNumber(cfg.ValidationNumber)
	if catalog.ValidationNumber() == tools.DefaultValidationNumber {
		logger.Warn().Msg("VALIDATION_NUMBER not set; validate returns the placeholder number")
	}

	registry, err := tools.NewRegistry(catalog, tools.DefaultRandomSource())
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:            cfg.Addr(),
		CORSOrigins:     cfg.CORSOrigins,
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		TLSCertFile:     cfg.TLSCertFile,
		TLSKeyFile:      cfg.TLSKeyFile,
	}, registry, logger)

	logger.Info().Str("version", version.Version).Str("addr", cfg.Addr()).Msg("tool-mcp starting")
	if err := srv.Run(cmd.Context()); err != nil {
		logger.Error().Err(err).Msg("server error")
		return err
	}
	logger.Info().Msg("Server shutdown complete")
	return nil
}
