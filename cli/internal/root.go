package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/storefront/internal/client"
	"github.com/devilmonastery/storefront/internal/pkg/logger"
	"github.com/devilmonastery/storefront/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// CliContext holds shared CLI context
type CliContext struct {
	Config  *Config
	Current *Context
	Client  *client.Client
	Store   storage.Store
	Logger  *slog.Logger
}

// Global logging flags
var (
	logLevel      string
	logFile       string
	logToStderr   bool
	alsoLogStderr bool
	logFormat     string
)

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "CLI for signing in to the storefront",
		Long:          `A command line interface that signs in to a storefront with a password grant and keeps the access token locally.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // main.go prints errors
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}

			ctx := &CliContext{Logger: slog.Default().With("component", "cli")}
			ctx.Logger.Debug("CLI started", "command", cmd.Name())

			// config commands manage the file themselves
			if !isConfigCommand(cmd) {
				if err := ctx.connect(); err != nil {
					return err
				}
			}

			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, ctx))
			return nil
		},
	}

	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newConfigCommand())

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (if specified, logs to file instead of stderr)")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "logtostderr", false,
		"Log to stderr (default behavior unless --log-file specified)")
	rootCmd.PersistentFlags().BoolVar(&alsoLogStderr, "alsologtostderr", false,
		"Log to both file and stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")

	return rootCmd
}

// connect loads the current context and builds the token client and store
func (c *CliContext) connect() error {
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	current, err := config.GetCurrentContext()
	if err != nil {
		return err
	}

	tokenClient, err := client.NewClient(current.ClientConfig())
	if err != nil {
		return fmt.Errorf("failed to create client for context %q: %w", config.CurrentContext, err)
	}

	store, err := NewContextStore(config.CurrentContext)
	if err != nil {
		return err
	}
	c.Logger.Debug("using local store",
		slog.String("context", config.CurrentContext),
		slog.String("path", store.Path()))

	c.Config = config
	c.Current = current
	c.Client = tokenClient
	c.Store = store
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// setupLogging configures the global logger based on CLI flags
func setupLogging() error {
	toStderr := logToStderr
	if logFile == "" {
		toStderr = true
	}

	cfg := logger.Config{
		Level:         logger.ParseLevel(logLevel),
		LogFile:       logFile,
		LogToStderr:   toStderr,
		AlsoLogStderr: alsoLogStderr,
		Format:        logFormat,
	}

	globalLogger, err := logger.SetupLogger(cfg)
	if err != nil {
		return err
	}

	slog.SetDefault(globalLogger)
	return nil
}

// getCliContext extracts the CLI context from the command context
func getCliContext(cmd *cobra.Command) *CliContext {
	return cmd.Context().Value(cliContextKey).(*CliContext)
}
