package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/storefront/internal/login"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration and contexts",
		Long:  `Manage CLI configuration including storefront contexts, similar to kubectl contexts.`,
	}

	cmd.AddCommand(newCurrentContextCommand())
	cmd.AddCommand(newUseContextCommand())
	cmd.AddCommand(newListContextsCommand())
	cmd.AddCommand(newAddContextCommand())
	cmd.AddCommand(newDeleteContextCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// editConfig loads the config file, applies edit and saves the result.
// The message returned by edit is printed on success.
func editConfig(cmd *cobra.Command, edit func(config *Config) (string, error)) error {
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	msg, err := edit(config)
	if err != nil {
		return err
	}

	if err := SaveConfig(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func newCurrentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Display the current context and its login page",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, err := config.GetCurrentContext()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", config.CurrentContext, ctx.PageURL())
			return nil
		},
	}
}

func newUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context CONTEXT_NAME",
		Short: "Switch to a different context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(config *Config) (string, error) {
				if err := config.SetCurrentContext(args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Switched to context %q (%s)", args[0], config.Contexts[args[0]].PageURL()), nil
			})
		},
	}
}

func newListContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-contexts",
		Aliases: []string{"get-contexts"},
		Short:   "List all available contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(config.Contexts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No contexts configured")
				return nil
			}

			names := make([]string, 0, len(config.Contexts))
			for name := range config.Contexts {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CURRENT\tNAME\tURL\tTHEME")

			for _, name := range names {
				ctx := config.Contexts[name]
				current := " "
				if name == config.CurrentContext {
					current = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, ctx.Server.URL, ctx.Rendering.Theme)
			}
			return w.Flush()
		},
	}
}

func newAddContextCommand() *cobra.Command {
	var (
		url       string
		tokenPath string
		homePath  string
		timeout   time.Duration
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "add-context CONTEXT_NAME",
		Short: "Add or update a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(config *Config) (string, error) {
				ctx := NewContext(url)
				ctx.Server.TokenPath = tokenPath
				ctx.Server.HomePath = homePath
				ctx.Server.Timeout = timeout
				ctx.Rendering.Theme = theme
				config.AddContext(args[0], ctx)

				// The first context becomes current
				if len(config.Contexts) == 1 {
					config.CurrentContext = args[0]
				}
				return fmt.Sprintf("Context %q added/updated", args[0]), nil
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Login page URL; token and home paths resolve against it")
	cmd.Flags().StringVar(&tokenPath, "token-path", login.DefaultTokenPath, "Token endpoint path relative to the login page")
	cmd.Flags().StringVar(&homePath, "home-path", login.DefaultHomePath, "Location to continue at after login")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Token request timeout (0 waits indefinitely)")
	cmd.Flags().StringVar(&theme, "theme", "auto", "Rendering theme")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newDeleteContextCommand() *cobra.Command {
	var keepToken bool

	cmd := &cobra.Command{
		Use:   "delete-context CONTEXT_NAME",
		Short: "Delete a context and its stored access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfig(cmd, func(config *Config) (string, error) {
				if err := config.DeleteContext(args[0]); err != nil {
					return "", err
				}
				if keepToken {
					return fmt.Sprintf("Context %q deleted", args[0]), nil
				}
				if err := removeContextStore(args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Context %q deleted along with its stored token", args[0]), nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepToken, "keep-token", false, "Keep the context's stored access token file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current context configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, err := config.GetCurrentContext()
			if err != nil {
				return fmt.Errorf("failed to get current context: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current context: %s\n", config.CurrentContext)
			fmt.Fprintf(out, "  Login Page: %s\n", ctx.PageURL())
			fmt.Fprintf(out, "  Token Path: %s\n", ctx.Server.TokenPath)
			fmt.Fprintf(out, "  Home Path: %s\n", ctx.HomePath())
			if ctx.Server.Timeout > 0 {
				fmt.Fprintf(out, "  Timeout: %s\n", ctx.Server.Timeout)
			} else {
				fmt.Fprintf(out, "  Timeout: none\n")
			}
			fmt.Fprintf(out, "  Glamour Theme: %s\n", ctx.Rendering.Theme)

			configPath, _ := GetConfigPath()
			fmt.Fprintf(out, "  Config File: %s\n", configPath)

			return nil
		},
	}
}
