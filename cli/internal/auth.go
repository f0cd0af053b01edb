package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/devilmonastery/storefront/internal/client"
	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/pkg/logger"
	"github.com/devilmonastery/storefront/internal/storage"
	"github.com/devilmonastery/storefront/internal/tokeninfo"
)

// formatDuration formats a duration in a human-friendly way (e.g., "2 days, 3 hours and 45 minutes")
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	parts = appendUnit(parts, days, "day")
	parts = appendUnit(parts, hours, "hour")
	parts = appendUnit(parts, minutes, "minute")
	if len(parts) == 0 {
		parts = appendUnit(parts, seconds, "second")
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func appendUnit(parts []string, n int, unit string) []string {
	switch {
	case n == 1:
		return append(parts, "1 "+unit)
	case n > 1:
		return append(parts, fmt.Sprintf("%d %ss", n, unit))
	default:
		return parts
	}
}

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Sign in to the storefront and manage the stored access token`,
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthTokenCommand())

	return cmd
}

// terminalPage is the CLI's stand-in for the login page: navigation prints
// the resolved location and alerts go to stderr.
type terminalPage struct {
	client *client.Client
	out    io.Writer
	errOut io.Writer
	open   bool
}

func (p *terminalPage) Navigate(location string) error {
	target, err := p.client.Resolve(location)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, "✓ Successfully logged in")
	fmt.Fprintf(p.out, "  Continue at: %s\n", target)

	if p.open {
		if err := openBrowser(target); err != nil {
			fmt.Fprintf(p.errOut, "Failed to open browser automatically: %v\n", err)
		}
	}
	return nil
}

func (p *terminalPage) Alert(message string) {
	fmt.Fprintln(p.errOut, message)
}

func newAuthLoginCommand() *cobra.Command {
	var (
		username string
		password string
		open     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the storefront",
		Long: `Exchange a username and password for an access token and store it locally.

Missing values are prompted for; the password prompt does not echo.

Examples:
  # Prompt for both values
  storefront auth login

  # Non-interactive
  storefront auth login --username alice --password 's3cret&more'

  # Open the home page in a browser afterwards
  storefront auth login -u alice --open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := getCliContext(cmd)
			log := logger.WithCommand(cli.Logger, "login")

			creds, err := readCredentials(cmd, username, password)
			if err != nil {
				return err
			}

			page := &terminalPage{
				client: cli.Client,
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
				open:   open,
			}

			submitter := login.NewSubmitter(cli.Client, cli.Store, page, page,
				login.WithHomePath(cli.Current.HomePath()),
				login.WithLogger(log))

			token, err := submitter.Submit(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if expiry := client.OAuth2Token(token, time.Now()).Expiry; !expiry.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "  Token expires in %s\n", formatDuration(time.Until(expiry)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (if not provided, will prompt)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (if not provided, will prompt)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the home page in a browser after login")

	return cmd
}

// readCredentials takes values from flags and prompts for the ones not given.
// Values are passed through untouched; an explicitly empty flag stays empty.
func readCredentials(cmd *cobra.Command, username, password string) (login.Credentials, error) {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()

	if !cmd.Flags().Changed("username") {
		fmt.Fprint(out, "Username: ")
		line, err := readLine(in)
		if err != nil {
			return login.Credentials{}, fmt.Errorf("failed to read username: %w", err)
		}
		username = line
	}

	if !cmd.Flags().Changed("password") {
		fmt.Fprint(out, "Password: ")
		secret, err := readSecret(cmd, in)
		fmt.Fprintln(out) // newline after password input
		if err != nil {
			return login.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
		password = secret
	}

	return login.Credentials{Username: username, Password: password}, nil
}

// readSecret reads without echo when stdin is a terminal
func readSecret(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// openBrowser tries to open the URL in a browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := getCliContext(cmd)

			if err := cli.Store.Delete(login.AccessTokenKey); err != nil {
				return fmt.Errorf("failed to remove access token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Successfully logged out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := getCliContext(cmd)
			out := cmd.OutOrStdout()

			token, err := cli.Store.Get(login.AccessTokenKey)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read access token: %w", err)
			}

			fmt.Fprintf(out, "Logged in to context %q\n", cli.Config.CurrentContext)

			info, err := tokeninfo.Inspect(token)
			if err != nil {
				fmt.Fprintln(out, "Token is opaque; no expiry information")
				return nil
			}

			if info.Username != "" {
				fmt.Fprintf(out, "Logged in as: %s\n", info.Username)
			}
			if !info.HasExpiry() {
				fmt.Fprintln(out, "Token has no expiry")
				return nil
			}

			fmt.Fprintf(out, "Token expires: %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04:05 MST"))

			now := time.Now()
			if info.IsExpired(now) {
				fmt.Fprintf(out, "⚠  Token expired %s ago - run 'storefront auth login' again\n", formatDuration(now.Sub(info.ExpiresAt)))
			} else {
				fmt.Fprintf(out, "✓  Valid for %s\n", formatDuration(info.ExpiresAt.Sub(now)))
			}

			return nil
		},
	}
}

func newAuthTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Display the current access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := getCliContext(cmd)

			token, err := cli.Store.Get(login.AccessTokenKey)
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
