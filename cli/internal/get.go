package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/storefront/internal/login"
	"github.com/devilmonastery/storefront/internal/storage"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PATH",
		Short: "Fetch a storefront resource with the stored access token",
		Long: `Send an authenticated GET for PATH, resolved against the login page URL.

Examples:
  storefront get users/
  storefront get products/
  storefront get orders/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := getCliContext(cmd)

			token, err := cli.Store.Get(login.AccessTokenKey)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("not logged in\nPlease run 'storefront auth login' first")
			}
			if err != nil {
				return fmt.Errorf("failed to read access token: %w", err)
			}

			status, body, err := cli.Client.Fetch(cmd.Context(), args[0], token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderBody(out, body, getTheme(cli.Current)))

			if status < 200 || status > 299 {
				return fmt.Errorf("request failed: %d %s", status, http.StatusText(status))
			}
			return nil
		},
	}
}
