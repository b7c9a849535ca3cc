package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/source"
)

var syncLogout bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the current week's timesheet from the configured API",
	Long: `Pull the current week's timesheet from the configured API and store it
locally. The first run signs in with the OAuth2 device code flow; the token
is kept in the OS keyring (or ~/.clockstorm/auth/tokens.json).`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncLogout, "logout", false, "Forget the stored API token and exit")
}

func tokenStore() source.TokenStore {
	return source.TokenStore{Dir: filepath.Join(baseDir, "auth")}
}

// newAPISyncer signs in to the configured API and returns a syncer for it.
func newAPISyncer(cmd *cobra.Command) (*source.Syncer, error) {
	sc := appCfg.Source
	if sc.BaseURL == "" {
		return nil, source.ErrNotConfigured
	}
	auth := source.AuthConfig{
		TenantID:      sc.TenantID,
		ClientID:      sc.ClientID,
		DeviceAuthURL: sc.DeviceAuthURL,
		TokenURL:      sc.TokenURL,
		Scopes:        sc.Scopes,
	}
	ts, err := source.Authenticate(cmd.Context(), auth, tokenStore(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return source.NewSyncer(appStore, source.NewClient(cmd.Context(), sc.BaseURL, ts)), nil
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncLogout {
		if err := tokenStore().Delete(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	}

	syncer, err := newAPISyncer(cmd)
	if err != nil {
		return err
	}
	res, err := syncer.Sync(cmd.Context())
	if err != nil {
		return dataError(err)
	}

	out := cmd.OutOrStdout()
	switch {
	case res.Errors > 0:
		return fmt.Errorf("timesheet API could not be read, see the log for details")
	case res.Stored > 0:
		fmt.Fprintln(out, okStyle.Render("Timesheet updated."))
	default:
		fmt.Fprintln(out, mutedStyle.Render("No timesheet changes."))
	}
	return nil
}
