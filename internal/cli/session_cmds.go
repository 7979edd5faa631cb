package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

func newLoginCmd(app appFunc) *cobra.Command {
	var email, password, token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Long: `Log in with email and password, or adopt a credential you already hold.

Examples:
  directoryctl login --email ana@example.com --password secret
  directoryctl login --token eyJhbGciOi...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx := cmd.Context()

			credential := strings.TrimSpace(token)
			if credential == "" {
				issued, err := a.API.Login(ctx, email, password)
				if err != nil {
					return err
				}
				credential = issued
			}

			snap := a.Sessions.Login(ctx, credential)
			if !snap.Authenticated() {
				return apperrors.NewUnauthorized("login did not establish a session")
			}
			a.Printer.Success("Logged in as %s (user %s)", snap.Identity.Role, snap.Identity.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&token, "token", "", "use an existing credential instead of email and password")
	cmd.MarkFlagsMutuallyExclusive("token", "email")
	cmd.MarkFlagsRequiredTogether("email", "password")
	return cmd
}

func newLogoutCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			a.Sessions.Logout(cmd.Context())
			a.Printer.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a := app()
			identity, ok := a.Sessions.Identity()
			if !ok {
				a.Printer.Print("anonymous")
				return nil
			}

			table := a.Printer.NewTable("FIELD", "VALUE")
			table.AddRow("user", identity.ID.String())
			table.AddRow("role", identity.Role.String())
			if identity.ExpiresAt != nil {
				expires := identity.ExpiresAt.Local().Format(time.RFC3339)
				if identity.Expired(time.Now()) {
					expires += " (expired)"
				}
				table.AddRow("expires", expires)
			}
			return table.Render()
		},
	}
}
